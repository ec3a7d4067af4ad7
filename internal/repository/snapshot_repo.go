package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

// SnapshotRepository persists one entity collection as a single JSON array
// under a fixed key. Reads parse the whole array; writes replace it.
type SnapshotRepository[T any] interface {
	// Load returns ok=false when nothing has been persisted yet.
	Load(ctx context.Context) (items []T, ok bool, err error)
	Save(ctx context.Context, items []T) error
}

type snapshotRepo[T any] struct {
	store kv.Store
	key   string
}

// NewSnapshotRepo creates a SnapshotRepository bound to key.
func NewSnapshotRepo[T any](store kv.Store, key string) SnapshotRepository[T] {
	return &snapshotRepo[T]{store: store, key: key}
}

func (r *snapshotRepo[T]) Load(ctx context.Context) ([]T, bool, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode %s snapshot: %w", r.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

func (r *snapshotRepo[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", r.key, err)
	}
	return r.store.Put(ctx, r.key, raw)
}

// Snapshots groups the three fixed snapshot collections.
type Snapshots struct {
	Applicants SnapshotRepository[model.Applicant]
	Users      SnapshotRepository[model.UserSummary]
	Courses    SnapshotRepository[model.CourseSummary]
}

// NewSnapshots binds the fixed keys to store.
func NewSnapshots(store kv.Store) *Snapshots {
	return &Snapshots{
		Applicants: NewSnapshotRepo[model.Applicant](store, kv.KeyApplicants),
		Users:      NewSnapshotRepo[model.UserSummary](store, kv.KeyUsers),
		Courses:    NewSnapshotRepo[model.CourseSummary](store, kv.KeyCourses),
	}
}
