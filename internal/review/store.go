// Package review implements the lecturer-side applicant review workflow:
// the applicant store, the filter/sort view, validated reviewer edits and the
// selection overview.
package review

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/metrics"
)

var (
	// ErrApplicantNotFound is returned for ids that are not in the store.
	ErrApplicantNotFound = errors.New("applicant not found")
	// ErrApplicantExists is returned by CreateUnique when a stored applicant
	// conflicts with the new one.
	ErrApplicantExists = errors.New("applicant already exists")
)

// Store is the single source of truth for applicants.
//
// The in-memory list is authoritative for the life of the process. Every
// committed change re-persists the whole collection; persistence failures are
// logged and otherwise ignored. Only Reload re-reads the substrate.
type Store struct {
	snapshot repository.SnapshotRepository[model.Applicant]
	defaults func() []model.Applicant
	logger   *zap.Logger

	mu    sync.RWMutex
	items []model.Applicant

	subMu   sync.Mutex
	subs    map[int]chan []model.Applicant
	nextSub int
}

// NewStore creates a store and loads it.
func NewStore(ctx context.Context, snapshot repository.SnapshotRepository[model.Applicant], defaults func() []model.Applicant, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults == nil {
		defaults = func() []model.Applicant { return []model.Applicant{} }
	}
	s := &Store{
		snapshot: snapshot,
		defaults: defaults,
		logger:   logger,
		subs:     make(map[int]chan []model.Applicant),
	}
	s.items = s.Load(ctx)
	return s
}

// Load reads the persisted snapshot, or the defaults when none exists or it
// cannot be read. The two are never merged. The in-memory list is untouched.
func (s *Store) Load(ctx context.Context) []model.Applicant {
	items, ok, err := s.snapshot.Load(ctx)
	if err != nil {
		s.logger.Warn("read applicants snapshot failed; using defaults", zap.Error(err))
		return s.defaults()
	}
	if !ok {
		return s.defaults()
	}
	return items
}

// Save overwrites the persisted snapshot with items. Failures are logged.
func (s *Store) Save(ctx context.Context, items []model.Applicant) {
	if err := s.snapshot.Save(ctx, items); err != nil {
		metrics.SnapshotSaveFailures.WithLabelValues(kv.KeyApplicants).Inc()
		s.logger.Error("persist applicants snapshot failed", zap.Error(err), zap.Int("applicants", len(items)))
	}
}

// Reload drops the in-memory list and re-reads the substrate.
func (s *Store) Reload(ctx context.Context) {
	items := s.Load(ctx)
	s.mu.Lock()
	s.items = items
	snap := model.CloneApplicants(items)
	s.mu.Unlock()
	s.broadcast(snap)
}

// Snapshot returns a deep copy of the current list in store order.
func (s *Store) Snapshot() []model.Applicant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneApplicants(s.items)
}

// Get returns a copy of one applicant.
func (s *Store) Get(id int64) (model.Applicant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i].Clone(), true
	}
	return model.Applicant{}, false
}

// Update applies fn to a copy of applicant id. If fn returns an error nothing
// is committed. Otherwise the copy replaces the original, the collection is
// persisted and subscribers are notified. The id cannot be changed by fn.
func (s *Store) Update(ctx context.Context, id int64, fn func(a *model.Applicant) error) (model.Applicant, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return model.Applicant{}, ErrApplicantNotFound
	}
	next := s.items[i].Clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return model.Applicant{}, err
	}
	next.ID = id
	s.items[i] = next
	snap := model.CloneApplicants(s.items)
	s.Save(ctx, snap)
	s.mu.Unlock()

	s.broadcast(snap)
	return next.Clone(), nil
}

// Create appends a new applicant with the next free id.
func (s *Store) Create(ctx context.Context, a model.Applicant) model.Applicant {
	created, _ := s.CreateUnique(ctx, a, nil)
	return created
}

// CreateUnique is Create, except that it returns ErrApplicantExists when
// conflicts reports true for any stored applicant. The check and the insert
// happen under one lock.
func (s *Store) CreateUnique(ctx context.Context, a model.Applicant, conflicts func(existing model.Applicant) bool) (model.Applicant, error) {
	s.mu.Lock()
	var maxID int64
	for _, it := range s.items {
		if conflicts != nil && conflicts(it) {
			s.mu.Unlock()
			return model.Applicant{}, ErrApplicantExists
		}
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	a = a.Clone()
	a.ID = maxID + 1
	s.items = append(s.items, a)
	snap := model.CloneApplicants(s.items)
	s.Save(ctx, snap)
	s.mu.Unlock()

	s.broadcast(snap)
	return a.Clone(), nil
}

// Subscribe returns a channel receiving the full list after every committed
// change. Only the latest undelivered list is kept for slow readers. cancel
// must be called to release the subscription.
func (s *Store) Subscribe() (<-chan []model.Applicant, func()) {
	ch := make(chan []model.Applicant, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) broadcast(items []model.Applicant) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// drop the stale undelivered list, keep the newest
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- model.CloneApplicants(items):
		default:
		}
	}
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
