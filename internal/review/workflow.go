package review

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
)

// Reviewer-editable fields.
const (
	FieldRank    = "rank"
	FieldComment = "comment"
)

// MaxCommentLength is measured in characters, not bytes.
const MaxCommentLength = 200

// Rank rejection messages. Non-numeric and non-positive input share
// MsgRankInvalid.
const (
	MsgRankInvalid    = "Rank must be greater than 0"
	MsgRankNotWhole   = "Rank must be a whole number"
	MsgRankTooLarge   = "Rank must be at most 2147483647"
	MsgCommentTooLong = "Comment cannot exceed 200 characters"
)

// ValidationError is returned when a reviewer edit is rejected. The stored
// applicant is unchanged and the message is kept on the error board.
type ValidationError struct {
	ApplicantID int64
	Field       string
	Message     string
}

func (e *ValidationError) Error() string { return e.Message }

// FieldErrors is the advisory board of rejected edits keyed by applicant and
// field. It is never persisted.
type FieldErrors struct {
	mu sync.RWMutex
	m  map[int64]map[string]string
}

// NewFieldErrors creates an empty board.
func NewFieldErrors() *FieldErrors {
	return &FieldErrors{m: make(map[int64]map[string]string)}
}

func (f *FieldErrors) set(id int64, field, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byField, ok := f.m[id]
	if !ok {
		byField = make(map[string]string)
		f.m[id] = byField
	}
	byField[field] = msg
}

func (f *FieldErrors) clear(id int64, field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m[id], field)
	if len(f.m[id]) == 0 {
		delete(f.m, id)
	}
}

func (f *FieldErrors) clearAll(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, id)
}

// For returns a copy of the errors recorded for one applicant.
func (f *FieldErrors) For(id int64) map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]string, len(f.m[id]))
	for k, v := range f.m[id] {
		out[k] = v
	}
	return out
}

// ParseRank accepts a trimmed decimal that is finite, positive, integral and
// fits an int32. A rejected input returns the message to show for it.
func ParseRank(raw string) (int, string) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange), math.IsNaN(v), v <= 0:
		return 0, MsgRankInvalid
	case err == nil && math.IsInf(v, 0):
		return 0, MsgRankInvalid
	case v > math.MaxInt32:
		return 0, MsgRankTooLarge
	case v != math.Trunc(v):
		return 0, MsgRankNotWhole
	}
	return int(v), ""
}

// ValidComment reports whether raw fits the comment length limit.
func ValidComment(raw string) bool {
	return utf8.RuneCountInString(raw) <= MaxCommentLength
}

// Workflow applies validated reviewer edits to the store.
type Workflow struct {
	store  *Store
	errors *FieldErrors
}

// NewWorkflow creates a workflow over store.
func NewWorkflow(store *Store) *Workflow {
	return &Workflow{store: store, errors: NewFieldErrors()}
}

// Store returns the underlying applicant store.
func (w *Workflow) Store() *Store { return w.store }

// Errors returns the recorded field errors for one applicant.
func (w *Workflow) Errors(id int64) map[string]string { return w.errors.For(id) }

// ──── SetRank ────

// SetRank commits raw as the applicant's rank or records a rank error.
func (w *Workflow) SetRank(ctx context.Context, id int64, raw string) (model.Applicant, error) {
	if _, ok := w.store.Get(id); !ok {
		return model.Applicant{}, ErrApplicantNotFound
	}
	rank, msg := ParseRank(raw)
	if msg != "" {
		w.errors.set(id, FieldRank, msg)
		return model.Applicant{}, &ValidationError{ApplicantID: id, Field: FieldRank, Message: msg}
	}
	a, err := w.store.Update(ctx, id, func(a *model.Applicant) error {
		a.Rank = &rank
		return nil
	})
	if err != nil {
		return model.Applicant{}, err
	}
	w.errors.clear(id, FieldRank)
	return a, nil
}

// ──── SetComment ────

// SetComment commits raw as the applicant's comment or records a comment
// error. An empty comment removes the stored one.
func (w *Workflow) SetComment(ctx context.Context, id int64, raw string) (model.Applicant, error) {
	if _, ok := w.store.Get(id); !ok {
		return model.Applicant{}, ErrApplicantNotFound
	}
	if !ValidComment(raw) {
		w.errors.set(id, FieldComment, MsgCommentTooLong)
		return model.Applicant{}, &ValidationError{ApplicantID: id, Field: FieldComment, Message: MsgCommentTooLong}
	}
	a, err := w.store.Update(ctx, id, func(a *model.Applicant) error {
		if raw == "" {
			a.Comment = nil
			return nil
		}
		c := raw
		a.Comment = &c
		return nil
	})
	if err != nil {
		return model.Applicant{}, err
	}
	w.errors.clear(id, FieldComment)
	return a, nil
}

// ──── ToggleSelected ────

// ToggleSelected flips selection. Deselecting drops rank, comment and any
// pending field errors for the applicant.
func (w *Workflow) ToggleSelected(ctx context.Context, id int64) (model.Applicant, error) {
	a, err := w.store.Update(ctx, id, func(a *model.Applicant) error {
		a.Selected = !a.Selected
		if !a.Selected {
			a.Rank = nil
			a.Comment = nil
		}
		return nil
	})
	if err != nil {
		return model.Applicant{}, err
	}
	if !a.Selected {
		w.errors.clearAll(id)
	}
	return a, nil
}
