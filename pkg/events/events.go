// Package events publishes review activity to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event names.
const (
	ApplicantSelectionToggled = "applicant.selection_toggled"
	ApplicantRankSet          = "applicant.rank_set"
	ApplicantCommentSet       = "applicant.comment_set"
	ApplicationCreated        = "application.created"
)

// Event is one review activity record.
type Event struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	ApplicantID int64                  `json:"applicant_id"`
	UserID      int64                  `json:"user_id"`
	CourseID    int64                  `json:"course_id"`
	ActorID     int64                  `json:"actor_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

// New stamps an event with an id and the current time.
func New(name string) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
