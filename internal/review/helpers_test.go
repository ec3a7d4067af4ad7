package review

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

type fakeNames struct {
	users   map[int64]string
	courses map[int64]string
}

func (f fakeNames) UserName(id int64) string {
	if n, ok := f.users[id]; ok {
		return n
	}
	return strconv.FormatInt(id, 10)
}

func (f fakeNames) CourseCode(id int64) string {
	if n, ok := f.courses[id]; ok {
		return n
	}
	return strconv.FormatInt(id, 10)
}

var testNames = fakeNames{
	users:   map[int64]string{1: "Alice", 2: "Ben", 3: "Chloe"},
	courses: map[int64]string{1: "COSC2758", 2: "COSC2123", 3: "ISYS1057"},
}

func testApplicants() []model.Applicant {
	return []model.Applicant{
		{ID: 1, UserID: 1, CourseID: 2, Availability: model.AvailabilityPartTime, Skills: []string{"Go", "SQL"}},
		{ID: 2, UserID: 2, CourseID: 1, Availability: model.AvailabilityFullTime, Skills: []string{"React"}},
		{ID: 3, UserID: 3, CourseID: 3, Availability: model.AvailabilityNotAvailable, Skills: []string{"Java"}},
		{ID: 4, UserID: 1, CourseID: 1, Availability: model.AvailabilityFullTime, Skills: []string{"TypeScript"}},
	}
}

// failingKV accepts reads from an inner store and rejects every write.
type failingKV struct {
	kv.Store
}

func (failingKV) Put(context.Context, string, []byte) error { return errWriteRejected }

var errWriteRejected = errors.New("write rejected")

func newTestStore(t *testing.T, backing kv.Store) *Store {
	t.Helper()
	if backing == nil {
		backing = kv.NewMemory()
	}
	return NewStore(context.Background(), repository.NewSnapshotRepo[model.Applicant](backing, kv.KeyApplicants), testApplicants, nil)
}
