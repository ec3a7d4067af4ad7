package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
)

// SortKey orders the applicant table.
type SortKey string

const (
	SortNone         SortKey = "none"
	SortCourse       SortKey = "course"
	SortAvailability SortKey = "availability"
)

// ParseSortKey maps a query parameter to a SortKey. The empty string is none.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNone:
		return SortNone, nil
	case SortCourse:
		return SortCourse, nil
	case SortAvailability:
		return SortAvailability, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// UserNamer resolves a user id to a display name.
type UserNamer interface {
	UserName(id int64) string
}

// Names resolves both display names used by the table.
type Names interface {
	UserNamer
	CourseCode(id int64) string
}

// View filters applicants by a free-text query and orders them by key.
// The input is never modified; the result is a new slice of copies.
func View(applicants []model.Applicant, query string, key SortKey, names Names) []model.Applicant {
	q := strings.ToLower(strings.TrimSpace(query))

	type row struct {
		a      model.Applicant
		course string
	}
	rows := make([]row, 0, len(applicants))
	for i := range applicants {
		a := applicants[i]
		course := names.CourseCode(a.CourseID)
		if q != "" && !strings.Contains(haystack(a, names.UserName(a.UserID), course), q) {
			continue
		}
		rows = append(rows, row{a: a.Clone(), course: course})
	}

	switch key {
	case SortCourse:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].course < rows[j].course })
	case SortAvailability:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].a.Availability < rows[j].a.Availability })
	}

	out := make([]model.Applicant, len(rows))
	for i := range rows {
		out[i] = rows[i].a
	}
	return out
}

func haystack(a model.Applicant, userName, courseCode string) string {
	parts := make([]string, 0, 3+len(a.Skills))
	parts = append(parts, userName, courseCode, string(a.Availability))
	parts = append(parts, a.Skills...)
	return strings.ToLower(strings.Join(parts, " "))
}
