package model

import (
	"encoding/json"
	"fmt"
)

// Availability is the closed set of candidate availabilities.
type Availability string

const (
	AvailabilityFullTime     Availability = "Full-Time"
	AvailabilityPartTime     Availability = "Part-Time"
	AvailabilityNotAvailable Availability = "Not Available"
)

// Availabilities lists every value in display order.
var Availabilities = []Availability{AvailabilityFullTime, AvailabilityPartTime, AvailabilityNotAvailable}

// Valid reports whether a is one of the known values.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityFullTime, AvailabilityPartTime, AvailabilityNotAvailable:
		return true
	}
	return false
}

func (a *Availability) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if !Availability(s).Valid() {
		return fmt.Errorf("unknown availability %q", s)
	}
	*a = Availability(s)
	return nil
}

func (a *Availability) UnmarshalText(b []byte) error {
	if !Availability(b).Valid() {
		return fmt.Errorf("unknown availability %q", string(b))
	}
	*a = Availability(b)
	return nil
}

// Credential is one academic credential record.
type Credential struct {
	Qualification string `json:"qualification" yaml:"qualification"`
	Institution   string `json:"institution"   yaml:"institution"`
	Year          int    `json:"year"          yaml:"year"`
}

// Applicant is one user's application for one course.
// UserID and CourseID are references resolved through the lookup directory,
// never embedded copies. Rank and Comment are only set while Selected.
type Applicant struct {
	ID                  int64        `json:"id"                   yaml:"id"`
	UserID              int64        `json:"user_id"              yaml:"user_id"`
	CourseID            int64        `json:"course_id"            yaml:"course_id"`
	Availability        Availability `json:"availability"         yaml:"availability"`
	Skills              []string     `json:"skills"               yaml:"skills"`
	AcademicCredentials []Credential `json:"academic_credentials" yaml:"academic_credentials"`
	Selected            bool         `json:"selected"             yaml:"selected"`
	Rank                *int         `json:"rank,omitempty"       yaml:"rank,omitempty"`
	Comment             *string      `json:"comment,omitempty"    yaml:"comment,omitempty"`
}

// Clone returns a deep copy.
func (a Applicant) Clone() Applicant {
	out := a
	if a.Skills != nil {
		out.Skills = append([]string(nil), a.Skills...)
	}
	if a.AcademicCredentials != nil {
		out.AcademicCredentials = append([]Credential(nil), a.AcademicCredentials...)
	}
	if a.Rank != nil {
		r := *a.Rank
		out.Rank = &r
	}
	if a.Comment != nil {
		c := *a.Comment
		out.Comment = &c
	}
	return out
}

// CloneApplicants deep-copies a slice.
func CloneApplicants(in []Applicant) []Applicant {
	if in == nil {
		return nil
	}
	out := make([]Applicant, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
