// Package seed holds the built-in default entities used when no persisted
// snapshot exists.
package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults is the decoded built-in data set.
type Defaults struct {
	Users      []model.UserSummary   `yaml:"users"`
	Courses    []model.CourseSummary `yaml:"courses"`
	Applicants []model.Applicant     `yaml:"applicants"`
}

var (
	once     sync.Once
	defaults Defaults
	parseErr error
)

func load() (Defaults, error) {
	once.Do(func() {
		parseErr = yaml.Unmarshal(defaultsYAML, &defaults)
		if parseErr != nil {
			parseErr = fmt.Errorf("seed: decode defaults: %w", parseErr)
		}
	})
	return defaults, parseErr
}

// Parse decodes an alternative defaults document.
func Parse(b []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Defaults{}, fmt.Errorf("seed: decode defaults: %w", err)
	}
	return d, nil
}

// Applicants returns a fresh copy of the default applicants.
func Applicants() []model.Applicant {
	d, err := load()
	if err != nil {
		panic(err)
	}
	return model.CloneApplicants(d.Applicants)
}

// Users returns a copy of the default users.
func Users() []model.UserSummary {
	d, err := load()
	if err != nil {
		panic(err)
	}
	return append([]model.UserSummary(nil), d.Users...)
}

// Courses returns a copy of the default courses.
func Courses() []model.CourseSummary {
	d, err := load()
	if err != nil {
		panic(err)
	}
	return append([]model.CourseSummary(nil), d.Courses...)
}
