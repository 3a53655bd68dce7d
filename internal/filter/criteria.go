// Package filter holds the predicates that narrow a job dataset. Every
// function here is pure: nothing mutates the job or the criteria.
package filter

import (
	"slices"
	"strings"

	"jobboard-engine/internal/domain"
)

const (
	DefaultSalaryMin = 0
	DefaultSalaryMax = 300000
)

// SalaryRange is an inclusive salary window. Min <= Max always holds for
// ranges accepted by the listing engine.
type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r SalaryRange) Valid() bool { return r.Min <= r.Max }

func (r SalaryRange) Contains(salary int) bool {
	return r.Min <= salary && salary <= r.Max
}

// Criteria is the active filter state. An empty slice places no
// constraint on its dimension.
type Criteria struct {
	JobTypes         []domain.JobType         `json:"jobTypes"`
	ExperienceLevels []domain.ExperienceLevel `json:"experienceLevels"`
	Skills           []string                 `json:"skills"`
	Salary           SalaryRange              `json:"salaryRange"`
	Query            string                   `json:"searchQuery"`
}

// Defaults returns criteria that match every job whose salary lies in
// salary.
func Defaults(salary SalaryRange) Criteria {
	return Criteria{
		JobTypes:         []domain.JobType{},
		ExperienceLevels: []domain.ExperienceLevel{},
		Skills:           []string{},
		Salary:           salary,
	}
}

// Clone returns a deep copy so callers can't alias the engine's slices.
func (c Criteria) Clone() Criteria {
	out := c
	out.JobTypes = append([]domain.JobType{}, c.JobTypes...)
	out.ExperienceLevels = append([]domain.ExperienceLevel{}, c.ExperienceLevels...)
	out.Skills = append([]string{}, c.Skills...)
	return out
}

// ActiveCount returns how many dimensions restrict the result. Each
// dimension counts once however many values it holds; salary counts when
// it differs from the default bounds.
func (c Criteria) ActiveCount(defaults Criteria) int {
	n := 0
	if len(c.JobTypes) > 0 {
		n++
	}
	if len(c.ExperienceLevels) > 0 {
		n++
	}
	if len(c.Skills) > 0 {
		n++
	}
	if c.Query != "" {
		n++
	}
	if c.Salary != defaults.Salary {
		n++
	}
	return n
}

// NormalizeSkills trims entries and drops blanks and duplicates while
// keeping first-seen order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
