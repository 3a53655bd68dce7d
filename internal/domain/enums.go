package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownJobType    = errors.New("unknown job type")
	ErrUnknownExperience = errors.New("unknown experience level")
	ErrUnknownSortMode   = errors.New("unknown sort mode")
	ErrUnknownViewMode   = errors.New("unknown view mode")
)

// JobType is the work arrangement of a posting.
type JobType string

const (
	JobTypeRemote JobType = "Remote"
	JobTypeHybrid JobType = "Hybrid"
	JobTypeOnsite JobType = "Onsite"
)

// JobTypes lists every job type in display order.
var JobTypes = []JobType{JobTypeRemote, JobTypeHybrid, JobTypeOnsite}

// ParseJobType converts a raw string to a JobType. Matching is exact.
func ParseJobType(s string) (JobType, error) {
	t := JobType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownJobType, s)
	}
	return t, nil
}

func (t JobType) Valid() bool {
	switch t {
	case JobTypeRemote, JobTypeHybrid, JobTypeOnsite:
		return true
	}
	return false
}

// ExperienceLevel is the seniority a posting asks for.
type ExperienceLevel string

const (
	ExperienceJunior     ExperienceLevel = "Junior"
	ExperienceMid        ExperienceLevel = "Mid"
	ExperienceSenior     ExperienceLevel = "Senior"
	ExperienceInternship ExperienceLevel = "Internship"
)

// ExperienceLevels lists every level in display order.
var ExperienceLevels = []ExperienceLevel{ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceInternship}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	l := ExperienceLevel(s)
	if !l.Valid() {
		return "", fmt.Errorf("%w %q", ErrUnknownExperience, s)
	}
	return l, nil
}

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceInternship:
		return true
	}
	return false
}

// SortMode orders the filtered result.
type SortMode string

const (
	SortRelevance  SortMode = "relevance"   // dataset order
	SortSalaryDesc SortMode = "salary-desc" // highest salary first
	SortDateDesc   SortMode = "date-desc"   // newest posting first
)

// ParseSortMode accepts the three sort modes plus "date", the value the
// listing page's sort selector submits for date-desc.
func ParseSortMode(s string) (SortMode, error) {
	switch s {
	case "date":
		return SortDateDesc, nil
	case string(SortRelevance), string(SortSalaryDesc), string(SortDateDesc):
		return SortMode(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSortMode, s)
}

func (m SortMode) Valid() bool {
	_, err := ParseSortMode(string(m))
	return err == nil && m != "date"
}

// ViewMode is how the listings screen lays out cards.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewGrid, ViewList:
		return ViewMode(s), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownViewMode, s)
}

func (m ViewMode) Valid() bool { return m == ViewGrid || m == ViewList }
