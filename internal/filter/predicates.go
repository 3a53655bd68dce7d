package filter

import (
	"slices"
	"strings"

	"jobboard-engine/internal/domain"
)

func MatchesJobType(j domain.Job, c Criteria) bool {
	return len(c.JobTypes) == 0 || slices.Contains(c.JobTypes, j.JobType)
}

func MatchesExperience(j domain.Job, c Criteria) bool {
	return len(c.ExperienceLevels) == 0 || slices.Contains(c.ExperienceLevels, j.ExperienceLevel)
}

// MatchesSkills requires every selected skill to appear in the job's
// skill list.
func MatchesSkills(j domain.Job, c Criteria) bool {
	for _, s := range c.Skills {
		if !j.HasSkill(s) {
			return false
		}
	}
	return true
}

func MatchesSalary(j domain.Job, c Criteria) bool {
	return c.Salary.Contains(j.Salary)
}

// MatchesQuery is a case-insensitive substring match against the title
// and the resolved company name. The query is used as typed.
func MatchesQuery(j domain.Job, c Criteria) bool {
	if c.Query == "" {
		return true
	}
	q := strings.ToLower(c.Query)
	return strings.Contains(strings.ToLower(j.Title), q) ||
		strings.Contains(strings.ToLower(j.Company), q)
}

func Matches(j domain.Job, c Criteria) bool {
	return MatchesJobType(j, c) &&
		MatchesExperience(j, c) &&
		MatchesSkills(j, c) &&
		MatchesSalary(j, c) &&
		MatchesQuery(j, c)
}

// Apply returns the jobs matching c in their original order. The result
// never aliases jobs.
func Apply(jobs []domain.Job, c Criteria) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if Matches(j, c) {
			out = append(out, j)
		}
	}
	return out
}
