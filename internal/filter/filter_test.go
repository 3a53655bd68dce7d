package filter_test

import (
	"testing"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
)

func job(id string, jt domain.JobType, lvl domain.ExperienceLevel, salary int, skills ...string) domain.Job {
	return domain.Job{
		ID:              domain.JobID(id),
		Title:           "Engineer " + id,
		Company:         "Acme",
		JobType:         jt,
		ExperienceLevel: lvl,
		Salary:          salary,
		Skills:          skills,
	}
}

func defaults() filter.Criteria {
	return filter.Defaults(filter.SalaryRange{Min: filter.DefaultSalaryMin, Max: filter.DefaultSalaryMax})
}

// ── Single predicates ──

func TestMatchesJobType(t *testing.T) {
	j := job("1", domain.JobTypeRemote, domain.ExperienceMid, 100000)

	c := defaults()
	if !filter.MatchesJobType(j, c) {
		t.Error("empty set should match")
	}
	c.JobTypes = []domain.JobType{domain.JobTypeHybrid, domain.JobTypeRemote}
	if !filter.MatchesJobType(j, c) {
		t.Error("member should match")
	}
	c.JobTypes = []domain.JobType{domain.JobTypeOnsite}
	if filter.MatchesJobType(j, c) {
		t.Error("non-member should not match")
	}
}

func TestMatchesExperience(t *testing.T) {
	j := job("1", domain.JobTypeRemote, domain.ExperienceInternship, 20000)
	c := defaults()
	c.ExperienceLevels = []domain.ExperienceLevel{domain.ExperienceSenior}
	if filter.MatchesExperience(j, c) {
		t.Error("Internship should not match Senior")
	}
	c.ExperienceLevels = append(c.ExperienceLevels, domain.ExperienceInternship)
	if !filter.MatchesExperience(j, c) {
		t.Error("Internship should match once selected")
	}
}

func TestMatchesSkillsAllOf(t *testing.T) {
	j := job("1", domain.JobTypeRemote, domain.ExperienceMid, 100000, "React", "TypeScript")

	tests := []struct {
		name   string
		skills []string
		want   bool
	}{
		{"none selected", nil, true},
		{"subset", []string{"React"}, true},
		{"all", []string{"React", "TypeScript"}, true},
		{"one missing", []string{"React", "Go"}, false},
		{"case differs", []string{"react"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := defaults()
			c.Skills = tc.skills
			if got := filter.MatchesSkills(j, c); got != tc.want {
				t.Errorf("MatchesSkills = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchesSalaryInclusive(t *testing.T) {
	c := defaults()
	c.Salary = filter.SalaryRange{Min: 50000, Max: 100000}

	tests := []struct {
		salary int
		want   bool
	}{
		{49999, false},
		{50000, true},
		{75000, true},
		{100000, true},
		{100001, false},
	}
	for _, tc := range tests {
		j := job("x", domain.JobTypeRemote, domain.ExperienceMid, tc.salary)
		if got := filter.MatchesSalary(j, c); got != tc.want {
			t.Errorf("salary %d: got %v, want %v", tc.salary, got, tc.want)
		}
	}
}

func TestMatchesQuery(t *testing.T) {
	j := domain.Job{Title: "Senior Go Developer", Company: "TechCorp"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"go dev", true},
		{"SENIOR", true},
		{"techcorp", true},
		{"rust", false},
		{" go", true},
		{"developer ", false},
	}
	for _, tc := range tests {
		c := defaults()
		c.Query = tc.query
		if got := filter.MatchesQuery(j, c); got != tc.want {
			t.Errorf("query %q: got %v, want %v", tc.query, got, tc.want)
		}
	}
}

// ── Composition ──

func TestMatchesIsConjunction(t *testing.T) {
	jobs := []domain.Job{
		job("1", domain.JobTypeRemote, domain.ExperienceSenior, 150000, "Go"),
		job("2", domain.JobTypeRemote, domain.ExperienceJunior, 150000, "Go"),
		job("3", domain.JobTypeOnsite, domain.ExperienceSenior, 150000, "Go"),
		job("4", domain.JobTypeRemote, domain.ExperienceSenior, 40000, "Go"),
		job("5", domain.JobTypeRemote, domain.ExperienceSenior, 150000, "Java"),
	}
	c := defaults()
	c.JobTypes = []domain.JobType{domain.JobTypeRemote}
	c.ExperienceLevels = []domain.ExperienceLevel{domain.ExperienceSenior}
	c.Skills = []string{"Go"}
	c.Salary = filter.SalaryRange{Min: 50000, Max: 200000}

	got := filter.Apply(jobs, c)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("Apply = %v, want only job 1", got)
	}

	for _, j := range jobs {
		want := filter.MatchesJobType(j, c) && filter.MatchesExperience(j, c) &&
			filter.MatchesSkills(j, c) && filter.MatchesSalary(j, c) && filter.MatchesQuery(j, c)
		if filter.Matches(j, c) != want {
			t.Errorf("job %s: Matches disagrees with individual predicates", j.ID)
		}
	}
}

func TestApplyKeepsOrderAndDoesNotAlias(t *testing.T) {
	jobs := []domain.Job{
		job("a", domain.JobTypeRemote, domain.ExperienceMid, 1),
		job("b", domain.JobTypeHybrid, domain.ExperienceMid, 2),
		job("c", domain.JobTypeRemote, domain.ExperienceMid, 3),
	}
	c := defaults()
	c.JobTypes = []domain.JobType{domain.JobTypeRemote}

	got := filter.Apply(jobs, c)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("Apply = %v", got)
	}
	got[0].Title = "changed"
	if jobs[0].Title == "changed" {
		t.Error("Apply result aliases input")
	}

	empty := filter.Apply(nil, c)
	if empty == nil || len(empty) != 0 {
		t.Errorf("Apply(nil) = %#v, want empty non-nil", empty)
	}
}

// ── Criteria helpers ──

func TestActiveCount(t *testing.T) {
	d := defaults()
	if n := d.ActiveCount(d); n != 0 {
		t.Errorf("defaults: got %d, want 0", n)
	}

	c := d.Clone()
	c.JobTypes = []domain.JobType{domain.JobTypeRemote, domain.JobTypeHybrid}
	if n := c.ActiveCount(d); n != 1 {
		t.Errorf("two job types: got %d, want 1", n)
	}
	c.Skills = []string{"Go", "SQL", "K8s"}
	c.Query = "x"
	c.ExperienceLevels = []domain.ExperienceLevel{domain.ExperienceMid}
	c.Salary.Min = 10
	if n := c.ActiveCount(d); n != 5 {
		t.Errorf("all dimensions: got %d, want 5", n)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := defaults()
	c.Skills = []string{"Go"}
	cp := c.Clone()
	cp.Skills[0] = "Rust"
	if c.Skills[0] != "Go" {
		t.Error("Clone shares skills slice")
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := filter.NormalizeSkills([]string{" Go", "", "SQL", "Go", "  "})
	if len(got) != 2 || got[0] != "Go" || got[1] != "SQL" {
		t.Errorf("NormalizeSkills = %v", got)
	}
}
