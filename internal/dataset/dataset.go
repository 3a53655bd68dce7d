// Package dataset loads the static job catalog and keeps the current
// snapshot for new listing sessions.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"jobboard-engine/internal/domain"
)

var ErrNoJobs = errors.New("dataset has no usable jobs")

// Source produces a raw dataset.
type Source interface {
	Name() string
	Load(ctx context.Context) (Raw, error)
}

// Raw is the dataset as stored: jobs reference companies by id.
type Raw struct {
	Jobs      []RawJob     `json:"jobs" yaml:"jobs"`
	Companies []RawCompany `json:"companies" yaml:"companies"`
}

type RawJob struct {
	ID              any      `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	CompanyID       any      `json:"companyId" yaml:"companyId"`
	Location        string   `json:"location" yaml:"location"`
	JobType         string   `json:"jobType" yaml:"jobType"`
	ExperienceLevel string   `json:"experienceLevel" yaml:"experienceLevel"`
	Salary          int      `json:"salary" yaml:"salary"`
	Skills          []string `json:"skills" yaml:"skills"`
	PostedDate      string   `json:"postedDate" yaml:"postedDate"`
}

type RawCompany struct {
	ID   any    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Dataset is a resolved, immutable catalog. Jobs are in relevance
// (source) order.
type Dataset struct {
	Jobs      []domain.Job
	Companies []domain.Company
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// idString renders an id decoded as a string or number.
func idString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return fmt.Sprintf("%.0f", x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

// Resolve validates raw records and attaches company names. Records that
// can't be used are skipped and logged; an id seen twice keeps its first
// record.
func Resolve(raw Raw, logger *slog.Logger) (Dataset, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "dataset")

	names := make(map[string]string, len(raw.Companies))
	companies := make([]domain.Company, 0, len(raw.Companies))
	for _, c := range raw.Companies {
		id := idString(c.ID)
		if id == "" {
			continue
		}
		if _, dup := names[id]; dup {
			continue
		}
		name := CleanText(c.Name)
		names[id] = name
		companies = append(companies, domain.Company{ID: id, Name: name})
	}

	jobs := make([]domain.Job, 0, len(raw.Jobs))
	seen := make(map[domain.JobID]bool, len(raw.Jobs))
	skipped := 0
	for i, r := range raw.Jobs {
		j, err := resolveJob(r, names)
		if err == nil && seen[j.ID] {
			err = fmt.Errorf("duplicate id %q", j.ID)
		}
		if err != nil {
			skipped++
			log.Warn("skipping job", "index", i, "err", err)
			continue
		}
		seen[j.ID] = true
		jobs = append(jobs, j)
	}

	if len(jobs) == 0 && len(raw.Jobs) > 0 {
		return Dataset{}, fmt.Errorf("%w: all %d records rejected", ErrNoJobs, skipped)
	}
	return Dataset{Jobs: jobs, Companies: companies}, nil
}

func resolveJob(r RawJob, names map[string]string) (domain.Job, error) {
	id := domain.JobID(idString(r.ID))
	if id.IsEmpty() {
		return domain.Job{}, errors.New("missing id")
	}
	jt, err := domain.ParseJobType(strings.TrimSpace(r.JobType))
	if err != nil {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	lvl, err := domain.ParseExperienceLevel(strings.TrimSpace(r.ExperienceLevel))
	if err != nil {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	if r.Salary < 0 {
		return domain.Job{}, fmt.Errorf("job %s: negative salary %d", id, r.Salary)
	}
	posted, err := parseDate(r.PostedDate)
	if err != nil {
		return domain.Job{}, fmt.Errorf("job %s: %w", id, err)
	}

	companyID := idString(r.CompanyID)
	company, ok := names[companyID]
	if !ok || company == "" {
		company = domain.UnknownCompany
	}

	skills := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if s = CleanText(s); s != "" {
			skills = append(skills, s)
		}
	}

	return domain.Job{
		ID:              id,
		Title:           CleanText(r.Title),
		CompanyID:       companyID,
		Company:         company,
		Location:        CleanText(r.Location),
		JobType:         jt,
		ExperienceLevel: lvl,
		Salary:          r.Salary,
		Skills:          skills,
		PostedDate:      posted,
	}, nil
}

// CleanText folds non-breaking spaces and runs of whitespace into single
// spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// AllSkills returns every distinct skill in jobs, sorted.
func AllSkills(jobs []domain.Job) []string {
	set := map[string]struct{}{}
	for _, j := range jobs {
		for _, s := range j.Skills {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
