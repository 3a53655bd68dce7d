package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// PostgresSource reads the jobs and companies tables. Rows come back in
// numeric id order, which becomes the relevance order. Ids are selected
// as text, so ORDER BY names the table column explicitly.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func (s PostgresSource) Name() string { return "postgres" }

func (s PostgresSource) Load(ctx context.Context) (Raw, error) {
	var raw Raw
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := s.jobs(ctx)
		raw.Jobs = jobs
		return err
	})
	g.Go(func() error {
		companies, err := s.companies(ctx)
		raw.Companies = companies
		return err
	})

	if err := g.Wait(); err != nil {
		return Raw{}, err
	}
	return raw, nil
}

func (s PostgresSource) jobs(ctx context.Context) ([]RawJob, error) {
	const q = `
		SELECT id::text, title, COALESCE(company_id::text, ''), location,
		       job_type, experience_level, salary,
		       COALESCE(skills, '{}'), to_char(posted_date, 'YYYY-MM-DD')
		FROM jobs
		ORDER BY jobs.id`

	rows, err := s.Pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("jobs query: %w", err)
	}
	defer rows.Close()

	out := make([]RawJob, 0)
	for rows.Next() {
		var (
			j             RawJob
			id, companyID string
		)
		if err := rows.Scan(
			&id, &j.Title, &companyID, &j.Location,
			&j.JobType, &j.ExperienceLevel, &j.Salary,
			&j.Skills, &j.PostedDate,
		); err != nil {
			return nil, fmt.Errorf("jobs scan: %w", err)
		}
		j.ID, j.CompanyID = id, companyID
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("jobs rows: %w", err)
	}
	return out, nil
}

func (s PostgresSource) companies(ctx context.Context) ([]RawCompany, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id::text, name FROM companies ORDER BY companies.id`)
	if err != nil {
		return nil, fmt.Errorf("companies query: %w", err)
	}
	defer rows.Close()

	out := make([]RawCompany, 0)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("companies scan: %w", err)
		}
		out = append(out, RawCompany{ID: id, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("companies rows: %w", err)
	}
	return out, nil
}
