package dataset_test

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"testing"

	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/db"
)

// Runs against a live server when JOBBOARD_TEST_DATABASE_URL is set. The
// tables live in a throwaway schema selected through search_path.
func TestPostgresSourceNumericOrder(t *testing.T) {
	dsn := os.Getenv("JOBBOARD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("JOBBOARD_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	admin, err := db.NewPostgresPool(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresPool: %v", err)
	}
	defer admin.Close()

	schema := fmt.Sprintf("jobboard_test_%d", os.Getpid())
	if _, err := admin.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { _, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE") })

	stmts := []string{
		`CREATE TABLE ` + schema + `.companies (id integer PRIMARY KEY, name text NOT NULL)`,
		`CREATE TABLE ` + schema + `.jobs (
			id integer PRIMARY KEY, title text NOT NULL, company_id integer,
			location text NOT NULL DEFAULT '', job_type text NOT NULL,
			experience_level text NOT NULL, salary integer NOT NULL,
			skills text[], posted_date date NOT NULL)`,
	}
	// inserted out of order so the result order comes from ORDER BY
	for _, id := range []int{12, 3, 1, 10, 2, 11, 5, 4, 9, 6, 8, 7} {
		stmts = append(stmts,
			fmt.Sprintf(`INSERT INTO %s.companies VALUES (%d, 'Company %d')`, schema, id, id),
			fmt.Sprintf(`INSERT INTO %s.jobs VALUES (%d, 'Job %d', %d, 'Remote', 'Remote', 'Mid', %d, '{Go}', '2024-01-%02d')`,
				schema, id, id, id, 50000+id, id),
		)
	}
	for _, q := range stmts {
		if _, err := admin.Exec(ctx, q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("JOBBOARD_TEST_DATABASE_URL must be a URL: %v", err)
	}
	qs := u.Query()
	qs.Set("search_path", schema)
	u.RawQuery = qs.Encode()

	pool, err := db.NewPostgresPool(ctx, u.String())
	if err != nil {
		t.Fatalf("NewPostgresPool(search_path): %v", err)
	}
	defer pool.Close()

	raw, err := dataset.PostgresSource{Pool: pool}.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(raw.Jobs) != 12 || len(raw.Companies) != 12 {
		t.Fatalf("got %d jobs, %d companies", len(raw.Jobs), len(raw.Companies))
	}
	for i, j := range raw.Jobs {
		if want := fmt.Sprint(i + 1); j.ID != want {
			t.Errorf("jobs[%d].ID = %v, want %s", i, j.ID, want)
		}
	}
	for i, c := range raw.Companies {
		if want := fmt.Sprint(i + 1); c.ID != want {
			t.Errorf("companies[%d].ID = %v, want %s", i, c.ID, want)
		}
	}

	ds, err := dataset.Resolve(raw, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ds.Jobs[9].ID != "10" || ds.Jobs[9].Company != "Company 10" {
		t.Errorf("jobs[9] = %s/%s, want 10/Company 10", ds.Jobs[9].ID, ds.Jobs[9].Company)
	}
}
