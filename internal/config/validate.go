package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"jobboard-engine/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var (
	datasetSources   = []string{"file", "postgres", "s3"}
	bookmarkBackends = []string{"file", "sqlite", "redis", "keyring", "memory"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// NormalizeAndValidate returns a normalized copy of cfg and the problems
// found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// ---- Normalization ----

	out.Dataset.Source = strings.ToLower(strings.TrimSpace(out.Dataset.Source))
	out.Dataset.Reload = strings.TrimSpace(out.Dataset.Reload)
	out.Bookmarks.Backend = strings.ToLower(strings.TrimSpace(out.Bookmarks.Backend))
	out.Bookmarks.Key = strings.TrimSpace(out.Bookmarks.Key)
	if out.Bookmarks.Key == "" {
		out.Bookmarks.Key = DefaultBookmarkKey
	}
	out.Listing.DefaultView = strings.ToLower(strings.TrimSpace(out.Listing.DefaultView))
	out.Listing.DefaultSort = strings.ToLower(strings.TrimSpace(out.Listing.DefaultSort))
	if out.Listing.DefaultSort == "date" {
		out.Listing.DefaultSort = string(domain.SortDateDesc)
	}
	out.Sessions.Sweep = strings.TrimSpace(out.Sessions.Sweep)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	// dataset
	switch out.Dataset.Source {
	case "file":
		if strings.TrimSpace(out.Dataset.Path) == "" {
			res.addErr("dataset.path is required when dataset.source=file")
		}
	case "postgres":
		if strings.TrimSpace(out.Dataset.DatabaseURL) == "" {
			res.addErr("dataset.database_url is required when dataset.source=postgres")
		}
	case "s3":
		if out.Dataset.S3.Bucket == "" || out.Dataset.S3.Key == "" {
			res.addErr("dataset.s3.bucket and dataset.s3.key are required when dataset.source=s3")
		}
	default:
		res.addErr("dataset.source must be one of %s (got %q)", strings.Join(datasetSources, ", "), out.Dataset.Source)
	}
	if out.Dataset.Reload != "" {
		if _, err := cron.ParseStandard(out.Dataset.Reload); err != nil {
			res.addErr("dataset.reload is not a valid cron spec: %v", err)
		}
	}
	if strings.Contains(out.Dataset.DatabaseURL, "@") && !strings.HasPrefix(out.Dataset.DatabaseURL, "keyring:") {
		res.addWarn("dataset.database_url looks like it embeds credentials; consider keyring:<account>.")
	}

	// bookmarks
	if !oneOf(out.Bookmarks.Backend, bookmarkBackends) {
		res.addErr("bookmarks.backend must be one of %s (got %q)", strings.Join(bookmarkBackends, ", "), out.Bookmarks.Backend)
	}
	switch out.Bookmarks.Backend {
	case "file":
		if strings.TrimSpace(out.Bookmarks.File) == "" {
			res.addErr("bookmarks.file is required when bookmarks.backend=file")
		}
	case "sqlite":
		if strings.TrimSpace(out.Bookmarks.SQLitePath) == "" {
			res.addErr("bookmarks.sqlite_path is required when bookmarks.backend=sqlite")
		}
	case "redis":
		if strings.TrimSpace(out.Bookmarks.RedisURL) == "" {
			res.addErr("bookmarks.redis_url is required when bookmarks.backend=redis")
		}
	case "memory":
		res.addWarn("bookmarks.backend=memory: bookmarks are lost when the engine stops.")
	}

	// listing
	if out.Listing.PageSize <= 0 {
		res.addErr("listing.page_size must be > 0")
	} else if out.Listing.PageSize > 100 {
		res.addWarn("listing.page_size is large (%d); pages may render slowly.", out.Listing.PageSize)
	}
	if out.Listing.SalaryMin < 0 {
		res.addErr("listing.salary_min must be >= 0")
	}
	if out.Listing.SalaryMin > out.Listing.SalaryMax {
		res.addErr("listing.salary_min (%d) must be <= listing.salary_max (%d)", out.Listing.SalaryMin, out.Listing.SalaryMax)
	}
	if out.Listing.SearchDebounceMS < 0 {
		res.addErr("listing.search_debounce_ms must be >= 0")
	} else if out.Listing.SearchDebounceMS > 0 && out.Listing.SearchDebounceMS < 50 {
		res.addWarn("listing.search_debounce_ms is very low (%d); nearly every keystroke will run a search.", out.Listing.SearchDebounceMS)
	}
	if _, err := domain.ParseViewMode(out.Listing.DefaultView); err != nil {
		res.addErr("listing.default_view: %v", err)
	}
	if _, err := domain.ParseSortMode(out.Listing.DefaultSort); err != nil {
		res.addErr("listing.default_sort: %v", err)
	}

	// sessions
	if out.Sessions.IdleTimeoutSeconds <= 0 {
		res.addErr("sessions.idle_timeout_seconds must be > 0")
	}
	if out.Sessions.Sweep == "" {
		res.addWarn("sessions.sweep is empty; idle sessions are never evicted.")
	} else if _, err := cron.ParseStandard(out.Sessions.Sweep); err != nil {
		res.addErr("sessions.sweep is not a valid cron spec: %v", err)
	}

	// http
	if out.HTTP.RatePerSec < 0 {
		res.addErr("http.rate_per_sec must be >= 0")
	}
	if out.HTTP.RatePerSec > 0 && out.HTTP.Burst < 1 {
		res.addErr("http.burst must be >= 1 when rate limiting is on")
	}

	return out, res
}
