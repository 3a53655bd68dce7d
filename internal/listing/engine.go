// Package listing is the query engine behind the job listings screen. An
// Engine owns one session's filter criteria, sort and view modes, page
// position and bookmark set, and recomputes the visible result
// synchronously after every intent.
//
// An Engine is not safe for concurrent use; callers serialize access.
package listing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
	"jobboard-engine/internal/paging"
)

var ErrInvalidRange = errors.New("invalid salary range")

type Options struct {
	PageSize int
	// Salary is the default salary window; zero value means
	// [filter.DefaultSalaryMin, filter.DefaultSalaryMax].
	Salary   filter.SalaryRange
	ViewMode domain.ViewMode
	SortMode domain.SortMode
	Logger   *slog.Logger
}

type Engine struct {
	jobs  []domain.Job
	store *bookmarks.Store
	log   *slog.Logger

	pageSize int
	defaults filter.Criteria
	criteria filter.Criteria
	result   []domain.Job
	view     domain.ViewMode
	sort     domain.SortMode
	page     int
	marks    bookmarks.Set
}

// New seeds an engine with default criteria and the bookmark set read
// from store. jobs is the dataset in relevance order and is not copied;
// it must not be mutated afterwards. A nil store keeps bookmarks in
// memory only.
func New(ctx context.Context, jobs []domain.Job, store *bookmarks.Store, opts Options) *Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = paging.DefaultPageSize
	}
	if opts.Salary == (filter.SalaryRange{}) || !opts.Salary.Valid() {
		opts.Salary = filter.SalaryRange{Min: filter.DefaultSalaryMin, Max: filter.DefaultSalaryMax}
	}
	if !opts.ViewMode.Valid() {
		opts.ViewMode = domain.ViewGrid
	}
	if m, err := domain.ParseSortMode(string(opts.SortMode)); err == nil {
		opts.SortMode = m
	} else {
		opts.SortMode = domain.SortRelevance
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		jobs:     jobs,
		store:    store,
		log:      opts.Logger.With("component", "listing"),
		pageSize: opts.PageSize,
		defaults: filter.Defaults(opts.Salary),
		view:     opts.ViewMode,
		sort:     opts.SortMode,
		marks:    bookmarks.NewSet(),
	}
	e.criteria = e.defaults.Clone()
	if store != nil {
		e.marks = store.Load(ctx)
	}
	e.recompute()
	return e
}

// SalaryBounds returns the default salary window. With widen set, the
// upper bound grows to the highest salary in jobs so every job stays
// reachable.
func SalaryBounds(lo, hi int, widen bool, jobs []domain.Job) filter.SalaryRange {
	r := filter.SalaryRange{Min: lo, Max: hi}
	if widen {
		for _, j := range jobs {
			r.Max = max(r.Max, j.Salary)
		}
	}
	return r
}

// ── Filter intents ──

func (e *Engine) ToggleJobType(t domain.JobType) error {
	if !t.Valid() {
		return fmt.Errorf("%w %q", domain.ErrUnknownJobType, t)
	}
	e.criteria.JobTypes = toggle(e.criteria.JobTypes, t)
	e.recompute()
	return nil
}

func (e *Engine) ToggleExperience(l domain.ExperienceLevel) error {
	if !l.Valid() {
		return fmt.Errorf("%w %q", domain.ErrUnknownExperience, l)
	}
	e.criteria.ExperienceLevels = toggle(e.criteria.ExperienceLevels, l)
	e.recompute()
	return nil
}

// SetSkills replaces the required skill set.
func (e *Engine) SetSkills(skills []string) {
	e.criteria.Skills = filter.NormalizeSkills(skills)
	e.recompute()
}

// SetSalaryRange rejects min > max and leaves the previous range and
// result untouched.
func (e *Engine) SetSalaryRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidRange, lo, hi)
	}
	e.criteria.Salary = filter.SalaryRange{Min: lo, Max: hi}
	e.recompute()
	return nil
}

func (e *Engine) SetSearchQuery(q string) {
	e.criteria.Query = q
	e.recompute()
}

// ClearFilters resets every criterion. Bookmarks, sort and view mode are
// kept.
func (e *Engine) ClearFilters() {
	e.criteria = e.defaults.Clone()
	e.recompute()
}

// ── Presentation intents ──

// SetSortMode reorders the current result and keeps the page where it
// is, clamped.
func (e *Engine) SetSortMode(m domain.SortMode) error {
	m, err := domain.ParseSortMode(string(m))
	if err != nil {
		return err
	}
	e.sort = m
	e.result = e.ordered()
	e.page = paging.Clamp(e.page, e.TotalPages())
	return nil
}

func (e *Engine) SetViewMode(m domain.ViewMode) error {
	if !m.Valid() {
		return fmt.Errorf("%w %q", domain.ErrUnknownViewMode, m)
	}
	e.view = m
	return nil
}

// ToggleBookmark flips id's membership and persists the whole set. If
// persisting fails the flip is undone and the error returned.
func (e *Engine) ToggleBookmark(ctx context.Context, id domain.JobID) (bool, error) {
	on := e.marks.Toggle(id)
	if e.store != nil {
		if err := e.store.Save(ctx, e.marks); err != nil {
			e.marks.Toggle(id)
			e.log.Warn("bookmark toggle not persisted", "job_id", id, "err", err)
			return !on, err
		}
	}
	e.page = paging.Clamp(e.page, e.TotalPages())
	return on, nil
}

func (e *Engine) NextPage() {
	if e.page < e.TotalPages() {
		e.page++
	}
}

func (e *Engine) PrevPage() {
	if e.page > 1 {
		e.page--
	}
}

// ── Outputs ──

func (e *Engine) Result() []domain.Job { return slices.Clone(e.result) }

func (e *Engine) Criteria() filter.Criteria { return e.criteria.Clone() }

func (e *Engine) Defaults() filter.Criteria { return e.defaults.Clone() }

func (e *Engine) ViewMode() domain.ViewMode { return e.view }

func (e *Engine) SortMode() domain.SortMode { return e.sort }

func (e *Engine) Page() int { return e.page }

func (e *Engine) PageSize() int { return e.pageSize }

func (e *Engine) TotalPages() int { return paging.TotalPages(len(e.result), e.pageSize) }

func (e *Engine) ActiveFilterCount() int { return e.criteria.ActiveCount(e.defaults) }

func (e *Engine) IsBookmarked(id domain.JobID) bool { return e.marks.Has(id) }

// Bookmarks returns the bookmarked ids in canonical order.
func (e *Engine) Bookmarks() []domain.JobID { return e.marks.IDs() }

// PagedResult returns the current page of the result.
func (e *Engine) PagedResult() []domain.Job { return e.PageAt(e.page) }

// PageAt returns page n of the result; pages past the end are empty.
func (e *Engine) PageAt(n int) []domain.Job { return paging.Slice(e.result, n, e.pageSize) }

// ── internals ──

func (e *Engine) recompute() {
	e.result = e.ordered()
	e.page = 1
}

// ordered filters the dataset and applies the sort mode. Sorting is
// stable over dataset order so ties stay in relevance order.
func (e *Engine) ordered() []domain.Job {
	out := filter.Apply(e.jobs, e.criteria)
	switch e.sort {
	case domain.SortSalaryDesc:
		slices.SortStableFunc(out, func(a, b domain.Job) int { return cmp.Compare(b.Salary, a.Salary) })
	case domain.SortDateDesc:
		slices.SortStableFunc(out, func(a, b domain.Job) int { return b.PostedDate.Compare(a.PostedDate) })
	}
	return out
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
