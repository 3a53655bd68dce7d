package listing_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/listing"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func makeJobs(n int) []domain.Job {
	jobs := make([]domain.Job, n)
	for i := range jobs {
		jobs[i] = domain.Job{
			ID:              domain.JobID(fmt.Sprint(i + 1)),
			Title:           fmt.Sprintf("Engineer %d", i+1),
			Company:         "Acme",
			JobType:         domain.JobTypeRemote,
			ExperienceLevel: domain.ExperienceMid,
			Salary:          50000 + i*1000,
			Skills:          []string{"Go"},
			PostedDate:      day0.AddDate(0, 0, i),
		}
	}
	return jobs
}

func ids(jobs []domain.Job) []domain.JobID {
	out := make([]domain.JobID, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func equalIDs(a, b []domain.JobID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newEngine(t *testing.T, jobs []domain.Job) (*listing.Engine, *bookmarks.Store) {
	t.Helper()
	store := bookmarks.NewStore(bookmarks.NewMemoryKV(), "", nil)
	return listing.New(context.Background(), jobs, store, listing.Options{}), store
}

type brokenKV struct{ bookmarks.MemoryKV }

func (*brokenKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

// ── Seeding ──

func TestNewDefaults(t *testing.T) {
	e, _ := newEngine(t, makeJobs(3))
	if e.Page() != 1 || e.TotalPages() != 1 {
		t.Errorf("page %d of %d", e.Page(), e.TotalPages())
	}
	if e.ViewMode() != domain.ViewGrid || e.SortMode() != domain.SortRelevance {
		t.Errorf("view=%q sort=%q", e.ViewMode(), e.SortMode())
	}
	if e.ActiveFilterCount() != 0 {
		t.Errorf("ActiveFilterCount = %d", e.ActiveFilterCount())
	}
	c := e.Criteria()
	if c.Salary.Min != 0 || c.Salary.Max != 300000 {
		t.Errorf("salary = %+v", c.Salary)
	}
	if len(e.Result()) != 3 {
		t.Errorf("Result len = %d", len(e.Result()))
	}
}

func TestNewLoadsPersistedBookmarks(t *testing.T) {
	ctx := context.Background()
	kv := bookmarks.NewMemoryKV()
	_ = kv.Set(ctx, bookmarks.DefaultKey, `[2]`)
	e := listing.New(ctx, makeJobs(3), bookmarks.NewStore(kv, "", nil), listing.Options{})
	if !e.IsBookmarked("2") || e.IsBookmarked("1") {
		t.Errorf("Bookmarks = %v", e.Bookmarks())
	}
}

func TestNewOptions(t *testing.T) {
	e := listing.New(context.Background(), makeJobs(5), nil, listing.Options{
		PageSize: 2,
		ViewMode: domain.ViewList,
		SortMode: "date",
	})
	if e.PageSize() != 2 || e.TotalPages() != 3 {
		t.Errorf("page size %d, total %d", e.PageSize(), e.TotalPages())
	}
	if e.ViewMode() != domain.ViewList || e.SortMode() != domain.SortDateDesc {
		t.Errorf("view=%q sort=%q", e.ViewMode(), e.SortMode())
	}
	if got := e.Result()[0].ID; got != "5" {
		t.Errorf("first by date = %s, want 5", got)
	}
}

func TestSalaryBounds(t *testing.T) {
	jobs := []domain.Job{{Salary: 100}, {Salary: 450000}}
	if r := listing.SalaryBounds(0, 300000, false, jobs); r.Max != 300000 {
		t.Errorf("no widen: %+v", r)
	}
	if r := listing.SalaryBounds(0, 300000, true, jobs); r.Max != 450000 {
		t.Errorf("widen: %+v", r)
	}
}

// ── Filtering ──

func TestToggleJobTypeAndExperience(t *testing.T) {
	jobs := makeJobs(4)
	jobs[1].JobType = domain.JobTypeHybrid
	jobs[2].ExperienceLevel = domain.ExperienceSenior
	e, _ := newEngine(t, jobs)

	if err := e.ToggleJobType(domain.JobTypeHybrid); err != nil {
		t.Fatal(err)
	}
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"2"}) {
		t.Errorf("hybrid only = %v", got)
	}
	_ = e.ToggleJobType(domain.JobTypeRemote)
	_ = e.ToggleExperience(domain.ExperienceSenior)
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"3"}) {
		t.Errorf("remote|hybrid & senior = %v", got)
	}
	if e.ActiveFilterCount() != 2 {
		t.Errorf("ActiveFilterCount = %d, want 2", e.ActiveFilterCount())
	}

	_ = e.ToggleJobType(domain.JobTypeHybrid)
	_ = e.ToggleJobType(domain.JobTypeRemote)
	if len(e.Criteria().JobTypes) != 0 {
		t.Errorf("toggle twice should remove: %v", e.Criteria().JobTypes)
	}

	if err := e.ToggleJobType("Freelance"); !errors.Is(err, domain.ErrUnknownJobType) {
		t.Errorf("unknown job type: %v", err)
	}
	if err := e.ToggleExperience("Principal"); !errors.Is(err, domain.ErrUnknownExperience) {
		t.Errorf("unknown level: %v", err)
	}
}

func TestSetSkillsAllOf(t *testing.T) {
	jobs := makeJobs(3)
	jobs[0].Skills = []string{"React", "TypeScript"}
	jobs[1].Skills = []string{"React"}
	e, _ := newEngine(t, jobs)

	e.SetSkills([]string{"React", " TypeScript ", ""})
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"1"}) {
		t.Errorf("React+TypeScript = %v", got)
	}
	if s := e.Criteria().Skills; len(s) != 2 {
		t.Errorf("normalized skills = %v", s)
	}
	e.SetSkills(nil)
	if len(e.Result()) != 3 {
		t.Errorf("no skills = %d jobs", len(e.Result()))
	}
}

func TestSetSalaryRange(t *testing.T) {
	jobs := makeJobs(3)
	jobs[0].Salary = 49999
	jobs[1].Salary = 50000
	jobs[2].Salary = 100001
	e, _ := newEngine(t, jobs)

	if err := e.SetSalaryRange(50000, 100000); err != nil {
		t.Fatal(err)
	}
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"2"}) {
		t.Errorf("[50000,100000] = %v", got)
	}

	err := e.SetSalaryRange(90000, 10000)
	if !errors.Is(err, listing.ErrInvalidRange) {
		t.Fatalf("inverted range err = %v", err)
	}
	if r := e.Criteria().Salary; r.Min != 50000 || r.Max != 100000 {
		t.Errorf("range changed after rejection: %+v", r)
	}
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"2"}) {
		t.Errorf("result changed after rejection: %v", got)
	}
}

func TestSetSearchQuery(t *testing.T) {
	jobs := makeJobs(3)
	jobs[0].Title = "Frontend Developer"
	jobs[1].Company = "DevShop"
	e, _ := newEngine(t, jobs)

	e.SetSearchQuery("DEV")
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"1", "2"}) {
		t.Errorf("query DEV = %v", got)
	}
	e.SetSearchQuery("")
	if len(e.Result()) != 3 {
		t.Error("empty query should match all")
	}
}

func TestEmptyResult(t *testing.T) {
	e, _ := newEngine(t, makeJobs(12))
	e.SetSearchQuery("no such job")
	if len(e.Result()) != 0 {
		t.Fatalf("Result = %v", e.Result())
	}
	if e.Page() != 1 || e.TotalPages() != 1 {
		t.Errorf("empty result: page %d of %d, want 1 of 1", e.Page(), e.TotalPages())
	}
	if p := e.PagedResult(); p == nil || len(p) != 0 {
		t.Errorf("PagedResult = %#v", p)
	}
	e.NextPage()
	if e.Page() != 1 {
		t.Errorf("NextPage on empty moved to %d", e.Page())
	}
}

func TestClearFilters(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, makeJobs(25))
	_ = e.SetSortMode(domain.SortSalaryDesc)
	_ = e.SetViewMode(domain.ViewList)
	if _, err := e.ToggleBookmark(ctx, "3"); err != nil {
		t.Fatal(err)
	}
	_ = e.ToggleJobType(domain.JobTypeRemote)
	e.SetSkills([]string{"Go"})
	_ = e.SetSalaryRange(1, 2)
	e.SetSearchQuery("x")

	e.ClearFilters()
	first := e.Criteria()
	firstResult := ids(e.Result())
	e.ClearFilters()

	if e.ActiveFilterCount() != 0 {
		t.Errorf("ActiveFilterCount = %d", e.ActiveFilterCount())
	}
	if len(firstResult) != 25 || !equalIDs(firstResult, ids(e.Result())) {
		t.Error("second ClearFilters changed the result")
	}
	if c := e.Criteria(); c.Query != first.Query || c.Salary != first.Salary || len(c.JobTypes) != 0 {
		t.Errorf("criteria after clear = %+v", c)
	}
	if e.SortMode() != domain.SortSalaryDesc || e.ViewMode() != domain.ViewList {
		t.Error("ClearFilters reset sort or view")
	}
	if !e.IsBookmarked("3") {
		t.Error("ClearFilters dropped bookmarks")
	}
	if e.Result()[0].ID != "25" {
		t.Errorf("sort not applied after clear: first = %s", e.Result()[0].ID)
	}
}

// ── Sorting ──

func TestSortSalaryDesc(t *testing.T) {
	jobs := makeJobs(3)
	jobs[0].Salary = 40000
	jobs[1].Salary = 90000
	jobs[2].Salary = 60000
	e, _ := newEngine(t, jobs)

	if err := e.SetSortMode(domain.SortSalaryDesc); err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, j := range e.Result() {
		got = append(got, j.Salary)
	}
	if len(got) != 3 || got[0] != 90000 || got[1] != 60000 || got[2] != 40000 {
		t.Errorf("salaries = %v, want [90000 60000 40000]", got)
	}

	_ = e.SetSortMode(domain.SortRelevance)
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"1", "2", "3"}) {
		t.Errorf("relevance = %v", got)
	}
}

func TestSortStableTies(t *testing.T) {
	jobs := makeJobs(4)
	for i := range jobs {
		jobs[i].Salary = 70000
		jobs[i].PostedDate = day0
	}
	jobs[2].Salary = 80000
	e, _ := newEngine(t, jobs)

	_ = e.SetSortMode(domain.SortSalaryDesc)
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"3", "1", "2", "4"}) {
		t.Errorf("salary ties = %v", got)
	}
	_ = e.SetSortMode(domain.SortDateDesc)
	if got := ids(e.Result()); !equalIDs(got, []domain.JobID{"1", "2", "3", "4"}) {
		t.Errorf("date ties = %v", got)
	}
}

func TestSortPersistsAcrossFilterChanges(t *testing.T) {
	e, _ := newEngine(t, makeJobs(6))
	_ = e.SetSortMode(domain.SortDateDesc)
	e.SetSearchQuery("Engineer")
	if got := e.Result()[0].ID; got != "6" {
		t.Errorf("first after filter = %s, want 6", got)
	}
}

func TestSortKeepsPageClamped(t *testing.T) {
	e, _ := newEngine(t, makeJobs(25))
	e.NextPage()
	e.NextPage()
	if e.Page() != 3 {
		t.Fatalf("page = %d", e.Page())
	}
	_ = e.SetSortMode(domain.SortSalaryDesc)
	if e.Page() != 3 {
		t.Errorf("sort reset page to %d", e.Page())
	}
	if err := e.SetSortMode("cheapest"); !errors.Is(err, domain.ErrUnknownSortMode) {
		t.Errorf("unknown sort: %v", err)
	}
	if e.SortMode() != domain.SortSalaryDesc {
		t.Error("failed SetSortMode changed the mode")
	}
}

func TestSetViewMode(t *testing.T) {
	e, _ := newEngine(t, makeJobs(1))
	if err := e.SetViewMode(domain.ViewList); err != nil || e.ViewMode() != domain.ViewList {
		t.Errorf("view = %q, %v", e.ViewMode(), err)
	}
	if err := e.SetViewMode("table"); !errors.Is(err, domain.ErrUnknownViewMode) {
		t.Errorf("unknown view: %v", err)
	}
}

// ── Pagination ──

func TestFifteenJobsTwoPages(t *testing.T) {
	e, _ := newEngine(t, makeJobs(15))
	if e.TotalPages() != 2 {
		t.Fatalf("TotalPages = %d", e.TotalPages())
	}
	if n := len(e.PagedResult()); n != 10 {
		t.Errorf("page 1 has %d", n)
	}
	e.NextPage()
	if n := len(e.PagedResult()); n != 5 {
		t.Errorf("page 2 has %d", n)
	}
	if n := len(e.PageAt(3)); n != 0 {
		t.Errorf("page 3 has %d", n)
	}
}

func TestPageBoundsAreNoOps(t *testing.T) {
	e, _ := newEngine(t, makeJobs(15))
	e.PrevPage()
	if e.Page() != 1 {
		t.Errorf("PrevPage at 1 -> %d", e.Page())
	}
	e.NextPage()
	e.NextPage()
	if e.Page() != 2 {
		t.Errorf("NextPage at last -> %d", e.Page())
	}
}

func TestPagesReconstructResult(t *testing.T) {
	e, _ := newEngine(t, makeJobs(37))
	_ = e.SetSortMode(domain.SortDateDesc)
	var joined []domain.Job
	for p := 1; p <= e.TotalPages(); p++ {
		page := e.PageAt(p)
		if len(page) > e.PageSize() {
			t.Errorf("page %d has %d items", p, len(page))
		}
		joined = append(joined, page...)
	}
	if !equalIDs(ids(joined), ids(e.Result())) {
		t.Error("concatenated pages differ from result")
	}
}

func TestPageAtFarPastEnd(t *testing.T) {
	e, _ := newEngine(t, makeJobs(1))
	for _, n := range []int{2, math.MaxInt} {
		if got := e.PageAt(n); got == nil || len(got) != 0 {
			t.Errorf("PageAt(%d) = %v, want empty", n, got)
		}
	}
}

func TestFilterChangeResetsPage(t *testing.T) {
	e, _ := newEngine(t, makeJobs(30))
	intents := map[string]func(){
		"job type":   func() { _ = e.ToggleJobType(domain.JobTypeRemote) },
		"experience": func() { _ = e.ToggleExperience(domain.ExperienceMid) },
		"skills":     func() { e.SetSkills([]string{"Go"}) },
		"salary":     func() { _ = e.SetSalaryRange(0, 250000) },
		"query":      func() { e.SetSearchQuery("Engineer") },
		"clear":      e.ClearFilters,
	}
	for name, fn := range intents {
		e.NextPage()
		e.NextPage()
		if e.Page() == 1 {
			t.Fatalf("%s: could not leave page 1", name)
		}
		fn()
		if e.Page() != 1 {
			t.Errorf("%s: page = %d, want 1", name, e.Page())
		}
	}
}

// ── Bookmarks ──

func TestToggleBookmarkRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, store := newEngine(t, makeJobs(5))
	if _, err := e.ToggleBookmark(ctx, "1"); err != nil {
		t.Fatal(err)
	}
	before, _, _ := store.Raw(ctx)
	resultBefore := ids(e.Result())

	on, err := e.ToggleBookmark(ctx, "4")
	if err != nil || !on || !e.IsBookmarked("4") {
		t.Fatalf("first toggle = %v, %v", on, err)
	}
	if !store.Load(ctx).Has("4") {
		t.Error("bookmark not persisted")
	}
	on, err = e.ToggleBookmark(ctx, "4")
	if err != nil || on || e.IsBookmarked("4") {
		t.Fatalf("second toggle = %v, %v", on, err)
	}

	after, _, _ := store.Raw(ctx)
	if before != after {
		t.Errorf("payload %s -> %s", before, after)
	}
	if !equalIDs(resultBefore, ids(e.Result())) {
		t.Error("bookmark toggle changed the result")
	}
}

func TestToggleBookmarkRevertsOnSaveFailure(t *testing.T) {
	kv := &brokenKV{}
	store := bookmarks.NewStore(kv, "", nil)
	e := listing.New(context.Background(), makeJobs(2), store, listing.Options{})

	on, err := e.ToggleBookmark(context.Background(), "1")
	if err == nil {
		t.Fatal("expected save error")
	}
	if on || e.IsBookmarked("1") {
		t.Error("failed toggle left bookmark set")
	}
}

// ── Snapshot ──

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t, makeJobs(12))
	_, _ = e.ToggleBookmark(ctx, "2")
	_ = e.ToggleExperience(domain.ExperienceMid)

	s := e.Snapshot(false)
	if s.Total != 12 || s.TotalPages != 2 || s.Page != 1 || len(s.Items) != 10 {
		t.Errorf("snapshot = total %d, pages %d, page %d, items %d", s.Total, s.TotalPages, s.Page, len(s.Items))
	}
	if s.Results != nil {
		t.Error("Results present without withResults")
	}
	if !s.Items[1].Bookmarked || s.Items[0].Bookmarked {
		t.Error("bookmarked flags wrong")
	}
	if s.ActiveFilters != 1 || len(s.Bookmarks) != 1 {
		t.Errorf("active=%d bookmarks=%v", s.ActiveFilters, s.Bookmarks)
	}
	if all := e.Snapshot(true); len(all.Results) != 12 {
		t.Errorf("Results len = %d", len(all.Results))
	}

	c := e.Criteria()
	c.ExperienceLevels[0] = domain.ExperienceSenior
	if e.Criteria().ExperienceLevels[0] != domain.ExperienceMid {
		t.Error("Criteria() exposes internal state")
	}
}
