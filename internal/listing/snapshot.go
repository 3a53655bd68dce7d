package listing

import (
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
)

// Card is one job as rendered on the listings screen.
type Card struct {
	domain.Job
	Bookmarked bool `json:"bookmarked"`
}

// Snapshot carries every output of the engine in one value.
type Snapshot struct {
	Items         []Card          `json:"items"`
	Results       []Card          `json:"results,omitempty"`
	Total         int             `json:"total"`
	Page          int             `json:"page"`
	TotalPages    int             `json:"totalPages"`
	PageSize      int             `json:"pageSize"`
	Criteria      filter.Criteria `json:"filters"`
	ActiveFilters int             `json:"activeFilterCount"`
	ViewMode      domain.ViewMode `json:"viewMode"`
	SortMode      domain.SortMode `json:"sortMode"`
	Bookmarks     []domain.JobID  `json:"bookmarkedJobs"`
}

// Snapshot renders the current state. The unpaginated result is included
// only when withResults is set.
func (e *Engine) Snapshot(withResults bool) Snapshot {
	s := Snapshot{
		Items:         e.cards(e.PagedResult()),
		Total:         len(e.result),
		Page:          e.page,
		TotalPages:    e.TotalPages(),
		PageSize:      e.pageSize,
		Criteria:      e.Criteria(),
		ActiveFilters: e.ActiveFilterCount(),
		ViewMode:      e.view,
		SortMode:      e.sort,
		Bookmarks:     e.Bookmarks(),
	}
	if withResults {
		s.Results = e.cards(e.result)
	}
	return s
}

func (e *Engine) cards(jobs []domain.Job) []Card {
	out := make([]Card, len(jobs))
	for i, j := range jobs {
		out[i] = Card{Job: j, Bookmarked: e.marks.Has(j.ID)}
	}
	return out
}
