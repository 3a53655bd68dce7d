package httpapi

import (
	"net/http"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/tracker"
)

// BookmarksHandler serves the bookmarked-jobs screen. Each request reads
// the bookmark set and the dataset fresh.
type BookmarksHandler struct {
	Catalog   *dataset.Catalog
	Bookmarks *bookmarks.Store
}

type bookmarksView struct {
	Count     int            `json:"count"`
	Jobs      []domain.Job   `json:"jobs"`
	Bookmarks []domain.JobID `json:"bookmarkedJobs"`
}

func renderTracker(v *tracker.View) bookmarksView {
	return bookmarksView{Count: v.Count(), Jobs: v.Jobs(), Bookmarks: v.Bookmarks()}
}

func (h BookmarksHandler) open(w http.ResponseWriter, r *http.Request) (*tracker.View, bool) {
	snap := h.Catalog.Current()
	if snap == nil {
		writeErr(w, r, ErrNoDataset)
		return nil, false
	}
	return tracker.Open(r.Context(), snap.Jobs, h.Bookmarks), true
}

func (h BookmarksHandler) List(w http.ResponseWriter, r *http.Request) {
	v, ok := h.open(w, r)
	if !ok {
		return
	}
	writeJSON(w, renderTracker(v))
}

// ByPath handles /bookmarks/{jobId}: DELETE removes, POST toggles.
func (h BookmarksHandler) ByPath(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/bookmarks/")
	if len(parts) != 1 {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /bookmarks/{jobId}")
		return
	}
	id := domain.JobID(parts[0])

	methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: func(w http.ResponseWriter, r *http.Request) {
			v, ok := h.open(w, r)
			if !ok {
				return
			}
			if err := v.Remove(r.Context(), id); err != nil {
				writeErr(w, r, err)
				return
			}
			writeJSON(w, renderTracker(v))
		},
		http.MethodPost: func(w http.ResponseWriter, r *http.Request) {
			v, ok := h.open(w, r)
			if !ok {
				return
			}
			if _, err := v.Toggle(r.Context(), id); err != nil {
				writeErr(w, r, err)
				return
			}
			writeJSON(w, renderTracker(v))
		},
	})(w, r)
}
