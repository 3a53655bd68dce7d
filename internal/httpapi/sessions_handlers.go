package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/listing"
)

type SessionsHandler struct {
	Sessions  *Sessions
	Catalog   *dataset.Catalog
	Bookmarks *bookmarks.Store
	CfgVal    *atomic.Value // stores config.Config
	Log       *slog.Logger
}

// sessionView is the listings screen as returned to the client.
type sessionView struct {
	ID             string `json:"id"`
	DatasetVersion int64  `json:"datasetVersion"`
	SearchPending  bool   `json:"searchPending"`
	listing.Snapshot
}

func render(s *Session, e *listing.Engine, withResults bool) sessionView {
	return sessionView{
		ID:             s.ID,
		DatasetVersion: s.DatasetVersion,
		SearchPending:  s.SearchPending(),
		Snapshot:       e.Snapshot(withResults),
	}
}

type createSessionReq struct {
	ViewMode string `json:"viewMode"`
	SortMode string `json:"sortMode"`
}

func (h SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeErr(w, r, err)
		return
	}
	snap := h.Catalog.Current()
	if snap == nil {
		writeErr(w, r, ErrNoDataset)
		return
	}
	cfg := h.CfgVal.Load().(config.Config)

	s := h.Sessions.Create(r.Context(), snap, h.Bookmarks, cfg.Listing)

	var view sessionView
	err := s.Do(func(e *listing.Engine) error {
		if req.ViewMode != "" {
			if err := e.SetViewMode(domain.ViewMode(req.ViewMode)); err != nil {
				return err
			}
		}
		if req.SortMode != "" {
			if err := e.SetSortMode(domain.SortMode(req.SortMode)); err != nil {
				return err
			}
		}
		view = render(s, e, false)
		return nil
	})
	if err != nil {
		_ = h.Sessions.Delete(s.ID)
		writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, view)
}

// Route serves /sessions/{id}[/{action}[/{arg}]].
func (h SessionsHandler) Route(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, "/sessions/")
	if len(parts) == 0 {
		WriteError(w, r, http.StatusNotFound, "not_found", "missing session id")
		return
	}
	s, err := h.Sessions.Get(parts[0])
	if err != nil {
		writeErr(w, r, err)
		return
	}

	switch len(parts) {
	case 1:
		methodMux(map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { h.get(w, r, s) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { h.delete(w, r, s) },
		})(w, r)
		return
	case 2:
		if act, ok := sessionActions[parts[1]]; ok {
			methodMux(map[string]http.HandlerFunc{
				act.method: func(w http.ResponseWriter, r *http.Request) { act.fn(h, w, r, s) },
			})(w, r)
			return
		}
	case 3:
		if parts[1] == "bookmarks" {
			id := domain.JobID(parts[2])
			methodMux(map[string]http.HandlerFunc{
				http.MethodPost: func(w http.ResponseWriter, r *http.Request) { h.toggleBookmark(w, r, s, id) },
			})(w, r)
			return
		}
	}
	WriteError(w, r, http.StatusNotFound, "not_found", fmt.Sprintf("no route for %s", r.URL.Path))
}

type sessionAction struct {
	method string
	fn     func(h SessionsHandler, w http.ResponseWriter, r *http.Request, s *Session)
}

var sessionActions = map[string]sessionAction{
	"job-type":   {http.MethodPost, SessionsHandler.toggleJobType},
	"experience": {http.MethodPost, SessionsHandler.toggleExperience},
	"skills":     {http.MethodPut, SessionsHandler.setSkills},
	"salary":     {http.MethodPut, SessionsHandler.setSalary},
	"search":     {http.MethodPost, SessionsHandler.search},
	"clear":      {http.MethodPost, SessionsHandler.clear},
	"sort":       {http.MethodPut, SessionsHandler.setSort},
	"view-mode":  {http.MethodPut, SessionsHandler.setView},
	"next":       {http.MethodPost, SessionsHandler.next},
	"prev":       {http.MethodPost, SessionsHandler.prev},
}

// apply runs fn on the session's engine and answers with the new state.
func (h SessionsHandler) apply(w http.ResponseWriter, r *http.Request, s *Session, fn func(e *listing.Engine) error) {
	var view sessionView
	err := s.Do(func(e *listing.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		view = render(s, e, queryBool(r, "all"))
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, view)
}

func (h SessionsHandler) get(w http.ResponseWriter, r *http.Request, s *Session) {
	h.apply(w, r, s, func(*listing.Engine) error { return nil })
}

func (h SessionsHandler) delete(w http.ResponseWriter, r *http.Request, s *Session) {
	if err := h.Sessions.Delete(s.ID); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": s.ID})
}

type valueReq struct {
	Value string `json:"value"`
}

func (h SessionsHandler) toggleJobType(w http.ResponseWriter, r *http.Request, s *Session) {
	var req valueReq
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error { return e.ToggleJobType(domain.JobType(req.Value)) })
}

func (h SessionsHandler) toggleExperience(w http.ResponseWriter, r *http.Request, s *Session) {
	var req valueReq
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error {
		return e.ToggleExperience(domain.ExperienceLevel(req.Value))
	})
}

func (h SessionsHandler) setSkills(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Skills []string `json:"skills"`
	}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error {
		e.SetSkills(req.Skills)
		return nil
	})
}

func (h SessionsHandler) setSalary(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Min *int `json:"min"`
		Max *int `json:"max"`
	}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	if req.Min == nil || req.Max == nil {
		writeErr(w, r, fmt.Errorf("%w: min and max are required", errBadRequest))
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error { return e.SetSalaryRange(*req.Min, *req.Max) })
}

// search is debounced: the answer is 202 and reflects the state before
// the query applies, unless ?immediate=1 is given. An immediate query
// replaces any debounced one still waiting.
func (h SessionsHandler) search(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	if queryBool(r, "immediate") {
		s.CancelSearch()
		h.apply(w, r, s, func(e *listing.Engine) error {
			e.SetSearchQuery(req.Query)
			return nil
		})
		return
	}

	s.Search(req.Query)
	WriteJSON(w, http.StatusAccepted, map[string]any{
		"id":      s.ID,
		"query":   req.Query,
		"pending": s.SearchPending(),
	})
}

func (h SessionsHandler) clear(w http.ResponseWriter, r *http.Request, s *Session) {
	h.apply(w, r, s, func(e *listing.Engine) error {
		e.ClearFilters()
		return nil
	})
}

type modeReq struct {
	Mode string `json:"mode"`
}

func (h SessionsHandler) setSort(w http.ResponseWriter, r *http.Request, s *Session) {
	var req modeReq
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error { return e.SetSortMode(domain.SortMode(req.Mode)) })
}

func (h SessionsHandler) setView(w http.ResponseWriter, r *http.Request, s *Session) {
	var req modeReq
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeErr(w, r, err)
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error { return e.SetViewMode(domain.ViewMode(req.Mode)) })
}

func (h SessionsHandler) next(w http.ResponseWriter, r *http.Request, s *Session) {
	h.apply(w, r, s, func(e *listing.Engine) error {
		e.NextPage()
		return nil
	})
}

func (h SessionsHandler) prev(w http.ResponseWriter, r *http.Request, s *Session) {
	h.apply(w, r, s, func(e *listing.Engine) error {
		e.PrevPage()
		return nil
	})
}

func (h SessionsHandler) toggleBookmark(w http.ResponseWriter, r *http.Request, s *Session, id domain.JobID) {
	if id.IsEmpty() {
		writeErr(w, r, fmt.Errorf("%w: empty job id", errBadRequest))
		return
	}
	h.apply(w, r, s, func(e *listing.Engine) error {
		on, err := e.ToggleBookmark(r.Context(), id)
		if err != nil {
			return err
		}
		h.Log.Info("bookmark toggled", "session", s.ID, "job_id", id, "bookmarked", on)
		return nil
	})
}
