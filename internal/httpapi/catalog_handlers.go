package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"jobboard-engine/internal/dataset"
)

type CatalogHandler struct {
	Catalog *dataset.Catalog
	Log     *slog.Logger
}

// Skills lists the skill vocabulary for the skills selector.
func (h CatalogHandler) Skills(w http.ResponseWriter, r *http.Request) {
	snap := h.Catalog.Current()
	if snap == nil {
		writeErr(w, r, ErrNoDataset)
		return
	}
	writeJSON(w, map[string]any{"skills": snap.Skills})
}

func (h CatalogHandler) Info(w http.ResponseWriter, r *http.Request) {
	snap := h.Catalog.Current()
	if snap == nil {
		writeErr(w, r, ErrNoDataset)
		return
	}
	writeJSON(w, map[string]any{
		"version":   snap.Version,
		"source":    snap.Source,
		"loaded_at": snap.LoadedAt.Format(time.RFC3339),
		"jobs":      len(snap.Jobs),
		"companies": snap.Companies,
	})
}

// Reload swaps in a fresh dataset. Existing sessions keep theirs.
func (h CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Catalog.Reload(r.Context())
	if err != nil {
		h.Log.Error("dataset reload failed", "request_id", RequestIDFrom(r.Context()), "err", err)
		WriteError(w, r, http.StatusBadGateway, "reload_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "version": snap.Version, "jobs": len(snap.Jobs)})
}
