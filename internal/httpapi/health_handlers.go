package httpapi

import (
	"net/http"

	"jobboard-engine/internal/dataset"
)

type HealthHandler struct {
	Catalog  *dataset.Catalog
	Sessions *Sessions
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var version int64
	if snap := h.Catalog.Current(); snap != nil {
		version = snap.Version
	}
	writeJSON(w, map[string]any{
		"ok":              version > 0,
		"dataset_version": version,
		"sessions":        h.Sessions.Len(),
	})
}
