package httpapi

import (
	"io"
	"log/slog"
	"net/http"
)

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	if d.Log == nil {
		d.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	mux := http.NewServeMux()

	// Health
	hh := HealthHandler{Catalog: d.Catalog, Sessions: d.Sessions}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Catalog
	cat := CatalogHandler{Catalog: d.Catalog, Log: d.Log}
	mux.HandleFunc("/skills", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cat.Skills,
	}))
	mux.HandleFunc("/dataset", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cat.Info,
	}))
	mux.HandleFunc("/dataset/reload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: cat.Reload,
	}))

	// Listings sessions
	sh := SessionsHandler{
		Sessions:  d.Sessions,
		Catalog:   d.Catalog,
		Bookmarks: d.Bookmarks,
		CfgVal:    d.CfgVal,
		Log:       d.Log,
	}
	mux.HandleFunc("/sessions", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.Create,
	}))
	mux.HandleFunc("/sessions/", sh.Route) // /sessions/{id}/...

	// Bookmarked jobs screen
	bh := BookmarksHandler{Catalog: d.Catalog, Bookmarks: d.Bookmarks}
	mux.HandleFunc("/bookmarks", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.List,
	}))
	mux.HandleFunc("/bookmarks/", bh.ByPath) // /bookmarks/{jobId}

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	return mux
}

// Handler wraps mux with the standard middleware chain.
func Handler(mux http.Handler, log *slog.Logger, limiter *ClientLimiter) http.Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return Chain(mux,
		RequestID,
		Recover(log),
		AccessLog(log),
		RateLimit(limiter),
		Cors,
	)
}
