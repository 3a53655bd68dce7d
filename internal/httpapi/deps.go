package httpapi

import (
	"log/slog"
	"sync/atomic"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/dataset"
)

type Deps struct {
	Catalog   *dataset.Catalog
	Bookmarks *bookmarks.Store
	Sessions  *Sessions

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Log *slog.Logger
}
