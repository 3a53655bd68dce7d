package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"jobboard-engine/internal/clock"
	"jobboard-engine/internal/domain"
)

// Snapshot is one loaded version of the dataset. It is never mutated.
type Snapshot struct {
	Version   int64
	Source    string
	LoadedAt  time.Time
	Jobs      []domain.Job
	Companies []domain.Company
	Skills    []string
}

// Catalog holds the current snapshot. Sessions keep the snapshot they
// were seeded with; Reload only affects later readers.
type Catalog struct {
	src   Source
	clock clock.Clock
	log   *slog.Logger

	reloadMu sync.Mutex
	cur      atomic.Pointer[Snapshot]
}

func NewCatalog(src Source, c clock.Clock, logger *slog.Logger) *Catalog {
	if c == nil {
		c = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Catalog{src: src, clock: c, log: logger.With("component", "dataset")}
}

// Current returns the latest snapshot, or nil before the first load.
func (c *Catalog) Current() *Snapshot { return c.cur.Load() }

// Reload reads the source and swaps in a new snapshot. On failure the
// previous snapshot stays current.
func (c *Catalog) Reload(ctx context.Context) (*Snapshot, error) {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	start := c.clock.Now()
	raw, err := c.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.src.Name(), err)
	}
	ds, err := Resolve(raw, c.log)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", c.src.Name(), err)
	}

	var version int64 = 1
	if prev := c.cur.Load(); prev != nil {
		version = prev.Version + 1
	}
	snap := &Snapshot{
		Version:   version,
		Source:    c.src.Name(),
		LoadedAt:  c.clock.Now(),
		Jobs:      ds.Jobs,
		Companies: ds.Companies,
		Skills:    AllSkills(ds.Jobs),
	}
	c.cur.Store(snap)

	c.log.Info("dataset loaded",
		"source", snap.Source,
		"version", snap.Version,
		"jobs", len(snap.Jobs),
		"companies", len(snap.Companies),
		"dur_ms", c.clock.Now().Sub(start).Milliseconds(),
	)
	return snap, nil
}

// Lookup returns the jobs of s keyed by id.
func (s *Snapshot) Lookup() map[domain.JobID]domain.Job {
	m := make(map[domain.JobID]domain.Job, len(s.Jobs))
	for _, j := range s.Jobs {
		m[j.ID] = j
	}
	return m
}
