package httpapi

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/clock"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/listing"
	"jobboard-engine/internal/search"
)

// Session is one mounted listings screen. Every engine call, including
// the debounced search firing on a timer goroutine, runs under mu.
type Session struct {
	ID             string
	DatasetVersion int64
	Created        time.Time

	mu       sync.Mutex
	engine   *listing.Engine
	search   *search.Debouncer
	queued   bool   // a debounced query is waiting to apply
	queuedQ  string // the latest query handed to the debouncer
	closed   bool
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *listing.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Search feeds q to the debouncer; the engine's query changes once
// typing pauses.
func (s *Session) Search(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queued, s.queuedQ = true, q
	s.search.Input(q)
}

// CancelSearch drops any debounced query that has not applied yet.
func (s *Session) CancelSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued = false
	s.search.Cancel()
}

func (s *Session) SearchPending() bool { return s.search.Pending() }

// applySearch is the debouncer callback. It runs only for the latest
// queued query of a live session.
func (s *Session) applySearch(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.queued || q != s.queuedQ {
		return
	}
	s.queued = false
	s.engine.SetSearchQuery(q)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.queued = false
	s.search.Close()
}

// Sessions is the registry of live listings screens.
type Sessions struct {
	clock clock.Clock
	log   *slog.Logger

	mu sync.Mutex
	m  map[string]*Session
}

func NewSessions(c clock.Clock, logger *slog.Logger) *Sessions {
	if c == nil {
		c = clock.Real()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sessions{clock: c, log: logger.With("component", "sessions"), m: map[string]*Session{}}
}

// Create mounts a listings screen over snap with bookmarks from store.
func (ss *Sessions) Create(ctx context.Context, snap *dataset.Snapshot, store *bookmarks.Store, lc config.ListingConfig) *Session {
	sort, _ := domain.ParseSortMode(lc.DefaultSort)
	view, _ := domain.ParseViewMode(lc.DefaultView)

	now := ss.clock.Now()
	s := &Session{
		ID:             uuid.NewString(),
		DatasetVersion: snap.Version,
		Created:        now,
		lastSeen:       now,
	}
	s.engine = listing.New(ctx, snap.Jobs, store, listing.Options{
		PageSize: lc.PageSize,
		Salary:   listing.SalaryBounds(lc.SalaryMin, lc.SalaryMax, lc.WidenSalaryToDataset, snap.Jobs),
		ViewMode: view,
		SortMode: sort,
		Logger:   ss.log,
	})
	window := time.Duration(lc.SearchDebounceMS) * time.Millisecond
	s.search = search.NewDebouncer(ss.clock, window, s.applySearch)

	ss.mu.Lock()
	ss.m[s.ID] = s
	n := len(ss.m)
	ss.mu.Unlock()

	ss.log.Info("session created", "session", s.ID, "dataset_version", snap.Version, "sessions", n)
	return s
}

// Get returns the session and marks it as seen.
func (ss *Sessions) Get(id string) (*Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.m[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = ss.clock.Now()
	return s, nil
}

// Delete unmounts the session and cancels its pending search.
func (ss *Sessions) Delete(id string) error {
	ss.mu.Lock()
	s, ok := ss.m[id]
	delete(ss.m, id)
	ss.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	ss.log.Info("session deleted", "session", id)
	return nil
}

// Sweep removes sessions idle for longer than idle and returns how many
// were removed.
func (ss *Sessions) Sweep(idle time.Duration) int {
	cutoff := ss.clock.Now().Add(-idle)

	ss.mu.Lock()
	var stale []*Session
	for id, s := range ss.m {
		if s.lastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(ss.m, id)
		}
	}
	ss.mu.Unlock()

	for _, s := range stale {
		s.close()
	}
	if len(stale) > 0 {
		ss.log.Info("idle sessions swept", "removed", len(stale))
	}
	return len(stale)
}

func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}

// CloseAll cancels every pending search and empties the registry.
func (ss *Sessions) CloseAll() {
	ss.mu.Lock()
	all := ss.m
	ss.m = map[string]*Session{}
	ss.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}
