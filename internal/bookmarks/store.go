package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// DefaultKey is the key the bookmark set lives under.
const DefaultKey = "bookmarkedJobs"

type Store struct {
	kv  KV
	key string
	log *slog.Logger
}

func NewStore(kv KV, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{kv: kv, key: key, log: logger.With("component", "bookmarks")}
}

func (s *Store) Key() string { return s.key }

// Load returns the persisted set. A missing key, an unreadable backend
// or a malformed payload all yield an empty set; the latter two are
// logged and never returned.
func (s *Store) Load(ctx context.Context) Set {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("bookmark read failed", "key", s.key, "err", err)
		return NewSet()
	}
	if !ok || raw == "" {
		return NewSet()
	}
	var set Set
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		s.log.Warn("malformed bookmark payload, starting empty", "key", s.key, "err", err)
		return NewSet()
	}
	return set
}

// Save overwrites the key with the whole set.
func (s *Store) Save(ctx context.Context, set Set) error {
	b, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear bookmarks: %w", err)
	}
	return nil
}

// Raw returns the stored payload as is.
func (s *Store) Raw(ctx context.Context) (string, bool, error) {
	return s.kv.Get(ctx, s.key)
}
