package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KV is a key/value table in the engine's sqlite database. It satisfies
// bookmarks.KV.
type KV struct {
	db *sql.DB
}

func NewKV(db *sql.DB) *KV { return &KV{db: db} }

func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := kv.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ? LIMIT 1;`,
		key,
	).Scan(&v)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite kv get: %w", err)
	}
	return v, true, nil
}

func (kv *KV) Set(ctx context.Context, key, value string) error {
	_, err := kv.db.ExecContext(ctx, `
INSERT INTO kv(key, value, updated_at)
VALUES(?,?,?)
ON CONFLICT(key) DO UPDATE SET
  value = excluded.value,
  updated_at = excluded.updated_at;
`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite kv set: %w", err)
	}
	return nil
}

func (kv *KV) Remove(ctx context.Context, key string) error {
	if _, err := kv.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("sqlite kv remove: %w", err)
	}
	return nil
}

// UpdatedAt returns when key was last written, or the zero time.
func (kv *KV) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var s string
	err := kv.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?;`, key).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}
