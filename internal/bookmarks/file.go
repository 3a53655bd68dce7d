package bookmarks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 25 * time.Millisecond

// FileKV stores every key in one JSON object on disk. Writers go through
// an advisory lock file so several engine processes can share the file.
type FileKV struct {
	path string
	lock *flock.Flock
}

func NewFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file kv: %w", err)
	}
	return &FileKV{path: path, lock: flock.New(path + ".lock")}, nil
}

func (kv *FileKV) Path() string { return kv.path }

func (kv *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := kv.rlock(ctx); err != nil {
		return "", false, err
	}
	defer kv.lock.Unlock()

	m, err := kv.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (kv *FileKV) Set(ctx context.Context, key, value string) error {
	return kv.update(ctx, func(m map[string]string) { m[key] = value })
}

func (kv *FileKV) Remove(ctx context.Context, key string) error {
	return kv.update(ctx, func(m map[string]string) { delete(m, key) })
}

func (kv *FileKV) update(ctx context.Context, fn func(map[string]string)) error {
	ok, err := kv.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("file kv: lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("file kv: lock %s not acquired", kv.lock.Path())
	}
	defer kv.lock.Unlock()

	m, err := kv.read()
	if err != nil {
		// A corrupt file is replaced; the previous content survives as .bak.
		m = map[string]string{}
	}
	fn(m)
	return kv.writeAtomic(m)
}

func (kv *FileKV) rlock(ctx context.Context) error {
	ok, err := kv.lock.TryRLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("file kv: lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("file kv: lock %s not acquired", kv.lock.Path())
	}
	return nil
}

func (kv *FileKV) read() (map[string]string, error) {
	b, err := os.ReadFile(kv.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file kv: read: %w", err)
	}
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("file kv: decode %s: %w", kv.path, err)
	}
	return m, nil
}

func (kv *FileKV) writeAtomic(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("file kv: encode: %w", err)
	}

	tmp := kv.path + ".tmp"
	bak := kv.path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("file kv: write: %w", err)
	}

	_ = os.Remove(bak)
	_ = os.Rename(kv.path, bak)

	if err := os.Rename(tmp, kv.path); err != nil {
		return fmt.Errorf("file kv: rename: %w", err)
	}
	return nil
}
