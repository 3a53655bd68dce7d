package main

import (
	"context"
	"fmt"

	"jobboard-engine/internal/bookmarks"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/dataset"
	"jobboard-engine/internal/db"
	"jobboard-engine/internal/secrets"
	"jobboard-engine/internal/store"
)

// openBookmarks returns the KV backend named by cfg.Bookmarks.Backend and
// a closer for it (nil when there is nothing to close).
func openBookmarks(ctx context.Context, cfg config.Config) (bookmarks.KV, func() error, error) {
	bc := cfg.Bookmarks
	switch bc.Backend {
	case "memory":
		return bookmarks.NewMemoryKV(), nil, nil

	case "file":
		kv, err := bookmarks.NewFileKV(cfg.Resolve(bc.File))
		return kv, nil, err

	case "sqlite":
		d, err := store.Open(ctx, cfg.Resolve(bc.SQLitePath))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := store.Migrate(d.Pool); err != nil {
			_ = d.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return store.NewKV(d.Pool), d.Close, nil

	case "redis":
		url, err := secrets.Resolve(bc.KeyringService, bc.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rdb, err := db.NewRedisClient(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return bookmarks.NewRedisKV(rdb, bc.RedisPrefix), rdb.Close, nil

	case "keyring":
		return secrets.NewKeyringKV(bc.KeyringService), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown bookmarks backend %q", bc.Backend)
}

// openDataset returns the dataset source named by cfg.Dataset.Source.
func openDataset(ctx context.Context, cfg config.Config) (dataset.Source, func() error, error) {
	dc := cfg.Dataset
	switch dc.Source {
	case "file":
		return dataset.FileSource{Path: cfg.Resolve(dc.Path)}, nil, nil

	case "postgres":
		url, err := secrets.Resolve(cfg.Bookmarks.KeyringService, dc.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pool, err := db.NewPostgresPool(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		return dataset.PostgresSource{Pool: pool}, func() error { pool.Close(); return nil }, nil

	case "s3":
		client, err := dataset.NewS3Client(ctx, dc.S3.Region)
		if err != nil {
			return nil, nil, err
		}
		return dataset.S3Source{Client: client, Bucket: dc.S3.Bucket, Key: dc.S3.Key}, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset source %q", dc.Source)
}
