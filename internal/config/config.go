package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app" json:"app"`
	Dataset   DatasetConfig   `yaml:"dataset" json:"dataset"`
	Bookmarks BookmarksConfig `yaml:"bookmarks" json:"bookmarks"`
	Listing   ListingConfig   `yaml:"listing" json:"listing"`
	Sessions  SessionsConfig  `yaml:"sessions" json:"sessions"`
	HTTP      HTTPConfig      `yaml:"http" json:"http"`
}

type AppConfig struct {
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type DatasetConfig struct {
	Source      string   `yaml:"source" json:"source"` // file | postgres | s3
	Path        string   `yaml:"path" json:"path"`
	DatabaseURL string   `yaml:"database_url" json:"database_url"` // may be "keyring:<account>"
	S3          S3Config `yaml:"s3" json:"s3"`
	Reload      string   `yaml:"reload" json:"reload"` // cron spec, empty = never
}

type S3Config struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Key    string `yaml:"key" json:"key"`
	Region string `yaml:"region" json:"region"`
}

type BookmarksConfig struct {
	Backend        string `yaml:"backend" json:"backend"` // file | sqlite | redis | keyring | memory
	Key            string `yaml:"key" json:"key"`
	File           string `yaml:"file" json:"file"`
	SQLitePath     string `yaml:"sqlite_path" json:"sqlite_path"`
	RedisURL       string `yaml:"redis_url" json:"redis_url"`
	RedisPrefix    string `yaml:"redis_prefix" json:"redis_prefix"`
	KeyringService string `yaml:"keyring_service" json:"keyring_service"`
}

type ListingConfig struct {
	PageSize             int    `yaml:"page_size" json:"page_size"`
	SalaryMin            int    `yaml:"salary_min" json:"salary_min"`
	SalaryMax            int    `yaml:"salary_max" json:"salary_max"`
	WidenSalaryToDataset bool   `yaml:"widen_salary_to_dataset" json:"widen_salary_to_dataset"`
	SearchDebounceMS     int    `yaml:"search_debounce_ms" json:"search_debounce_ms"`
	DefaultView          string `yaml:"default_view" json:"default_view"`
	DefaultSort          string `yaml:"default_sort" json:"default_sort"`
}

type SessionsConfig struct {
	IdleTimeoutSeconds int    `yaml:"idle_timeout_seconds" json:"idle_timeout_seconds"`
	Sweep              string `yaml:"sweep" json:"sweep"`
}

type HTTPConfig struct {
	RatePerSec float64 `yaml:"rate_per_sec" json:"rate_per_sec"` // 0 disables limiting
	Burst      int     `yaml:"burst" json:"burst"`
}

const (
	DefaultPort        = 38471
	DefaultBookmarkKey = "bookmarkedJobs"
)

// Default returns the built-in configuration. Load decodes the file on
// top of it, so omitted keys keep these values.
func Default() Config {
	return Config{
		App: AppConfig{Port: DefaultPort},
		Dataset: DatasetConfig{
			Source: "file",
			Path:   "mock-data.json",
		},
		Bookmarks: BookmarksConfig{
			Backend:        "file",
			Key:            DefaultBookmarkKey,
			File:           "bookmarks.json",
			SQLitePath:     "engine.db",
			RedisPrefix:    "jobboard:",
			KeyringService: "jobboard",
		},
		Listing: ListingConfig{
			PageSize:         10,
			SalaryMin:        0,
			SalaryMax:        300000,
			SearchDebounceMS: 300,
			DefaultView:      "grid",
			DefaultSort:      "relevance",
		},
		Sessions: SessionsConfig{
			IdleTimeoutSeconds: 1800,
			Sweep:              "@every 1m",
		},
		HTTP: HTTPConfig{RatePerSec: 20, Burst: 40},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Resolve makes p absolute relative to the data dir. Absolute paths and
// empty strings are returned unchanged.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.App.DataDir == "" {
		return p
	}
	return filepath.Join(c.App.DataDir, p)
}
