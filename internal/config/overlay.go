package config

import (
	"strconv"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvDataDir     = "JOBBOARD_DATA_DIR"
	EnvPort        = "JOBBOARD_PORT"
	EnvDatabaseURL = "JOBBOARD_DATABASE_URL"
	EnvRedisURL    = "JOBBOARD_REDIS_URL"
)

// OverlayEnv applies environment overrides to cfg. getenv is os.Getenv
// outside tests.
func OverlayEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.App.DataDir = v
	}
	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := strings.TrimSpace(getenv(EnvDatabaseURL)); v != "" {
		cfg.Dataset.DatabaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisURL)); v != "" {
		cfg.Bookmarks.RedisURL = v
	}
}
