package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvOutputDir   = "STARS_OUTPUT_DIR"
	EnvFormat      = "STARS_FORMAT"
	EnvTimeout     = "STARS_TIMEOUT"
	EnvMetricsAddr = "STARS_METRICS_ADDR"
	EnvCacheSize   = "STARS_CACHE_SIZE"
	EnvSQLitePath  = "STARS_SQLITE"
)

// EnvString returns a trimmed, non-empty environment value.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses an integer environment value.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return n, true, nil
}

// EnvDuration parses a duration environment value such as "30s".
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return d, true, nil
}

// ApplyEnv overrides cfg with any STARS_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if value, ok := EnvString(EnvOutputDir); ok {
		cfg.OutputDir = value
	}
	if value, ok := EnvString(EnvFormat); ok {
		cfg.OutputFormat = strings.ToLower(value)
	}
	if value, ok := EnvString(EnvMetricsAddr); ok {
		cfg.MetricsAddr = value
	}
	if value, ok := EnvString(EnvSQLitePath); ok {
		cfg.SQLitePath = value
	}
	if value, ok, err := EnvDuration(EnvTimeout); err != nil {
		return err
	} else if ok {
		cfg.Timeout = value
	}
	if value, ok, err := EnvInt(EnvCacheSize); err != nil {
		return err
	} else if ok {
		cfg.CacheSize = value
	}
	return nil
}
