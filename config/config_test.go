package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty stars url",
			mutate: func(cfg *Config) {
				cfg.Stars.URL = ""
			},
			wantErr: "stars URL",
		},
		{
			name: "brown dwarfs url without host",
			mutate: func(cfg *Config) {
				cfg.BrownDwarfs.URL = "http://"
			},
			wantErr: "brown dwarfs URL",
		},
		{
			name: "negative table index",
			mutate: func(cfg *Config) {
				cfg.BrownDwarfs.TableIndex = -1
			},
			wantErr: "table index",
		},
		{
			name: "unknown format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "negative cache size",
			mutate: func(cfg *Config) {
				cfg.CacheSize = -4
			},
			wantErr: "cache size",
		},
		{
			name: "empty output dir",
			mutate: func(cfg *Config) {
				cfg.OutputDir = ""
			},
			wantErr: "output dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.BrownDwarfs.TableIndex != 2 || cfg.BrownDwarfs.TableClass != "wikitable" {
		t.Fatalf("brown dwarfs selector = %+v", cfg.BrownDwarfs)
	}
	if cfg.BrownDwarfs.ExactClass {
		t.Fatal("brown dwarfs selector should match any wikitable")
	}
	if cfg.Stars.TableClass != "wikitable sortable" || !cfg.Stars.ExactClass || cfg.Stars.TableIndex != 0 {
		t.Fatalf("stars selector = %+v", cfg.Stars)
	}
}

func TestHostsDeduplicates(t *testing.T) {
	cfg := DefaultConfig()
	hosts := cfg.Hosts()
	if len(hosts) != 1 || hosts[0] != "en.wikipedia.org" {
		t.Fatalf("hosts = %v, want [en.wikipedia.org]", hosts)
	}

	cfg.BrownDwarfs.URL = "http://mirror.test:8080/dwarfs"
	hosts = cfg.Hosts()
	if len(hosts) != 2 || hosts[1] != "mirror.test" {
		t.Fatalf("hosts = %v", hosts)
	}
}

func TestPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "out"
	if got := cfg.Path(MergedStarsFile); got != filepath.Join("out", "merged_stars_data.csv") {
		t.Fatalf("path = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvOutputDir, " /tmp/stars ")
	t.Setenv(EnvFormat, "DUAL")
	t.Setenv(EnvTimeout, "30s")
	t.Setenv(EnvCacheSize, "0")

	cfg := DefaultConfig()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.OutputDir != "/tmp/stars" {
		t.Fatalf("output dir = %q", cfg.OutputDir)
	}
	if cfg.OutputFormat != "dual" {
		t.Fatalf("format = %q", cfg.OutputFormat)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.CacheSize != 0 {
		t.Fatalf("cache size = %d", cfg.CacheSize)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv(EnvCacheSize, "many")
	if err := ApplyEnv(DefaultConfig()); err == nil || !strings.Contains(err.Error(), EnvCacheSize) {
		t.Fatalf("expected %s error, got %v", EnvCacheSize, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stars.yaml")
	content := `
output_dir: data
timeout: 45s
brown_dwarfs:
  table_index: 3
  table_caption: Nearby
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != "data" || cfg.Timeout != 45*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.BrownDwarfs.TableIndex != 3 || cfg.BrownDwarfs.TableCaption != "Nearby" {
		t.Fatalf("brown dwarfs = %+v", cfg.BrownDwarfs)
	}
	if cfg.BrownDwarfs.URL != BrownDwarfsURL {
		t.Fatalf("unset url should keep default, got %q", cfg.BrownDwarfs.URL)
	}
	if cfg.OutputFormat != "csv" {
		t.Fatalf("unset format should keep default, got %q", cfg.OutputFormat)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}
