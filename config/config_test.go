package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.ChunkSize != 8000 {
		t.Errorf("expected default chunk_size 8000, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.Overlap != 500 {
		t.Errorf("expected default overlap 500, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected default fetch timeout 30s, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Export.Format != "jsonl" {
		t.Errorf("expected default export format jsonl, got %s", cfg.Export.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero chunk size",
			modify:  func(c *Config) { c.Chunking.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative overlap",
			modify:  func(c *Config) { c.Chunking.Overlap = -1 },
			wantErr: true,
		},
		{
			name:    "overlap equal to chunk size",
			modify:  func(c *Config) { c.Chunking.Overlap = c.Chunking.ChunkSize },
			wantErr: true,
		},
		{
			name:    "zero fetch timeout",
			modify:  func(c *Config) { c.Fetch.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero body limit",
			modify:  func(c *Config) { c.Fetch.MaxBodyBytes = 0 },
			wantErr: true,
		},
		{
			name:    "zero fetch concurrency",
			modify:  func(c *Config) { c.Fetch.MaxConcurrent = 0 },
			wantErr: true,
		},
		{
			name:    "unknown export format",
			modify:  func(c *Config) { c.Export.Format = "parquet" },
			wantErr: true,
		},
		{
			name:    "negative watch debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{
		Chunking: ChunkingConfig{ChunkSize: 4000},
		Fetch:    FetchConfig{UserAgent: "custom/2.0"},
		Export:   ExportConfig{Format: "csv"},
		Watch:    WatchConfig{Patterns: []string{"docs/**/*.md"}},
		NATS:     NATSConfig{URL: "nats://broker:4222"},
	}

	base.Merge(other)

	if base.Chunking.ChunkSize != 4000 {
		t.Errorf("expected merged chunk_size 4000, got %d", base.Chunking.ChunkSize)
	}
	if base.Chunking.Overlap != 500 {
		t.Errorf("expected overlap to keep default 500, got %d", base.Chunking.Overlap)
	}
	if base.Fetch.UserAgent != "custom/2.0" {
		t.Errorf("expected merged user agent, got %s", base.Fetch.UserAgent)
	}
	if base.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected fetch timeout to keep default, got %s", base.Fetch.Timeout)
	}
	if base.Export.Format != "csv" {
		t.Errorf("expected merged export format csv, got %s", base.Export.Format)
	}
	if len(base.Watch.Patterns) != 1 || base.Watch.Patterns[0] != "docs/**/*.md" {
		t.Errorf("expected merged watch patterns, got %v", base.Watch.Patterns)
	}
	if base.NATS.URL != "nats://broker:4222" {
		t.Errorf("expected merged NATS URL, got %s", base.NATS.URL)
	}
}

func TestConfigMergeNil(t *testing.T) {
	base := DefaultConfig()
	base.Merge(nil)
	if base.Chunking.ChunkSize != 8000 {
		t.Errorf("merge with nil must not change config")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prospector.yaml")

	yaml := `chunking:
  chunk_size: 2000
  overlap: 100
fetch:
  user_agent: "test-agent"
export:
  format: csv
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Chunking.ChunkSize != 2000 {
		t.Errorf("expected chunk_size 2000, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.Overlap != 100 {
		t.Errorf("expected overlap 100, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Fetch.UserAgent != "test-agent" {
		t.Errorf("expected user_agent test-agent, got %s", cfg.Fetch.UserAgent)
	}
	// Unspecified sections keep their defaults.
	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected default fetch timeout, got %s", cfg.Fetch.Timeout)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Chunking.ChunkSize = 1234
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Chunking.ChunkSize != 1234 {
		t.Errorf("expected reloaded chunk_size 1234, got %d", loaded.Chunking.ChunkSize)
	}
}
