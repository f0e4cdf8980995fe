// Package config provides configuration loading and management for Prospector.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prospectio/prospector/export"
)

// Config represents the complete Prospector configuration
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Export   ExportConfig   `yaml:"export"`
	Watch    WatchConfig    `yaml:"watch"`
	NATS     NATSConfig     `yaml:"nats"`
}

// ChunkingConfig configures the chunking engine
type ChunkingConfig struct {
	// ChunkSize is the maximum chunk length in characters
	ChunkSize int `yaml:"chunk_size"`
	// Overlap is the target carry-over between consecutive chunks
	Overlap int `yaml:"overlap"`
	// MaxDocumentChars truncates any single document before chunking
	MaxDocumentChars int `yaml:"max_document_chars"`
	// MaxMergedParagraphs caps per-document paragraphs in merged batches
	MaxMergedParagraphs int `yaml:"max_merged_paragraphs"`
	// MaxSoloParagraphs caps per-document paragraphs when chunked alone
	MaxSoloParagraphs int `yaml:"max_solo_paragraphs"`
}

// FetchConfig configures the web page fetcher
type FetchConfig struct {
	// Timeout is the per-request deadline
	Timeout time.Duration `yaml:"timeout"`
	// MaxBodyBytes limits the response body size read per page
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// MaxConcurrent bounds the number of in-flight fetches
	MaxConcurrent int `yaml:"max_concurrent"`
}

// ExportConfig configures chunk record output
type ExportConfig struct {
	// Format is the serialization format (json, jsonl, csv)
	Format string `yaml:"format"`
	// Output is the destination path ("-" or empty = stdout)
	Output string `yaml:"output"`
}

// WatchConfig configures the batch file watcher
type WatchConfig struct {
	// Debounce is the quiet period before a change triggers a rerun
	Debounce time.Duration `yaml:"debounce"`
	// Patterns are doublestar globs selecting which files to watch
	Patterns []string `yaml:"patterns"`
}

// NATSConfig configures the NATS connection for service mode
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize:           8000,
			Overlap:             500,
			MaxDocumentChars:    100_000,
			MaxMergedParagraphs: 1000,
			MaxSoloParagraphs:   500,
		},
		Fetch: FetchConfig{
			Timeout:       30 * time.Second,
			MaxBodyBytes:  10 * 1024 * 1024,
			UserAgent:     "prospector/1.0",
			MaxConcurrent: 4,
		},
		Export: ExportConfig{
			Format: string(export.FormatJSONL),
			Output: "-",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Patterns: []string{"**/*.txt", "**/*.md"},
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive")
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking.overlap must not be negative")
	}
	if c.Chunking.Overlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking.overlap must be smaller than chunking.chunk_size")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive")
	}
	if c.Fetch.MaxConcurrent <= 0 {
		return fmt.Errorf("fetch.max_concurrent must be positive")
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Chunking
	if other.Chunking.ChunkSize != 0 {
		c.Chunking.ChunkSize = other.Chunking.ChunkSize
	}
	if other.Chunking.Overlap != 0 {
		c.Chunking.Overlap = other.Chunking.Overlap
	}
	if other.Chunking.MaxDocumentChars != 0 {
		c.Chunking.MaxDocumentChars = other.Chunking.MaxDocumentChars
	}
	if other.Chunking.MaxMergedParagraphs != 0 {
		c.Chunking.MaxMergedParagraphs = other.Chunking.MaxMergedParagraphs
	}
	if other.Chunking.MaxSoloParagraphs != 0 {
		c.Chunking.MaxSoloParagraphs = other.Chunking.MaxSoloParagraphs
	}

	// Fetch
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.MaxBodyBytes != 0 {
		c.Fetch.MaxBodyBytes = other.Fetch.MaxBodyBytes
	}
	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxConcurrent != 0 {
		c.Fetch.MaxConcurrent = other.Fetch.MaxConcurrent
	}

	// Export
	if other.Export.Format != "" {
		c.Export.Format = other.Export.Format
	}
	if other.Export.Output != "" {
		c.Export.Output = other.Export.Output
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if len(other.Watch.Patterns) > 0 {
		c.Watch.Patterns = other.Watch.Patterns
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
