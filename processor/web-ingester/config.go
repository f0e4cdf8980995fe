package webingester

import (
	"fmt"
	"time"

	"github.com/c360studio/semstreams/component"
)

// Config holds configuration for the web-ingester processor component.
type Config struct {
	Ports *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`

	// StreamName is the JetStream stream carrying fetch requests.
	StreamName string `json:"stream_name" schema:"type:string,description:JetStream stream name,category:basic,default:SOURCES"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name" schema:"type:string,description:Durable consumer name,category:basic,default:web-ingester"`

	// OutputSubject is where normalized documents are published.
	OutputSubject string `json:"output_subject" schema:"type:string,description:Subject for normalized document payloads,category:basic,default:web.document.ingested"`

	// FetchTimeout is the maximum time for fetching a web page.
	FetchTimeout string `json:"fetch_timeout" schema:"type:string,description:HTTP fetch timeout,category:advanced,default:30s"`

	// MaxContentSize is the maximum response body size in bytes.
	MaxContentSize int64 `json:"max_content_size" schema:"type:int,description:Maximum content size in bytes,category:advanced,default:10485760"`

	// UserAgent is the User-Agent header for HTTP requests.
	UserAgent string `json:"user_agent" schema:"type:string,description:HTTP User-Agent header,category:advanced,default:prospector-web-ingester/1.0"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StreamName == "" {
		return fmt.Errorf("stream_name is required")
	}
	if c.ConsumerName == "" {
		return fmt.Errorf("consumer_name is required")
	}
	if c.OutputSubject == "" {
		return fmt.Errorf("output_subject is required")
	}
	if c.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.FetchTimeout); err != nil {
			return fmt.Errorf("invalid fetch_timeout format: %w", err)
		}
	}
	if c.MaxContentSize < 0 {
		return fmt.Errorf("max_content_size must be non-negative")
	}
	return nil
}

// parseDurationOrDefault parses a duration string and returns the default if empty or invalid.
func parseDurationOrDefault(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// GetFetchTimeout returns the fetch timeout as a duration.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOrDefault(c.FetchTimeout, 30*time.Second)
}

// GetMaxContentSize returns the max content size with default.
func (c *Config) GetMaxContentSize() int64 {
	if c.MaxContentSize <= 0 {
		return 10 * 1024 * 1024
	}
	return c.MaxContentSize
}

// GetUserAgent returns the user agent with default.
func (c *Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return "prospector-web-ingester/1.0"
	}
	return c.UserAgent
}

// DefaultConfig returns default configuration for the web-ingester processor.
func DefaultConfig() Config {
	inputDefs := []component.PortDefinition{
		{
			Name:        "web.in",
			Type:        "jetstream",
			Subject:     "web.fetch.request",
			StreamName:  "SOURCES",
			Required:    true,
			Description: "Web fetch requests",
		},
	}

	outputDefs := []component.PortDefinition{
		{
			Name:        "document.out",
			Type:        "jetstream",
			Subject:     "web.document.ingested",
			StreamName:  "DOCUMENTS",
			Required:    true,
			Description: "Normalized document payloads",
		},
	}

	return Config{
		Ports: &component.PortConfig{
			Inputs:  inputDefs,
			Outputs: outputDefs,
		},
		StreamName:     "SOURCES",
		ConsumerName:   "web-ingester",
		OutputSubject:  "web.document.ingested",
		FetchTimeout:   "30s",
		MaxContentSize: 10 * 1024 * 1024,
		UserAgent:      "prospector-web-ingester/1.0",
	}
}
