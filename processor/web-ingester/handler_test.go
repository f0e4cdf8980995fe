package webingester

import (
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	hash := contentHash([]byte("hello world"))
	expected := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if hash != expected {
		t.Errorf("contentHash(\"hello world\") = %q, want %q", hash, expected)
	}
}

func TestBuildDocument(t *testing.T) {
	h := NewHandler(nil, nil)

	req := FetchRequest{
		URL:       "https://example.com/pricing",
		Query:     "widget pricing",
		RequestID: "req-1",
	}
	fetchResult := &FetchResult{
		Body: []byte(testPage),
		ETag: `"abc123"`,
	}

	payload, err := h.buildDocument(req, fetchResult)
	if err != nil {
		t.Fatalf("buildDocument() error = %v", err)
	}

	if payload.DocumentID != "doc.web.example-com-pricing" {
		t.Errorf("DocumentID = %q, want doc.web.example-com-pricing", payload.DocumentID)
	}
	if payload.RequestID != "req-1" {
		t.Errorf("RequestID = %q, want req-1", payload.RequestID)
	}
	if payload.Document.Meta.Title != "Test Page" {
		t.Errorf("Title = %q, want Test Page", payload.Document.Meta.Title)
	}
	if payload.Document.Meta.URL != req.URL {
		t.Errorf("URL = %q, want %q", payload.Document.Meta.URL, req.URL)
	}
	if payload.Document.Meta.Query != req.Query {
		t.Errorf("Query = %q, want %q", payload.Document.Meta.Query, req.Query)
	}
	if !strings.Contains(payload.Document.Text, "Main Heading") {
		t.Error("document text should contain page content")
	}
	if len(payload.ContentHash) != 64 {
		t.Errorf("ContentHash length = %d, want 64 hex chars", len(payload.ContentHash))
	}
	if payload.ETag != `"abc123"` {
		t.Errorf("ETag = %q, want %q", payload.ETag, `"abc123"`)
	}
	if payload.FetchedAt.IsZero() {
		t.Error("FetchedAt must be set")
	}
}

func TestBuildDocumentEmptyPage(t *testing.T) {
	h := NewHandler(nil, nil)

	req := FetchRequest{URL: "https://example.com/empty"}
	fetchResult := &FetchResult{Body: []byte("<html><body></body></html>")}

	if _, err := h.buildDocument(req, fetchResult); err == nil {
		t.Error("expected error for page with no extractable text")
	}
}

func TestBuildDocumentFallbackTitle(t *testing.T) {
	h := NewHandler(nil, nil)

	// No <title> and no heading: the domain becomes the title.
	page := `<html><body><main><p>Plain paragraph content that is long enough
to survive extraction and make it into the document text without a title
anywhere in the markup.</p></main></body></html>`

	payload, err := h.buildDocument(FetchRequest{URL: "https://example.com/x"}, &FetchResult{Body: []byte(page)})
	if err != nil {
		t.Fatalf("buildDocument() error = %v", err)
	}
	if payload.Document.Meta.Title != "example.com" {
		t.Errorf("fallback title = %q, want example.com", payload.Document.Meta.Title)
	}
}

func TestBuildDocumentAdvisoryTitle(t *testing.T) {
	h := NewHandler(nil, nil)

	// No <title> in the markup: the request's advisory title is used
	// before falling back to the domain.
	page := `<html><body><main><p>Plain paragraph content that is long enough
to survive extraction and make it into the document text without a title
anywhere in the markup.</p></main></body></html>`

	req := FetchRequest{URL: "https://example.com/x", Title: "Example Pricing"}
	payload, err := h.buildDocument(req, &FetchResult{Body: []byte(page)})
	if err != nil {
		t.Fatalf("buildDocument() error = %v", err)
	}
	if payload.Document.Meta.Title != "Example Pricing" {
		t.Errorf("title = %q, want Example Pricing", payload.Document.Meta.Title)
	}

	// An extracted title still wins over the advisory one.
	titled, err := h.buildDocument(
		FetchRequest{URL: "https://example.com/pricing", Title: "Ignored"},
		&FetchResult{Body: []byte(testPage)},
	)
	if err != nil {
		t.Fatalf("buildDocument() error = %v", err)
	}
	if titled.Document.Meta.Title != "Test Page" {
		t.Errorf("title = %q, want Test Page", titled.Document.Meta.Title)
	}
}

func TestDocumentPayloadValidate(t *testing.T) {
	payload := &DocumentPayload{}
	if err := payload.Validate(); err == nil {
		t.Error("expected error for missing document ID")
	}

	payload.DocumentID = "doc.web.example-com"
	if err := payload.Validate(); err == nil {
		t.Error("expected error for empty document text")
	}

	payload.Document.Text = "content"
	if err := payload.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "default config valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing stream name",
			modify:  func(c *Config) { c.StreamName = "" },
			wantErr: true,
		},
		{
			name:    "missing consumer name",
			modify:  func(c *Config) { c.ConsumerName = "" },
			wantErr: true,
		},
		{
			name:    "missing output subject",
			modify:  func(c *Config) { c.OutputSubject = "" },
			wantErr: true,
		},
		{
			name:    "bad fetch timeout",
			modify:  func(c *Config) { c.FetchTimeout = "soon" },
			wantErr: true,
		},
		{
			name:    "negative content size",
			modify:  func(c *Config) { c.MaxContentSize = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
