package webingester

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"

	"github.com/prospectio/prospector/source"
)

// RegisterPayloads registers the web-ingester payload types with the
// supplied registry. Called at process bootstrap, after the registry
// is constructed and before component lifecycle begins.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	err := reg.Register(&payloadregistry.Registration{
		Domain:      "web",
		Category:    "document",
		Version:     "v1",
		Description: "Normalized web document ready for chunking",
		Factory:     func() any { return &DocumentPayload{} },
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", DocumentType.String(), err)
	}
	return nil
}

// DocumentType is the message type for normalized document payloads.
var DocumentType = message.Type{Domain: "web", Category: "document", Version: "v1"}

// FetchRequest asks the ingester to fetch and normalize one web page.
type FetchRequest struct {
	// URL is the page to fetch. Must pass weburl.ValidateURL.
	URL string `json:"url"`

	// Query is the search query that surfaced this URL, if any.
	Query string `json:"query,omitempty"`

	// Title is an advisory title for the page, used only when
	// extraction finds none in the fetched content.
	Title string `json:"title,omitempty"`

	// RequestID correlates the resulting document with the request.
	// Assigned a UUID by the component when empty.
	RequestID string `json:"request_id,omitempty"`
}

// DocumentPayload implements message.Payload for normalized web documents.
type DocumentPayload struct {
	DocumentID  string          `json:"document_id"`
	RequestID   string          `json:"request_id,omitempty"`
	Document    source.Document `json:"document"`
	ContentHash string          `json:"content_hash"`
	ETag        string          `json:"etag,omitempty"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// Schema returns the message type for Payload interface.
func (p *DocumentPayload) Schema() message.Type { return DocumentType }

// Validate validates the payload for Payload interface.
func (p *DocumentPayload) Validate() error {
	if p.DocumentID == "" {
		return errors.New("document ID is required")
	}
	if p.Document.Empty() {
		return errors.New("document text is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *DocumentPayload) MarshalJSON() ([]byte, error) {
	type Alias DocumentPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *DocumentPayload) UnmarshalJSON(data []byte) error {
	type Alias DocumentPayload
	return json.Unmarshal(data, (*Alias)(p))
}
