package batchchunker

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"

	"github.com/prospectio/prospector/source"
)

// RegisterPayloads registers the batch-chunker payload types with the
// supplied registry. Called at process bootstrap, after the registry
// is constructed and before component lifecycle begins.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	registrations := []*payloadregistry.Registration{
		{
			Domain:      "chunk",
			Category:    "batch",
			Version:     "v1",
			Description: "Document batch to be aggregated into chunks",
			Factory:     func() any { return &DocumentBatchPayload{} },
		},
		{
			Domain:      "chunk",
			Category:    "record",
			Version:     "v1",
			Description: "One chunk record with source attribution",
			Factory:     func() any { return &ChunkRecordPayload{} },
		},
	}

	var errs []error
	for _, r := range registrations {
		if err := reg.Register(r); err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", r.MessageType(), err))
		}
	}
	return errors.Join(errs...)
}

// DocumentBatchType is the message type for document batch payloads.
var DocumentBatchType = message.Type{Domain: "chunk", Category: "batch", Version: "v1"}

// ChunkRecordType is the message type for chunk record payloads.
var ChunkRecordType = message.Type{Domain: "chunk", Category: "record", Version: "v1"}

// DocumentBatchPayload carries the documents of one batch through the stream.
type DocumentBatchPayload struct {
	// BatchID correlates every chunk record produced from this batch.
	// Assigned a UUID by the component when empty.
	BatchID string `json:"batch_id,omitempty"`

	// Documents are chunked together as one batch.
	Documents []source.Document `json:"documents"`
}

// Schema returns the message type for Payload interface.
func (p *DocumentBatchPayload) Schema() message.Type { return DocumentBatchType }

// Validate validates the payload for Payload interface.
func (p *DocumentBatchPayload) Validate() error {
	if len(p.Documents) == 0 {
		return errors.New("batch has no documents")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *DocumentBatchPayload) MarshalJSON() ([]byte, error) {
	type Alias DocumentBatchPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *DocumentBatchPayload) UnmarshalJSON(data []byte) error {
	type Alias DocumentBatchPayload
	return json.Unmarshal(data, (*Alias)(p))
}

// ChunkRecordPayload is one chunk of a processed batch.
type ChunkRecordPayload struct {
	BatchID    string       `json:"batch_id"`
	Chunk      source.Chunk `json:"chunk"`
	ProducedAt time.Time    `json:"produced_at"`
}

// Schema returns the message type for Payload interface.
func (p *ChunkRecordPayload) Schema() message.Type { return ChunkRecordType }

// Validate validates the payload for Payload interface.
func (p *ChunkRecordPayload) Validate() error {
	if p.BatchID == "" {
		return errors.New("batch ID is required")
	}
	if p.Chunk.Text == "" {
		return errors.New("chunk text is required")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *ChunkRecordPayload) MarshalJSON() ([]byte, error) {
	type Alias ChunkRecordPayload
	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ChunkRecordPayload) UnmarshalJSON(data []byte) error {
	type Alias ChunkRecordPayload
	return json.Unmarshal(data, (*Alias)(p))
}
