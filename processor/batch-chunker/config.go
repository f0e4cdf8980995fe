package batchchunker

import (
	"fmt"

	"github.com/c360studio/semstreams/component"
)

// Config holds configuration for the batch-chunker processor component.
type Config struct {
	Ports *component.PortConfig `json:"ports" schema:"type:ports,description:Port configuration,category:basic"`

	// StreamName is the JetStream stream carrying document batches.
	StreamName string `json:"stream_name" schema:"type:string,description:JetStream stream name,category:basic,default:DOCUMENTS"`

	// ConsumerName is the durable consumer name.
	ConsumerName string `json:"consumer_name" schema:"type:string,description:Durable consumer name,category:basic,default:batch-chunker"`

	// OutputSubject is where chunk records are published.
	OutputSubject string `json:"output_subject" schema:"type:string,description:Subject for chunk record payloads,category:basic,default:chunk.record.produced"`

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int `json:"chunk_size" schema:"type:int,description:Maximum chunk length in characters,category:basic,default:8000"`

	// Overlap is the target carry-over between consecutive chunks.
	Overlap int `json:"overlap" schema:"type:int,description:Target overlap between consecutive chunks,category:basic,default:500"`

	// MaxDocumentChars truncates any single document before chunking.
	MaxDocumentChars int `json:"max_document_chars" schema:"type:int,description:Per-document truncation ceiling,category:advanced,default:100000"`

	// MaxMergedParagraphs caps per-document paragraphs in merged batches.
	MaxMergedParagraphs int `json:"max_merged_paragraphs" schema:"type:int,description:Per-document paragraph cap in merged batches,category:advanced,default:1000"`

	// MaxSoloParagraphs caps per-document paragraphs when chunked alone.
	MaxSoloParagraphs int `json:"max_solo_paragraphs" schema:"type:int,description:Per-document paragraph cap when chunked independently,category:advanced,default:500"`
}

// Validate checks the configuration for errors. Chunking parameters are
// rejected here so a bad deployment fails at construction, not mid-stream.
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
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must not be negative")
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk_size (%d)", c.Overlap, c.ChunkSize)
	}
	if c.MaxDocumentChars < 0 || c.MaxMergedParagraphs < 0 || c.MaxSoloParagraphs < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	return nil
}

// DefaultConfig returns default configuration for the batch-chunker processor.
func DefaultConfig() Config {
	inputDefs := []component.PortDefinition{
		{
			Name:        "batch.in",
			Type:        "jetstream",
			Subject:     "chunk.batch.request",
			StreamName:  "DOCUMENTS",
			Required:    true,
			Description: "Document batches to chunk",
		},
	}

	outputDefs := []component.PortDefinition{
		{
			Name:        "record.out",
			Type:        "jetstream",
			Subject:     "chunk.record.produced",
			StreamName:  "CHUNKS",
			Required:    true,
			Description: "Chunk records with source attribution",
		},
	}

	return Config{
		Ports: &component.PortConfig{
			Inputs:  inputDefs,
			Outputs: outputDefs,
		},
		StreamName:          "DOCUMENTS",
		ConsumerName:        "batch-chunker",
		OutputSubject:       "chunk.record.produced",
		ChunkSize:           8000,
		Overlap:             500,
		MaxDocumentChars:    100_000,
		MaxMergedParagraphs: 1000,
		MaxSoloParagraphs:   500,
	}
}
