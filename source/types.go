// Package source provides the document and chunk record types shared by
// the ingestion and chunking pipeline.
package source

import "strings"

// Metadata identifies where a document came from.
type Metadata struct {
	// URL is the source identifier (the page the text was fetched from).
	URL string `json:"url"`

	// Title is the document title, when one could be extracted.
	Title string `json:"title"`

	// Query is the research query that led to this document.
	Query string `json:"query,omitempty"`
}

// Label returns the title and URL for provenance separators.
// Empty fields fall back to "Unknown" so separators stay parseable.
func (m Metadata) Label() (title, url string) {
	title = m.Title
	if title == "" {
		title = "Unknown"
	}
	url = m.URL
	if url == "" {
		url = "Unknown"
	}
	return title, url
}

// Document is a normalized text body plus its source metadata.
// It is immutable once handed to the chunking engine.
type Document struct {
	// Text is the cleaned plain-text body produced by the normalizer.
	Text string `json:"text"`

	// Meta identifies the document's origin.
	Meta Metadata `json:"meta"`
}

// Empty reports whether the document carries no usable text.
func (d Document) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Chunk is one bounded unit of text produced for a size-constrained
// consumer, with full source attribution.
type Chunk struct {
	// Text is the chunk content.
	Text string `json:"chunk"`

	// Index is the zero-based position of this chunk within its batch.
	Index int `json:"chunk_index"`

	// Total is the number of chunks in the batch. It is identical across
	// every chunk of one batch and is stamped after packing completes.
	Total int `json:"total_chunks"`

	// Sources lists the documents whose paragraphs appear in this chunk,
	// in document order, deduplicated by URL.
	Sources []Metadata `json:"sources"`
}
