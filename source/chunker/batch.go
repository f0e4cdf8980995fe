package chunker

import (
	"fmt"
	"strings"

	"github.com/prospectio/prospector/source"
)

// separatorEstimate is the rough per-document separator overhead used when
// comparing aggregate batch length against the chunk budget.
const separatorEstimate = 6

// Limits holds the defensive ceilings applied during batch aggregation.
// They bound worst-case processing cost; exceeding them shrinks the
// effective input and emits a diagnostic event, never an error.
type Limits struct {
	// MaxDocumentChars is the truncation ceiling for a single document's
	// text before chunking.
	MaxDocumentChars int

	// MaxMergedParagraphs caps the paragraphs taken from one document
	// when building the merged paragraph stream.
	MaxMergedParagraphs int

	// MaxSoloParagraphs caps the paragraphs taken from one document when
	// documents are chunked independently.
	MaxSoloParagraphs int
}

// DefaultLimits returns the default defensive ceilings.
func DefaultLimits() Limits {
	return Limits{
		MaxDocumentChars:    100_000,
		MaxMergedParagraphs: 1000,
		MaxSoloParagraphs:   500,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxDocumentChars <= 0 {
		l.MaxDocumentChars = def.MaxDocumentChars
	}
	if l.MaxMergedParagraphs <= 0 {
		l.MaxMergedParagraphs = def.MaxMergedParagraphs
	}
	if l.MaxSoloParagraphs <= 0 {
		l.MaxSoloParagraphs = def.MaxSoloParagraphs
	}
	return l
}

// Reporter receives diagnostic events for policy actions taken during batch
// aggregation. Implementations must be safe for concurrent use.
type Reporter interface {
	// DocumentTruncated fires when a document's text exceeded the
	// truncation ceiling and was shortened before chunking.
	DocumentTruncated(meta source.Metadata, originalChars, keptChars int)

	// ParagraphsCapped fires when a document contributed more paragraphs
	// than the configured cap and the excess was dropped.
	ParagraphsCapped(meta source.Metadata, totalParagraphs, keptParagraphs int)
}

type nopReporter struct{}

func (nopReporter) DocumentTruncated(source.Metadata, int, int) {}
func (nopReporter) ParagraphsCapped(source.Metadata, int, int)  {}

// ChunkBatch combines multiple documents into chunk records with per-chunk
// source attribution. The aggregation strategy is chosen from the filtered
// batch's aggregate text length relative to ChunkSize:
//
//   - more than 5x ChunkSize: each document is chunked independently and the
//     per-document sequences are concatenated in document order;
//   - everything fits in one chunk: the texts are concatenated into a single
//     chunk with provenance separators between documents;
//   - otherwise: one merged paragraph stream is packed greedily, tracking
//     which documents contributed to each chunk.
//
// Chunk indexes and the batch total are stamped after packing completes.
// An empty or all-blank batch yields nil. The call is a pure function over
// its inputs and the chunker's configuration.
func (c *Chunker) ChunkBatch(docs []source.Document) []source.Chunk {
	filtered := c.filterDocuments(docs)
	if len(filtered) == 0 {
		return nil
	}

	total := 0
	for _, d := range filtered {
		total += len(d.Text)
	}
	separators := (len(filtered) - 1) * separatorEstimate

	var chunks []source.Chunk
	switch {
	case total > 5*c.config.ChunkSize:
		chunks = c.chunkIndependent(filtered)
	case total+separators <= c.config.ChunkSize:
		chunks = c.chunkCombined(filtered)
	default:
		chunks = c.chunkMerged(filtered)
	}

	return stamp(chunks)
}

// filterDocuments drops documents with blank text and truncates any text
// exceeding the document ceiling, reporting the truncation.
func (c *Chunker) filterDocuments(docs []source.Document) []source.Document {
	filtered := make([]source.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Empty() {
			continue
		}
		if len(doc.Text) > c.limits.MaxDocumentChars {
			c.reporter.DocumentTruncated(doc.Meta, len(doc.Text), c.limits.MaxDocumentChars)
			doc.Text = doc.Text[:c.limits.MaxDocumentChars]
		}
		filtered = append(filtered, doc)
	}
	return filtered
}

// chunkIndependent runs the assembler separately per document. No chunk ever
// mixes content from two documents.
func (c *Chunker) chunkIndependent(docs []source.Document) []source.Chunk {
	var chunks []source.Chunk
	for _, doc := range docs {
		text := c.capParagraphs(doc, c.limits.MaxSoloParagraphs)
		for _, piece := range c.ChunkText(text) {
			chunks = append(chunks, source.Chunk{
				Text:    piece,
				Sources: []source.Metadata{doc.Meta},
			})
		}
	}
	return chunks
}

// chunkCombined concatenates all document texts into a single chunk,
// prefixing every document after the first with a provenance separator.
func (c *Chunker) chunkCombined(docs []source.Document) []source.Chunk {
	var b strings.Builder
	sources := make([]source.Metadata, 0, len(docs))

	for i, doc := range docs {
		if i > 0 {
			title, url := doc.Meta.Label()
			fmt.Fprintf(&b, "\n\n--- SOURCE: %s | URL: %s ---\n\n", title, url)
		}
		b.WriteString(doc.Text)
		sources = append(sources, doc.Meta)
	}

	return []source.Chunk{{Text: b.String(), Sources: sources}}
}

// streamEntry is one unit of the merged paragraph stream. Separator
// pseudo-paragraphs carry no metadata.
type streamEntry struct {
	text string
	meta *source.Metadata
}

// chunkMerged builds one global paragraph stream across all documents, with
// a provenance-separator pseudo-paragraph before each document after the
// first, and packs it greedily. Instead of textual overlap, each pending
// chunk tracks the documents whose paragraphs it actually holds, deduplicated
// by URL in document order; the set resets on every flush.
func (c *Chunker) chunkMerged(docs []source.Document) []source.Chunk {
	var stream []streamEntry
	for i := range docs {
		doc := docs[i]
		paragraphs := splitParagraphs(doc.Text)
		if len(paragraphs) > c.limits.MaxMergedParagraphs {
			c.reporter.ParagraphsCapped(doc.Meta, len(paragraphs), c.limits.MaxMergedParagraphs)
			paragraphs = paragraphs[:c.limits.MaxMergedParagraphs]
		}
		if len(stream) > 0 {
			title, url := doc.Meta.Label()
			stream = append(stream, streamEntry{
				text: fmt.Sprintf("--- SOURCE: %s | URL: %s ---", title, url),
			})
		}
		for _, p := range paragraphs {
			stream = append(stream, streamEntry{text: p, meta: &docs[i].Meta})
		}
	}

	var chunks []source.Chunk
	var pending []string
	pendingLen := 0
	tracker := newSourceTracker()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		chunks = append(chunks, source.Chunk{
			Text:    strings.Join(pending, paragraphJoin),
			Sources: tracker.ordered(),
		})
		pending = nil
		pendingLen = 0
		tracker.reset()
	}

	for _, entry := range stream {
		if len(entry.text) > c.config.ChunkSize {
			flush()
			var sub []source.Metadata
			if entry.meta != nil {
				sub = []source.Metadata{*entry.meta}
			}
			for _, piece := range c.splitOversized(entry.text) {
				chunks = append(chunks, source.Chunk{Text: piece, Sources: sub})
			}
			continue
		}

		if pendingLen+len(entry.text) > c.config.ChunkSize && len(pending) > 0 {
			flush()
		}

		pending = append(pending, entry.text)
		pendingLen += len(entry.text) + paragraphJoinCost
		if entry.meta != nil {
			tracker.add(*entry.meta)
		}
	}
	flush()

	return chunks
}

// capParagraphs applies the per-document paragraph cap, reporting when the
// cap bites. The returned text is the original when no cap was needed.
func (c *Chunker) capParagraphs(doc source.Document, limit int) string {
	paragraphs := splitParagraphs(doc.Text)
	if len(paragraphs) <= limit {
		return doc.Text
	}
	c.reporter.ParagraphsCapped(doc.Meta, len(paragraphs), limit)
	return strings.Join(paragraphs[:limit], paragraphJoin)
}

// sourceTracker deduplicates contributing documents by URL while keeping
// document order. Documents without a URL are skipped, matching the
// provenance contract keyed on the source identifier.
type sourceTracker struct {
	seen  map[string]bool
	order []source.Metadata
}

func newSourceTracker() *sourceTracker {
	return &sourceTracker{seen: make(map[string]bool)}
}

func (t *sourceTracker) add(meta source.Metadata) {
	if meta.URL == "" || t.seen[meta.URL] {
		return
	}
	t.seen[meta.URL] = true
	t.order = append(t.order, meta)
}

func (t *sourceTracker) ordered() []source.Metadata {
	out := make([]source.Metadata, len(t.order))
	copy(out, t.order)
	return out
}

func (t *sourceTracker) reset() {
	t.seen = make(map[string]bool)
	t.order = nil
}

// stamp assigns each chunk's final index and the batch total in a second
// pass; the total is unknown until packing finishes.
func stamp(chunks []source.Chunk) []source.Chunk {
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}
	return chunks
}
