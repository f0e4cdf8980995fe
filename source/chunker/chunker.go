// Package chunker splits normalized document text into bounded chunks for
// a size-constrained consumer, preserving paragraph boundaries where it can
// and source provenance always.
package chunker

import (
	"fmt"
	"strings"
)

const (
	// paragraphJoin separates paragraphs inside a chunk.
	paragraphJoin = "\n\n"

	// paragraphJoinCost is the per-paragraph length bookkeeping cost
	// used while packing and selecting overlap. It exceeds
	// len(paragraphJoin), so counted lengths overestimate joined chunk
	// lengths and chunks land slightly under ChunkSize.
	paragraphJoinCost = 4

	// sentenceJoin separates sentences inside an oversized-paragraph
	// sub-chunk.
	sentenceJoin = " "
)

// Config holds chunking configuration.
type Config struct {
	// ChunkSize is the target maximum chunk length in characters.
	ChunkSize int

	// Overlap is the target overlap length in characters carried between
	// consecutive chunks of one document.
	Overlap int
}

// DefaultConfig returns sensible chunking defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 8000,
		Overlap:   500,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("ChunkSize must be positive, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("Overlap must be non-negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("Overlap (%d) must be less than ChunkSize (%d)", c.Overlap, c.ChunkSize)
	}
	return nil
}

// Chunker splits document text into bounded chunks. It is immutable after
// construction and safe for concurrent use.
type Chunker struct {
	config   Config
	limits   Limits
	reporter Reporter
}

// New creates a new Chunker with the given configuration and default
// limits. Returns an error if the configuration is invalid.
func New(cfg Config) (*Chunker, error) {
	return NewWithLimits(cfg, DefaultLimits(), nil)
}

// NewWithLimits creates a Chunker with explicit defensive limits and a
// diagnostics reporter. A nil reporter discards diagnostic events.
func NewWithLimits(cfg Config, limits Limits, reporter Reporter) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Chunker{config: cfg, limits: limits.withDefaults(), reporter: reporter}, nil
}

// MustNew creates a new Chunker, panicking on invalid config.
// Use for known-good configurations.
func MustNew(cfg Config) *Chunker {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// NewDefault creates a Chunker with default configuration.
func NewDefault() *Chunker {
	return MustNew(DefaultConfig())
}

// Config returns the chunker's configuration.
func (c *Chunker) Config() Config {
	return c.config
}

// ChunkText splits a text body into chunks of at most ChunkSize characters,
// packing whole paragraphs and carrying Overlap characters of trailing
// context into each following chunk.
//
// Text no longer than ChunkSize is returned unchanged as the sole chunk.
// Every returned chunk is non-empty; only the fixed-window fallback for
// single sentences longer than ChunkSize may break a unit mid-word.
func (c *Chunker) ChunkText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= c.config.ChunkSize {
		return []string{text}
	}
	return c.packParagraphs(splitParagraphs(text), true)
}

// packParagraphs greedily accumulates paragraphs into chunks. When seedOverlap
// is set, each flush seeds the next chunk with the overlap tail of the
// paragraphs just flushed. Paragraphs longer than ChunkSize are routed through
// the oversized splitter and reset any pending overlap on both sides.
func (c *Chunker) packParagraphs(paragraphs []string, seedOverlap bool) []string {
	var chunks []string
	var pending []string
	pendingLen := 0

	for _, p := range paragraphs {
		if len(p) > c.config.ChunkSize {
			if len(pending) > 0 {
				chunks = append(chunks, strings.Join(pending, paragraphJoin))
				pending = nil
				pendingLen = 0
			}
			chunks = append(chunks, c.splitOversized(p)...)
			continue
		}

		if pendingLen+len(p) > c.config.ChunkSize && len(pending) > 0 {
			chunks = append(chunks, strings.Join(pending, paragraphJoin))
			if seedOverlap {
				pending, pendingLen = c.overlapTail(pending)
			} else {
				pending = nil
				pendingLen = 0
			}
		}

		pending = append(pending, p)
		pendingLen += len(p) + paragraphJoinCost
	}

	if len(pending) > 0 {
		chunks = append(chunks, strings.Join(pending, paragraphJoin))
	}

	return chunks
}

// overlapTail selects a trailing subsequence of the just-flushed paragraphs
// whose accumulated length approximates the configured overlap. The scan runs
// backward and stops once the target is reached. A paragraph that would push
// the accumulated length past the target is still taken when nothing has been
// selected yet, or when the result stays within twice the target; this bounds
// the worst-case overlap blow-up from one long tail paragraph to 2x Overlap.
func (c *Chunker) overlapTail(paragraphs []string) ([]string, int) {
	if len(paragraphs) == 0 {
		return nil, 0
	}

	var selected []string
	length := 0

	for i := len(paragraphs) - 1; i >= 0; i-- {
		p := paragraphs[i]

		if length+len(p) > c.config.Overlap {
			if len(selected) == 0 || length+len(p) <= 2*c.config.Overlap {
				selected = append(selected, p)
				length += len(p) + paragraphJoinCost
			}
			break
		}

		selected = append(selected, p)
		length += len(p) + paragraphJoinCost

		if length >= c.config.Overlap {
			break
		}
	}

	reverse(selected)
	return selected, length
}

// splitOversized reduces a paragraph longer than ChunkSize into sub-chunks,
// first at sentence boundaries, then, for sentences that are themselves
// longer than ChunkSize, into fixed ChunkSize windows. The window fallback is
// the only point that breaks a unit mid-word; its sub-chunks are exactly
// ChunkSize long except possibly the last. No overlap is carried between
// sub-chunks.
func (c *Chunker) splitOversized(paragraph string) []string {
	var chunks []string
	var pending []string
	pendingLen := 0

	for _, s := range splitSentences(paragraph) {
		if len(s) > c.config.ChunkSize {
			if len(pending) > 0 {
				chunks = append(chunks, strings.Join(pending, sentenceJoin))
				pending = nil
				pendingLen = 0
			}
			for i := 0; i < len(s); i += c.config.ChunkSize {
				end := i + c.config.ChunkSize
				if end > len(s) {
					end = len(s)
				}
				chunks = append(chunks, s[i:end])
			}
			continue
		}

		if pendingLen+len(s) > c.config.ChunkSize && len(pending) > 0 {
			chunks = append(chunks, strings.Join(pending, sentenceJoin))
			pending = nil
			pendingLen = 0
		}

		pending = append(pending, s)
		pendingLen += len(s) + len(sentenceJoin)
	}

	if len(pending) > 0 {
		chunks = append(chunks, strings.Join(pending, sentenceJoin))
	}

	return chunks
}

// splitParagraphs splits text into paragraphs on runs of blank lines.
// Whitespace-only lines count as blank. Each paragraph is stripped of
// leading and trailing whitespace; empty results are dropped.
func splitParagraphs(text string) []string {
	var paragraphs []string
	var current strings.Builder

	flush := func() {
		if p := strings.TrimSpace(current.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	return paragraphs
}

// splitSentences splits text at boundaries immediately following '.', '!',
// or '?' followed by whitespace. The terminating punctuation stays with its
// sentence; the boundary whitespace is consumed.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && isSpaceByte(text[i+1]) {
				sentences = append(sentences, text[start:i+1])
				j := i + 1
				for j < len(text) && isSpaceByte(text[j]) {
					j++
				}
				start = j
				i = j - 1
			}
		}
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}

	return sentences
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
