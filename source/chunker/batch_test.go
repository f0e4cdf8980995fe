package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prospectio/prospector/source"
)

type truncationEvent struct {
	meta     source.Metadata
	original int
	kept     int
}

type capEvent struct {
	meta  source.Metadata
	total int
	kept  int
}

// recordingReporter captures diagnostic events for assertions.
type recordingReporter struct {
	truncations []truncationEvent
	caps        []capEvent
}

func (r *recordingReporter) DocumentTruncated(meta source.Metadata, originalChars, keptChars int) {
	r.truncations = append(r.truncations, truncationEvent{meta, originalChars, keptChars})
}

func (r *recordingReporter) ParagraphsCapped(meta source.Metadata, totalParagraphs, keptParagraphs int) {
	r.caps = append(r.caps, capEvent{meta, totalParagraphs, keptParagraphs})
}

func TestChunker_ChunkBatch_EmptyBatch(t *testing.T) {
	c := NewDefault()

	assert.Nil(t, c.ChunkBatch(nil))
	assert.Nil(t, c.ChunkBatch([]source.Document{}))
	assert.Nil(t, c.ChunkBatch([]source.Document{
		{Text: "   \n\n\t  ", Meta: source.Metadata{URL: "https://blank.example"}},
	}))
}

func TestChunker_ChunkBatch_BlankDocumentsDropped(t *testing.T) {
	c := MustNew(Config{ChunkSize: 8000, Overlap: 500})

	real := source.Document{
		Text: "actual content here",
		Meta: source.Metadata{Title: "Real", URL: "https://real.example"},
	}
	chunks := c.ChunkBatch([]source.Document{
		{Text: "  \n  ", Meta: source.Metadata{Title: "Blank", URL: "https://blank.example"}},
		real,
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, real.Text, chunks[0].Text)
	assert.Equal(t, []source.Metadata{real.Meta}, chunks[0].Sources)
}

func TestChunker_ChunkBatch_CombinedSingleChunk(t *testing.T) {
	c := MustNew(Config{ChunkSize: 50000, Overlap: 500})

	docs := []source.Document{
		{Text: strings.Repeat("a", 2000), Meta: source.Metadata{Title: "Alpha Inc", URL: "https://alpha.example"}},
		{Text: strings.Repeat("b", 2000), Meta: source.Metadata{Title: "Beta Corp", URL: "https://beta.example"}},
		{Text: strings.Repeat("c", 2000), Meta: source.Metadata{Title: "Gamma Ltd", URL: "https://gamma.example"}},
	}

	chunks := c.ChunkBatch(docs)
	require.Len(t, chunks, 1)

	got := chunks[0]
	assert.Equal(t, 0, got.Index)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, []source.Metadata{docs[0].Meta, docs[1].Meta, docs[2].Meta}, got.Sources)

	// The first document carries no separator; each later one gets exactly one.
	assert.True(t, strings.HasPrefix(got.Text, docs[0].Text))
	sepBeta := "\n\n--- SOURCE: Beta Corp | URL: https://beta.example ---\n\n"
	sepGamma := "\n\n--- SOURCE: Gamma Ltd | URL: https://gamma.example ---\n\n"
	assert.Equal(t, 1, strings.Count(got.Text, sepBeta))
	assert.Equal(t, 1, strings.Count(got.Text, sepGamma))
	assert.Contains(t, got.Text, docs[1].Text)
	assert.Contains(t, got.Text, docs[2].Text)
}

func TestChunker_ChunkBatch_CombinedUnknownMetadata(t *testing.T) {
	c := MustNew(Config{ChunkSize: 10000, Overlap: 100})

	chunks := c.ChunkBatch([]source.Document{
		{Text: "first document"},
		{Text: "second document"},
	})

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Text, "--- SOURCE: Unknown | URL: Unknown ---")
}

func TestChunker_ChunkBatch_IndependentKeepsDocumentsApart(t *testing.T) {
	c := MustNew(Config{ChunkSize: 1000, Overlap: 100})

	letters := []string{"a", "b", "c"}
	docs := make([]source.Document, len(letters))
	for i, l := range letters {
		paragraphs := make([]string, 10)
		for j := range paragraphs {
			paragraphs[j] = strings.Repeat(l, 200)
		}
		docs[i] = source.Document{
			Text: strings.Join(paragraphs, "\n\n"),
			Meta: source.Metadata{Title: strings.ToUpper(l), URL: fmt.Sprintf("https://%s.example", l)},
		}
	}
	// Aggregate length is well past 5x the chunk budget, so each document
	// is chunked on its own.

	chunks := c.ChunkBatch(docs)
	require.NotEmpty(t, chunks)

	seenDoc := -1
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, len(chunks), ch.Total)
		require.Len(t, ch.Sources, 1, "chunk %d must come from exactly one document", i)
		assert.LessOrEqual(t, len(ch.Text), 1000)

		// Chunks stay grouped in document order and never mix letters.
		idx := -1
		for d, doc := range docs {
			if ch.Sources[0] == doc.Meta {
				idx = d
			}
		}
		require.GreaterOrEqual(t, idx, seenDoc, "chunk %d out of document order", i)
		seenDoc = idx
		for d, l := range letters {
			if d == idx {
				assert.Contains(t, ch.Text, l)
			} else {
				assert.NotContains(t, ch.Text, l)
			}
		}
	}

	// Every document contributed at least one chunk.
	contributed := map[string]bool{}
	for _, ch := range chunks {
		contributed[ch.Sources[0].URL] = true
	}
	assert.Len(t, contributed, len(docs))
}

func TestChunker_ChunkBatch_MergedTracksProvenance(t *testing.T) {
	c := MustNew(Config{ChunkSize: 100, Overlap: 20})

	metaA := source.Metadata{Title: "Alpha", URL: "https://a.example"}
	metaB := source.Metadata{Title: "Beta", URL: "https://b.example"}
	docs := []source.Document{
		{Text: strings.Repeat("a", 40) + "\n\n" + strings.Repeat("x", 40), Meta: metaA},
		{Text: strings.Repeat("b", 40), Meta: metaB},
	}
	// 120 chars total: too big for one chunk, far under the independent
	// threshold, so the merged stream is used.

	chunks := c.ChunkBatch(docs)
	require.Len(t, chunks, 2)

	// Both paragraphs of the first document land in the first chunk; its
	// provenance lists the document once, not per paragraph.
	assert.Equal(t, strings.Repeat("a", 40)+"\n\n"+strings.Repeat("x", 40), chunks[0].Text)
	assert.Equal(t, []source.Metadata{metaA}, chunks[0].Sources)

	// The second chunk holds the separator and the second document, and
	// its provenance resets to just that document.
	assert.Contains(t, chunks[1].Text, "--- SOURCE: Beta | URL: https://b.example ---")
	assert.Contains(t, chunks[1].Text, strings.Repeat("b", 40))
	assert.Equal(t, []source.Metadata{metaB}, chunks[1].Sources)

	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 1, chunks[1].Index)
	assert.Equal(t, 2, chunks[0].Total)
	assert.Equal(t, 2, chunks[1].Total)
}

func TestChunker_ChunkBatch_MergedOversizedParagraph(t *testing.T) {
	c := MustNew(Config{ChunkSize: 50, Overlap: 5})

	meta := source.Metadata{Title: "Wall", URL: "https://wall.example"}
	big := strings.Repeat("x", 55)
	small := strings.Repeat("y", 30)
	chunks := c.ChunkBatch([]source.Document{
		{Text: big + "\n\n" + small, Meta: meta},
	})

	// The unbreakable paragraph splits into fixed windows; every resulting
	// chunk still carries the contributing document.
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 50), chunks[0].Text)
	assert.Equal(t, strings.Repeat("x", 5), chunks[1].Text)
	assert.Equal(t, small, chunks[2].Text)
	for i, ch := range chunks {
		assert.Equal(t, []source.Metadata{meta}, ch.Sources, "chunk %d", i)
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, 3, ch.Total)
	}
}

func TestChunker_ChunkBatch_TruncatesOversizedDocument(t *testing.T) {
	rep := &recordingReporter{}
	c, err := NewWithLimits(
		Config{ChunkSize: 8000, Overlap: 500},
		Limits{MaxDocumentChars: 100},
		rep,
	)
	require.NoError(t, err)

	meta := source.Metadata{Title: "Huge", URL: "https://huge.example"}
	text := strings.Repeat("z", 250)
	chunks := c.ChunkBatch([]source.Document{{Text: text, Meta: meta}})

	require.Len(t, chunks, 1)
	assert.Equal(t, text[:100], chunks[0].Text)

	require.Len(t, rep.truncations, 1)
	assert.Equal(t, meta, rep.truncations[0].meta)
	assert.Equal(t, 250, rep.truncations[0].original)
	assert.Equal(t, 100, rep.truncations[0].kept)
}

func TestChunker_ChunkBatch_MergedParagraphCap(t *testing.T) {
	rep := &recordingReporter{}
	c, err := NewWithLimits(
		Config{ChunkSize: 100, Overlap: 10},
		Limits{MaxMergedParagraphs: 2},
		rep,
	)
	require.NoError(t, err)

	meta := source.Metadata{Title: "Chatty", URL: "https://chatty.example"}
	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("p", 15)
	}
	chunks := c.ChunkBatch([]source.Document{
		{Text: strings.Join(paragraphs, "\n\n"), Meta: meta},
	})

	// Only the first two paragraphs survive the cap.
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Repeat("p", 15)+"\n\n"+strings.Repeat("p", 15), chunks[0].Text)

	require.Len(t, rep.caps, 1)
	assert.Equal(t, meta, rep.caps[0].meta)
	assert.Equal(t, 10, rep.caps[0].total)
	assert.Equal(t, 2, rep.caps[0].kept)
}

func TestChunker_ChunkBatch_SoloParagraphCap(t *testing.T) {
	rep := &recordingReporter{}
	c, err := NewWithLimits(
		Config{ChunkSize: 100, Overlap: 10},
		Limits{MaxSoloParagraphs: 3},
		rep,
	)
	require.NoError(t, err)

	meta := source.Metadata{Title: "Long", URL: "https://long.example"}
	paragraphs := make([]string, 20)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("q", 30)
	}
	// A single 638-char document exceeds 5x the 100-char budget, so it is
	// chunked independently and the solo cap applies.
	chunks := c.ChunkBatch([]source.Document{
		{Text: strings.Join(paragraphs, "\n\n"), Meta: meta},
	})

	require.NotEmpty(t, chunks)
	kept := 0
	for _, ch := range chunks {
		assert.Equal(t, []source.Metadata{meta}, ch.Sources)
		kept += strings.Count(ch.Text, strings.Repeat("q", 30))
	}
	assert.Equal(t, 3, kept)

	require.Len(t, rep.caps, 1)
	assert.Equal(t, meta, rep.caps[0].meta)
	assert.Equal(t, 20, rep.caps[0].total)
	assert.Equal(t, 3, rep.caps[0].kept)
}

func TestChunker_ChunkBatch_MergedRoundTrip(t *testing.T) {
	// Concatenating all merged chunks' paragraphs, minus the provenance
	// separators, reproduces every input document's paragraph stream in
	// document order. The merged strategy carries no textual overlap, so
	// each paragraph appears exactly once.
	c := MustNew(Config{ChunkSize: 120, Overlap: 20})

	docs := []source.Document{
		{
			Text: "alpha opens the first document\n\nalpha continues with more words\n\nalpha closes the first document",
			Meta: source.Metadata{Title: "Alpha", URL: "https://a.example"},
		},
		{
			Text: "beta has a shorter stream\n\nbeta wraps up quickly",
			Meta: source.Metadata{Title: "Beta", URL: "https://b.example"},
		},
		{
			Text: "gamma begins the last document\n\ngamma carries on for a while longer\n\ngamma finishes the batch",
			Meta: source.Metadata{Title: "Gamma", URL: "https://c.example"},
		},
	}

	var want []string
	total := 0
	for _, doc := range docs {
		want = append(want, splitParagraphs(doc.Text)...)
		total += len(doc.Text)
	}
	// Aggregate length sits above the single-chunk budget and below the
	// independent threshold, forcing the merged strategy.
	require.Greater(t, total+(len(docs)-1)*separatorEstimate, c.Config().ChunkSize)
	require.LessOrEqual(t, total, 5*c.Config().ChunkSize)

	chunks := c.ChunkBatch(docs)
	require.Greater(t, len(chunks), 1)

	var got []string
	for _, ch := range chunks {
		for _, p := range strings.Split(ch.Text, paragraphJoin) {
			if strings.HasPrefix(p, "--- SOURCE: ") {
				continue
			}
			got = append(got, p)
		}
	}
	assert.Equal(t, want, got)
}

func TestChunker_ChunkBatch_MergedDeduplicatesByURL(t *testing.T) {
	c := MustNew(Config{ChunkSize: 200, Overlap: 20})

	meta := source.Metadata{Title: "Mirror", URL: "https://mirror.example"}
	docs := []source.Document{
		{Text: strings.Repeat("m", 80), Meta: meta},
		{Text: strings.Repeat("n", 80), Meta: meta},
	}
	// 160 chars plus the separator estimate exceeds the budget, so the
	// merged stream runs; both documents share a URL.

	chunks := c.ChunkBatch(docs)
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch.Sources), 1, "chunk %d repeated a source", i)
	}
}
