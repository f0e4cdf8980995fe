// Package export serializes chunk records for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prospectio/prospector/source"
)

// WriteChunks serializes chunks to w in the given format. The chunk order is
// preserved in every format.
func WriteChunks(w io.Writer, format Format, chunks []source.Chunk) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, chunks)
	case FormatJSONL:
		return writeJSONL(w, chunks)
	case FormatCSV:
		return writeCSV(w, chunks)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSON(w io.Writer, chunks []source.Chunk) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(chunks); err != nil {
		return fmt.Errorf("encoding chunks as JSON: %w", err)
	}
	return nil
}

func writeJSONL(w io.Writer, chunks []source.Chunk) error {
	enc := json.NewEncoder(w)
	for i, chunk := range chunks {
		if err := enc.Encode(chunk); err != nil {
			return fmt.Errorf("encoding chunk %d: %w", i, err)
		}
	}
	return nil
}

// csvHeader is the column order for CSV export. Source titles and URLs are
// flattened into semicolon-separated lists.
var csvHeader = []string{"chunk_index", "total_chunks", "chars", "source_titles", "source_urls", "text"}

func writeCSV(w io.Writer, chunks []source.Chunk) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, chunk := range chunks {
		titles := make([]string, len(chunk.Sources))
		urls := make([]string, len(chunk.Sources))
		for j, meta := range chunk.Sources {
			titles[j], urls[j] = meta.Label()
		}
		record := []string{
			strconv.Itoa(chunk.Index),
			strconv.Itoa(chunk.Total),
			strconv.Itoa(len(chunk.Text)),
			strings.Join(titles, ";"),
			strings.Join(urls, ";"),
			chunk.Text,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
