package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/prospectio/prospector/source"
)

// pageSeparator keeps page boundaries visible to the paragraph splitter.
const pageSeparator = "\n\n"

// PDFParser extracts plain text from PDF documents.
type PDFParser struct{}

// NewPDFParser creates a new PDF parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse extracts text page by page. Pages that fail to parse are skipped;
// an image-only PDF yields an error rather than an empty document.
func (p *PDFParser) Parse(filename string, content []byte) (source.Document, error) {
	reader, err := pdf.NewReader(newBytesReaderAt(content), int64(len(content)))
	if err != nil {
		return source.Document{}, fmt.Errorf("open PDF: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if text != "" {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(pageSeparator)
			}
			textBuilder.WriteString(text)
		}
	}

	extracted := textBuilder.String()
	if strings.TrimSpace(extracted) == "" {
		return source.Document{}, fmt.Errorf("no text content in PDF %s (%d pages)", filepath.Base(filename), numPages)
	}

	return source.Document{
		Text: extracted,
		Meta: source.Metadata{Title: filepath.Base(filename)},
	}, nil
}

// CanParse returns true if this parser can handle the given MIME type.
func (p *PDFParser) CanParse(mimeType string) bool {
	return mimeType == "application/pdf"
}

// MimeType returns the primary MIME type for this parser.
func (p *PDFParser) MimeType() string {
	return "application/pdf"
}

// bytesReaderAt implements io.ReaderAt for a byte slice; the pdf library
// needs random access.
type bytesReaderAt struct {
	data []byte
}

func newBytesReaderAt(data []byte) *bytesReaderAt {
	return &bytesReaderAt{data: data}
}

func (r *bytesReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
