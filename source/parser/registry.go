// Package parser turns local files into documents ready for chunking.
// Parsers are selected by MIME type derived from the file extension.
package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/prospectio/prospector/source"
)

// Parser extracts a document from raw file content.
type Parser interface {
	// Parse extracts the document text and metadata.
	Parse(filename string, content []byte) (source.Document, error)

	// CanParse returns true if this parser handles the given MIME type.
	CanParse(mimeType string) bool

	// MimeType returns the primary MIME type for this parser.
	MimeType() string
}

// Registry manages document parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // keyed by primary MIME type
}

// DefaultRegistry is the global parser registry with default parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a parser registry with the default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
	}

	r.Register(NewMarkdownParser())
	r.Register(NewPDFParser())

	return r
}

// Register adds a parser to the registry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.MimeType()] = p
}

// GetByMimeType returns a parser for the given MIME type, or nil.
func (r *Registry) GetByMimeType(mimeType string) Parser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[mimeType]; ok {
		return p
	}
	for _, p := range r.parsers {
		if p.CanParse(mimeType) {
			return p
		}
	}
	return nil
}

// GetByExtension returns a parser for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Parser {
	return r.GetByMimeType(MimeTypeFromExtension(filepath.Ext(filename)))
}

// Parse extracts a document using the parser matching the filename.
func (r *Registry) Parse(filename string, content []byte) (source.Document, error) {
	parser := r.GetByExtension(filename)
	if parser == nil {
		return source.Document{}, fmt.Errorf("no parser for file type: %s", filepath.Ext(filename))
	}
	return parser.Parse(filename, content)
}

// ParseFile reads and parses a local file. The document URL is the file's
// absolute path in file:// form.
func (r *Registry) ParseFile(path string) (source.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return source.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := r.Parse(path, content)
	if err != nil {
		return source.Document{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	doc.Meta.URL = "file://" + filepath.ToSlash(abs)
	return doc, nil
}

// ListMimeTypes returns all registered primary MIME types.
func (r *Registry) ListMimeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.parsers))
	for t := range r.parsers {
		types = append(types, t)
	}
	return types
}

// MimeTypeFromExtension returns the MIME type for a file extension.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
