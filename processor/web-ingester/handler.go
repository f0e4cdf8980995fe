package webingester

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/prospectio/prospector/source"
	"github.com/prospectio/prospector/source/weburl"
)

// Handler turns fetch requests into normalized document payloads.
type Handler struct {
	fetcher   *Fetcher
	converter *Converter
	logger    *slog.Logger
}

// NewHandler creates a new web ingestion handler.
func NewHandler(fetcher *Fetcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		fetcher:   fetcher,
		converter: NewConverter(),
		logger:    logger,
	}
}

// IngestWebSource fetches a page, extracts its readable text, and builds the
// document payload for downstream chunking.
func (h *Handler) IngestWebSource(ctx context.Context, req FetchRequest) (*DocumentPayload, error) {
	fetchResult, err := h.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	return h.buildDocument(req, fetchResult)
}

// RefreshWebSource re-fetches with ETag support. The bool reports whether the
// content changed; on a 304 the returned payload is nil.
func (h *Handler) RefreshWebSource(ctx context.Context, req FetchRequest, etag string) (*DocumentPayload, bool, error) {
	fetchResult, err := h.fetcher.FetchWithETag(ctx, req.URL, etag)
	if err != nil {
		return nil, false, fmt.Errorf("fetch URL: %w", err)
	}

	if fetchResult.StatusCode == 304 {
		return nil, false, nil
	}

	payload, err := h.buildDocument(req, fetchResult)
	return payload, true, err
}

// buildDocument converts fetched HTML into a DocumentPayload.
func (h *Handler) buildDocument(req FetchRequest, fetchResult *FetchResult) (*DocumentPayload, error) {
	convertResult, err := h.converter.Convert(fetchResult.Body, req.URL)
	if err != nil {
		return nil, fmt.Errorf("convert HTML: %w", err)
	}

	title := convertResult.Title
	if title == "" {
		title = req.Title
	}
	if title == "" {
		if domain := weburl.ExtractDomain(req.URL); domain != "" {
			title = domain
		} else {
			title = req.URL
		}
	}

	payload := &DocumentPayload{
		DocumentID: weburl.GenerateDocumentID(req.URL),
		RequestID:  req.RequestID,
		Document: source.Document{
			Text: convertResult.Text,
			Meta: source.Metadata{
				URL:   req.URL,
				Title: title,
				Query: req.Query,
			},
		},
		ContentHash: contentHash(fetchResult.Body),
		ETag:        fetchResult.ETag,
		FetchedAt:   time.Now(),
	}

	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("empty document from %s: %w", req.URL, err)
	}

	h.logger.Debug("Document built",
		"document_id", payload.DocumentID,
		"title", title,
		"chars", len(convertResult.Text))

	return payload, nil
}

// contentHash computes the SHA256 hash of raw page content.
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
