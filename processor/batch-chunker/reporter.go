package batchchunker

import (
	"log/slog"

	"github.com/prospectio/prospector/metric"
	"github.com/prospectio/prospector/source"
)

// pipelineReporter surfaces chunking policy events as structured logs and
// Prometheus counters.
type pipelineReporter struct {
	logger  *slog.Logger
	metrics *metric.Metrics
}

func newPipelineReporter(logger *slog.Logger, metrics *metric.Metrics) *pipelineReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &pipelineReporter{logger: logger, metrics: metrics}
}

// DocumentTruncated implements chunker.Reporter.
func (r *pipelineReporter) DocumentTruncated(meta source.Metadata, originalChars, keptChars int) {
	r.logger.Warn("Document truncated before chunking",
		"url", meta.URL,
		"title", meta.Title,
		"original_chars", originalChars,
		"kept_chars", keptChars)
	if r.metrics != nil {
		r.metrics.DocumentsTruncated.Inc()
	}
}

// ParagraphsCapped implements chunker.Reporter.
func (r *pipelineReporter) ParagraphsCapped(meta source.Metadata, totalParagraphs, keptParagraphs int) {
	r.logger.Warn("Document paragraphs capped",
		"url", meta.URL,
		"title", meta.Title,
		"total_paragraphs", totalParagraphs,
		"kept_paragraphs", keptParagraphs)
	if r.metrics != nil {
		r.metrics.ParagraphsCapped.Inc()
	}
}
