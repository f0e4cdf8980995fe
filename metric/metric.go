// Package metric exposes Prometheus instrumentation for the ingestion and
// chunking pipeline.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the pipeline counters on a private registry so tests and
// embedded deployments never collide with the global default.
type Metrics struct {
	registry *prometheus.Registry

	// DocumentsTruncated counts documents shortened to the truncation
	// ceiling before chunking.
	DocumentsTruncated prometheus.Counter

	// ParagraphsCapped counts documents that lost paragraphs to the
	// per-document paragraph cap.
	ParagraphsCapped prometheus.Counter

	// ChunksProduced counts chunk records emitted across all batches.
	ChunksProduced prometheus.Counter

	// BatchesProcessed counts completed batch aggregations.
	BatchesProcessed prometheus.Counter

	// PagesFetched counts fetch attempts by outcome ("ok" or "error").
	PagesFetched *prometheus.CounterVec
}

// New creates a Metrics instance with all counters registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		DocumentsTruncated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prospector_documents_truncated_total",
			Help: "Documents shortened to the truncation ceiling before chunking.",
		}),
		ParagraphsCapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prospector_paragraphs_capped_total",
			Help: "Documents that exceeded the per-document paragraph cap.",
		}),
		ChunksProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prospector_chunks_produced_total",
			Help: "Chunk records emitted across all batches.",
		}),
		BatchesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "prospector_batches_processed_total",
			Help: "Completed batch aggregations.",
		}),
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_pages_fetched_total",
			Help: "Web page fetch attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.DocumentsTruncated,
		m.ParagraphsCapped,
		m.ChunksProduced,
		m.BatchesProcessed,
		m.PagesFetched,
	)

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint for this
// registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FetchOK records a successful page fetch.
func (m *Metrics) FetchOK() {
	m.PagesFetched.WithLabelValues("ok").Inc()
}

// FetchError records a failed page fetch.
func (m *Metrics) FetchError() {
	m.PagesFetched.WithLabelValues("error").Inc()
}
