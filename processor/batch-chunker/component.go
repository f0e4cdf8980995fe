package batchchunker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/prospectio/prospector/metric"
	"github.com/prospectio/prospector/source/chunker"
)

// batchChunkerSchema defines the configuration schema.
var batchChunkerSchema = component.GenerateConfigSchema(reflect.TypeOf(Config{}))

// Component implements the batch-chunker processor.
type Component struct {
	name       string
	config     Config
	natsClient *natsclient.Client
	logger     *slog.Logger
	platform   component.PlatformMeta
	chunks     *chunker.Chunker
	metrics    *metric.Metrics

	// Lifecycle management
	running   bool
	startTime time.Time
	mu        sync.RWMutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// Metrics
	batchesProcessed atomic.Int64
	chunksPublished  atomic.Int64
	errors           atomic.Int64
	lastActivityMu   sync.RWMutex
	lastActivity     time.Time
}

// NewComponent creates a new batch-chunker processor component. Chunking
// parameters are validated here; a misconfigured component never starts.
func NewComponent(rawConfig json.RawMessage, deps component.Dependencies) (component.Discoverable, error) {
	var config Config
	if err := json.Unmarshal(rawConfig, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Use default config if ports not set
	if config.Ports == nil {
		config = DefaultConfig()
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	metrics := metric.New()
	reporter := newPipelineReporter(deps.GetLogger(), metrics)

	chunks, err := chunker.NewWithLimits(
		chunker.Config{
			ChunkSize: config.ChunkSize,
			Overlap:   config.Overlap,
		},
		chunker.Limits{
			MaxDocumentChars:    config.MaxDocumentChars,
			MaxMergedParagraphs: config.MaxMergedParagraphs,
			MaxSoloParagraphs:   config.MaxSoloParagraphs,
		},
		reporter,
	)
	if err != nil {
		return nil, fmt.Errorf("create chunker: %w", err)
	}

	c := &Component{
		name:       "batch-chunker",
		config:     config,
		natsClient: deps.NATSClient,
		logger:     deps.GetLogger(),
		platform:   deps.Platform,
		chunks:     chunks,
		metrics:    metrics,
	}

	return c, nil
}

// Initialize prepares the component.
func (c *Component) Initialize() error {
	return nil
}

// Start begins processing document batches.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("component already running")
	}
	if c.natsClient == nil {
		c.mu.Unlock()
		return fmt.Errorf("NATS client required")
	}
	c.running = true
	c.startTime = time.Now()
	c.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consumeMessages(runCtx)
	}()

	c.logger.Info("Batch chunker started",
		"stream", c.config.StreamName,
		"consumer", c.config.ConsumerName,
		"chunk_size", c.config.ChunkSize,
		"overlap", c.config.Overlap)

	return nil
}

// consumeMessages processes incoming document batches.
func (c *Component) consumeMessages(ctx context.Context) {
	js, err := c.natsClient.JetStream()
	if err != nil {
		c.logger.Error("Failed to get JetStream context", "error", err)
		return
	}

	consumer, err := js.Consumer(ctx, c.config.StreamName, c.config.ConsumerName)
	if err != nil {
		c.logger.Error("Failed to get consumer", "error", err, "stream", c.config.StreamName, "consumer", c.config.ConsumerName)
		return
	}

	c.logger.Info("Consumer connected", "stream", c.config.StreamName, "consumer", c.config.ConsumerName)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue // Timeout, try again
		}

		for msg := range msgs.Messages() {
			select {
			case <-ctx.Done():
				_ = msg.Nak()
				for remaining := range msgs.Messages() {
					_ = remaining.Nak()
				}
				return
			default:
				c.handleMessage(ctx, msg)
			}
		}
	}
}

// handleMessage processes a single document batch.
func (c *Component) handleMessage(ctx context.Context, msg jetstream.Msg) {
	c.updateLastActivity()

	var batch DocumentBatchPayload
	if err := json.Unmarshal(msg.Data(), &batch); err != nil {
		c.logger.Warn("Failed to parse document batch", "error", err)
		c.errors.Add(1)
		_ = msg.Nak()
		return
	}
	if batch.BatchID == "" {
		batch.BatchID = uuid.NewString()
	}

	records := c.processBatch(batch)

	for _, record := range records {
		if err := c.publishRecord(ctx, record); err != nil {
			c.logger.Error("Failed to publish chunk record",
				"batch_id", record.BatchID,
				"chunk_index", record.Chunk.Index,
				"error", err)
			c.errors.Add(1)
			_ = msg.Nak()
			return
		}
		c.chunksPublished.Add(1)
	}

	c.batchesProcessed.Add(1)
	c.metrics.BatchesProcessed.Inc()
	_ = msg.Ack()

	c.logger.Info("Batch chunked",
		"batch_id", batch.BatchID,
		"documents", len(batch.Documents),
		"chunks", len(records))
}

// processBatch runs the aggregation and wraps each chunk in a record payload.
func (c *Component) processBatch(batch DocumentBatchPayload) []*ChunkRecordPayload {
	chunks := c.chunks.ChunkBatch(batch.Documents)
	if len(chunks) > 0 {
		c.metrics.ChunksProduced.Add(float64(len(chunks)))
	}

	now := time.Now()
	records := make([]*ChunkRecordPayload, len(chunks))
	for i, chunk := range chunks {
		records[i] = &ChunkRecordPayload{
			BatchID:    batch.BatchID,
			Chunk:      chunk,
			ProducedAt: now,
		}
	}
	return records
}

// publishRecord wraps a ChunkRecordPayload and publishes it downstream.
func (c *Component) publishRecord(ctx context.Context, record *ChunkRecordPayload) error {
	msg := message.NewBaseMessage(ChunkRecordType, record, "prospector")
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chunk record message: %w", err)
	}
	return c.natsClient.PublishToStream(ctx, c.config.OutputSubject, data)
}

// updateLastActivity safely updates the last activity timestamp.
func (c *Component) updateLastActivity() {
	c.lastActivityMu.Lock()
	c.lastActivity = time.Now()
	c.lastActivityMu.Unlock()
}

// getLastActivity safely retrieves the last activity timestamp.
func (c *Component) getLastActivity() time.Time {
	c.lastActivityMu.RLock()
	defer c.lastActivityMu.RUnlock()
	return c.lastActivity
}

// Stop gracefully stops the component within the given timeout.
func (c *Component) Stop(timeout time.Duration) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(timeout):
		err = fmt.Errorf("stop timed out after %v", timeout)
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	c.logger.Info("Batch chunker stopped",
		"batches_processed", c.batchesProcessed.Load(),
		"chunks_published", c.chunksPublished.Load(),
		"errors", c.errors.Load())

	return err
}

// Discoverable interface implementation

// Meta returns component metadata.
func (c *Component) Meta() component.Metadata {
	return component.Metadata{
		Name:        "batch-chunker",
		Type:        "processor",
		Description: "Document batch aggregator producing chunk records",
		Version:     "0.1.0",
	}
}

// InputPorts returns configured input port definitions.
func (c *Component) InputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Inputs))
	for i, portDef := range c.config.Ports.Inputs {
		ports[i] = buildPort(portDef, component.DirectionInput)
	}
	return ports
}

// OutputPorts returns configured output port definitions.
func (c *Component) OutputPorts() []component.Port {
	if c.config.Ports == nil {
		return []component.Port{}
	}

	ports := make([]component.Port, len(c.config.Ports.Outputs))
	for i, portDef := range c.config.Ports.Outputs {
		ports[i] = buildPort(portDef, component.DirectionOutput)
	}
	return ports
}

// buildPort creates a component.Port from a PortDefinition.
func buildPort(portDef component.PortDefinition, direction component.Direction) component.Port {
	port := component.Port{
		Name:        portDef.Name,
		Direction:   direction,
		Required:    portDef.Required,
		Description: portDef.Description,
	}
	if portDef.Type == "jetstream" {
		port.Config = component.JetStreamPort{
			StreamName: portDef.StreamName,
			Subjects:   []string{portDef.Subject},
		}
	} else {
		port.Config = component.NATSPort{
			Subject: portDef.Subject,
		}
	}
	return port
}

// ConfigSchema returns the configuration schema.
func (c *Component) ConfigSchema() component.ConfigSchema {
	return batchChunkerSchema
}

// Health returns the current health status.
func (c *Component) Health() component.HealthStatus {
	c.mu.RLock()
	running := c.running
	startTime := c.startTime
	c.mu.RUnlock()

	return component.HealthStatus{
		Healthy:    running,
		LastCheck:  time.Now(),
		ErrorCount: int(c.errors.Load()),
		Uptime:     time.Since(startTime),
		Status:     c.getStatusString(running),
	}
}

// getStatusString returns a status string based on running state.
func (c *Component) getStatusString(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}

// DataFlow returns current data flow metrics.
func (c *Component) DataFlow() component.FlowMetrics {
	return component.FlowMetrics{
		MessagesPerSecond: 0,
		BytesPerSecond:    0,
		ErrorRate:         0,
		LastActivity:      c.getLastActivity(),
	}
}
