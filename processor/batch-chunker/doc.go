// Package batchchunker provides a NATS consumer component that aggregates
// document batches into size-bounded chunk records with source attribution.
//
// # Overview
//
// The batch-chunker consumes document batches, selects an aggregation
// strategy from the batch's total size (independent, combined, or merged),
// and publishes one ChunkRecordPayload per resulting chunk. Every chunk
// carries the metadata of the documents whose text it contains.
//
// # Architecture
//
//   - Component: NATS consumer lifecycle management
//   - chunker.Chunker: paragraph packing, overlap, and batch strategies
//   - pipelineReporter: surfaces truncation and cap events as logs and counters
//
// Chunking parameters (chunk size, overlap, document ceilings) are validated
// when the component is constructed, so a misconfigured pipeline fails before
// it consumes anything.
//
// # Usage
//
//	import batchchunker "github.com/prospectio/prospector/processor/batch-chunker"
//
//	func main() {
//	    batchchunker.Register(registry)
//	    // Component started by the service manager when configured
//	}
package batchchunker
