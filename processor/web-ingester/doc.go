// Package webingester provides a NATS consumer component that fetches web
// pages and publishes their readable text as normalized documents.
//
// # Overview
//
// The web-ingester consumes fetch requests, retrieves each page over HTTPS,
// extracts the readable article content, and publishes a DocumentPayload for
// downstream chunking. It implements layered SSRF protection.
//
// # Architecture
//
//   - Component: NATS consumer lifecycle management
//   - Fetcher: HTTP client with SSRF protection and ETag support
//   - Converter: readability extraction with a DOM-pruning fallback
//   - Handler: orchestrates fetching, conversion, and payload creation
//
// # Security
//
// The fetcher blocks non-HTTPS URLs, localhost, local domains, and private
// IPs, re-validates resolved addresses at dial time to defeat DNS rebinding,
// validates every redirect hop, and caps the response body size.
//
// # Usage
//
//	import webingester "github.com/prospectio/prospector/processor/web-ingester"
//
//	func main() {
//	    webingester.Register(registry)
//	    // Component started by the service manager when configured
//	}
package webingester
