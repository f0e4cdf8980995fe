// Package weburl validates web URLs and generates document IDs.
//
// # URL Validation
//
// ValidateURL guards the fetch path against SSRF. A URL passes only when it
// uses HTTPS and its host is not localhost, a .local or .internal domain, or
// a literal private IP. IsPrivateIP covers the RFC 1918 ranges, loopback,
// link-local, CGNAT (100.64.0.0/10), IPv6 unique local (fc00::/7), IPv6
// link-local (fe80::/10), and IPv4-mapped IPv6 addresses. Validation here is
// syntactic; hosts that resolve to private addresses are rejected by the
// fetcher's dial-time check.
//
// # Document IDs
//
// GenerateDocumentID maps a URL to a deterministic ID:
//
//	https://example.com/pricing/plans → doc.web.example-com-pricing-plans
//
// Slugs are lowercase, hyphen-separated, and capped at 80 characters. A URL
// with a query string gains a short hash suffix so search result pages that
// differ only in parameters stay distinct. ValidateDocumentID checks the
// "doc.web.<slug>" shape before an ID is embedded in a NATS subject.
package weburl
