// Package weburl validates web URLs before fetching and derives document IDs
// from them. Validation prevents SSRF: only public HTTPS hosts pass.
package weburl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// Reserved ranges not covered by the net.IP helpers, parsed once.
var (
	cgnat    *net.IPNet // 100.64.0.0/10
	v6unique *net.IPNet // fc00::/7
	v6link   *net.IPNet // fe80::/10
)

// documentIDPattern bounds the character set of document IDs so they are
// safe to embed in NATS subjects.
var documentIDPattern = regexp.MustCompile(`^doc\.web\.[a-z0-9-]+$`)

func init() {
	for _, c := range []struct {
		cidr string
		dst  **net.IPNet
	}{
		{"100.64.0.0/10", &cgnat},
		{"fc00::/7", &v6unique},
		{"fe80::/10", &v6link},
	} {
		_, ipnet, err := net.ParseCIDR(c.cidr)
		if err != nil {
			panic("invalid reserved CIDR " + c.cidr + ": " + err.Error())
		}
		*c.dst = ipnet
	}
}

// ValidateURL rejects URLs that a fetcher must not touch: non-HTTPS schemes,
// localhost variants, local-only domains, and literal private IPs. Hostnames
// that resolve to private IPs are caught later at dial time.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("URL has no host")
	}

	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// IsPrivateIP reports whether ip belongs to a private or reserved range,
// including IPv4-mapped IPv6 forms (::ffff:x.x.x.x).
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}

	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}

// GenerateDocumentID derives a stable, readable document ID from a URL.
// The format is "doc.web.<slug>" with the slug built from the host and path.
// URLs with a query string get a short hash suffix so distinct result pages
// on the same path do not collide.
func GenerateDocumentID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		// Unparseable input still needs a deterministic ID.
		sum := sha256.Sum256([]byte(rawURL))
		return "doc.web." + hex.EncodeToString(sum[:8])
	}

	slug := strings.ReplaceAll(parsed.Hostname(), ".", "-")
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		slug += "-" + strings.ReplaceAll(path, "/", "-")
	}

	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '-'
	}, strings.ToLower(slug))

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > 80 {
		slug = strings.TrimRight(slug[:80], "-")
	}

	if parsed.RawQuery != "" {
		sum := sha256.Sum256([]byte(parsed.RawQuery))
		slug += "-" + hex.EncodeToString(sum[:4])
	}

	return "doc.web." + slug
}

// ValidateDocumentID reports whether id has the expected "doc.web.<slug>"
// shape. IDs from untrusted input must pass this before use in a subject.
func ValidateDocumentID(id string) bool {
	return documentIDPattern.MatchString(id)
}

// ExtractDomain returns the hostname of a URL, or "" when it cannot be
// parsed.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
