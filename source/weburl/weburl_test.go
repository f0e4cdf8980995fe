package weburl

import (
	"net"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://example.com/pricing",
			wantErr: false,
		},
		{
			name:    "http URL rejected",
			url:     "http://example.com",
			wantErr: true,
		},
		{
			name:    "missing host rejected",
			url:     "https:///just-a-path",
			wantErr: true,
		},
		{
			name:    "localhost rejected",
			url:     "https://localhost:8443",
			wantErr: true,
		},
		{
			name:    "loopback IP rejected",
			url:     "https://127.0.0.1/admin",
			wantErr: true,
		},
		{
			name:    ".local domain rejected",
			url:     "https://nas.local/share",
			wantErr: true,
		},
		{
			name:    ".internal domain rejected",
			url:     "https://billing.internal/api",
			wantErr: true,
		},
		{
			name:    "private 192.168 rejected",
			url:     "https://192.168.1.10/",
			wantErr: true,
		},
		{
			name:    "private 10.x rejected",
			url:     "https://10.1.2.3/",
			wantErr: true,
		},
		{
			name:    "CGNAT range rejected",
			url:     "https://100.64.0.5/",
			wantErr: true,
		},
		{
			name:    "uppercase host still caught",
			url:     "https://LOCALHOST/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.0.1", true},
		{"127.0.0.1", true},
		{"169.254.1.1", true},
		{"100.64.0.1", true},
		{"100.127.255.255", true},
		{"::1", true},
		{"fc00::1", true},
		{"fe80::1", true},
		{"2001:4860:4860::8888", false},
		{"::ffff:192.168.1.1", true},
		{"::ffff:8.8.8.8", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP %q", tt.ip)
			}
			if got := IsPrivateIP(ip); got != tt.want {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestGenerateDocumentID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "host only",
			url:  "https://example.com",
			want: "doc.web.example-com",
		},
		{
			name: "host and path",
			url:  "https://example.com/pricing/plans",
			want: "doc.web.example-com-pricing-plans",
		},
		{
			name: "trailing slash ignored",
			url:  "https://example.com/about/",
			want: "doc.web.example-com-about",
		},
		{
			name: "uppercase and symbols normalized",
			url:  "https://Example.com/Some_Page",
			want: "doc.web.example-com-some-page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateDocumentID(tt.url); got != tt.want {
				t.Errorf("GenerateDocumentID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestGenerateDocumentID_Deterministic(t *testing.T) {
	url := "https://example.com/search?q=widgets&page=2"
	a := GenerateDocumentID(url)
	b := GenerateDocumentID(url)
	if a != b {
		t.Errorf("same URL produced different IDs: %q vs %q", a, b)
	}
	if !ValidateDocumentID(a) {
		t.Errorf("generated ID %q failed validation", a)
	}
}

func TestGenerateDocumentID_QueryDisambiguation(t *testing.T) {
	base := GenerateDocumentID("https://example.com/search?q=alpha")
	other := GenerateDocumentID("https://example.com/search?q=beta")
	if base == other {
		t.Errorf("different queries produced the same ID: %q", base)
	}
	if !strings.HasPrefix(other, "doc.web.example-com-search-") {
		t.Errorf("unexpected ID shape: %q", other)
	}
}

func TestGenerateDocumentID_LongPathTruncated(t *testing.T) {
	url := "https://example.com/" + strings.Repeat("segment/", 30)
	id := GenerateDocumentID(url)
	slug := strings.TrimPrefix(id, "doc.web.")
	if len(slug) > 80 {
		t.Errorf("slug length = %d, want <= 80", len(slug))
	}
	if !ValidateDocumentID(id) {
		t.Errorf("truncated ID %q failed validation", id)
	}
}

func TestValidateDocumentID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid", "doc.web.example-com", true},
		{"valid with digits", "doc.web.example-com-page-2", true},
		{"wrong prefix", "source.web.example-com", false},
		{"uppercase rejected", "doc.web.Example-Com", false},
		{"subject injection rejected", "doc.web.foo.>", false},
		{"empty slug rejected", "doc.web.", false},
		{"spaces rejected", "doc.web.foo bar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateDocumentID(tt.id); got != tt.want {
				t.Errorf("ValidateDocumentID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/path", "example.com"},
		{"https://sub.example.com:8443/x", "sub.example.com"},
		{"not a url at all\x00", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.url); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
