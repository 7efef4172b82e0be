package search

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"
)

// Result is one discovered candidate link.
type Result struct {
	URL         string
	Title       string
	Description string
	Category    string
	SourceQuery string
	FoundAt     time.Time

	// Derived fields, computed once at construction time.
	Domain       string
	CanonicalURL string
	ContentHash  string
}

// NewResult builds a Result and computes its derived fields. foundAt should
// be monotone across a single Memory's lifetime — callers pass the current
// instant explicitly so insertion order stays reproducible in tests.
func NewResult(rawURL, title, description, category, sourceQuery string, foundAt time.Time) Result {
	r := Result{
		URL:         rawURL,
		Title:       title,
		Description: description,
		Category:    category,
		SourceQuery: sourceQuery,
		FoundAt:     foundAt,
	}
	r.Domain = domainOf(rawURL)
	r.CanonicalURL = Canonicalize(rawURL)
	r.ContentHash = ContentHash(title, description)
	return r
}

// Canonicalize normalizes a URL for duplicate-equality comparisons:
// lowercase scheme+host, strip a leading "www.", strip a trailing "/" from
// the path, drop fragment and query. Canonicalize is
// idempotent: Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(rawURL))
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimSuffix(u.Path, "/")

	canon := scheme + "://" + host + path
	return canon
}

// domainOf returns the host with a leading "www." stripped.
func domainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// ContentHash returns a truncated SHA-256 of "lower(title)|lower(description)".
func ContentHash(title, description string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(title) + "|" + strings.ToLower(description)))
	return hex.EncodeToString(sum[:])[:16]
}
