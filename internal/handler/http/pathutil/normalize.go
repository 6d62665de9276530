package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/products/\d+/history$`), Template: "/products/:id/history"},
	{Pattern: regexp.MustCompile(`^/products/\d+/monitor$`), Template: "/products/:id/monitor"},
	{Pattern: regexp.MustCompile(`^/products/\d+$`), Template: "/products/:id"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. It converts paths with IDs (e.g., /products/123)
// to template format (e.g., /products/:id). Static paths remain unchanged.
//
// Examples:
//
//	NormalizePath("/products/123")          // "/products/:id"
//	NormalizePath("/products/123/history")  // "/products/:id/history"
//	NormalizePath("/health")                // "/health" (unchanged)
//	NormalizePath("/products/123?limit=5")  // "/products/:id"
func NormalizePath(path string) string {
	// Strip query parameters if present
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	// Strip trailing slash if present (except for root path)
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	// Static paths like /health, /metrics, /auth/token pass through unchanged
	return path
}
