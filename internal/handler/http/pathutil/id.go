// Package pathutil provides helpers for working with URL paths: ID
// extraction for REST-style routes and path normalization for metrics.
package pathutil

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts and parses an integer ID from a URL path.
// It removes the specified prefix, drops any trailing sub-path, and parses
// the remaining segment as an int64. IDs must be positive.
//
// Example:
//
//	id, err := ExtractID("/products/123", "/products/")
//	// Returns: 123, nil
//
//	id, err := ExtractID("/products/123/history", "/products/")
//	// Returns: 123, nil
func ExtractID(path, prefix string) (int64, error) {
	idStr := strings.TrimPrefix(path, prefix)
	if idx := strings.IndexByte(idStr, '/'); idx != -1 {
		idStr = idStr[:idx]
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
