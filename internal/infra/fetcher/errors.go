// Package fetcher provides the HTTP implementation of the page fetcher used
// by the price monitor. It downloads raw product page markup with bounded
// timeouts, size limits, and SSRF protection.
package fetcher

import "errors"

// Sentinel errors for page fetching operations.
var (
	// ErrInvalidURL indicates that the product URL is malformed or uses a
	// scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates that the URL hostname resolves to a private,
	// loopback, or link-local address.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTimeout indicates that the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrBodyTooLarge indicates that the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects indicates that the redirect limit was exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
)
