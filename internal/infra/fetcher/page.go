package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"price-tracker/internal/resilience/circuitbreaker"
)

// HTTPPageFetcher implements the monitor.PageFetcher interface. It downloads
// raw product page markup so the extraction layer can run its CSS selector
// heuristics over the full document.
//
// Features:
//   - SSRF prevention via URL validation
//   - Circuit breaker for fault tolerance
//   - Size limiting to prevent memory exhaustion
//   - Timeout protection against slow servers
//   - Redirect validation for security
//
// Thread safety: HTTPPageFetcher is safe for concurrent use.
type HTTPPageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         PageFetchConfig
}

// NewHTTPPageFetcher creates a new HTTPPageFetcher with the given configuration.
func NewHTTPPageFetcher(config PageFetchConfig) *HTTPPageFetcher {
	cb := circuitbreaker.New(circuitbreaker.PageFetchConfig())

	fetcher := &HTTPPageFetcher{
		circuitBreaker: cb,
		config:         config,
	}

	// Each redirect target is revalidated so a safe URL cannot bounce the
	// request into a private network.
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	fetcher.client = client
	return fetcher
}

// FetchPage downloads the product page at the given URL and returns its raw
// markup. The URL is validated for SSRF before the request, the request runs
// through the circuit breaker, and the body read is capped at MaxBodySize.
// Any non-200 response is an error.
func (f *HTTPPageFetcher) FetchPage(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (f *HTTPPageFetcher) doFetch(ctx context.Context, urlStr string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		// Redirect validation errors come wrapped in *url.Error.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	// Read response body with size limit
	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	markup, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(markup)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size %d bytes exceeds limit %d bytes",
			ErrBodyTooLarge, len(markup), f.config.MaxBodySize)
	}

	return string(markup), nil
}
