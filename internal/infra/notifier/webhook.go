// Package notifier provides the alert sink implementations: webhook, log
// file, SMTP email, and a no-op sink for when alerting is disabled. Every
// sink satisfies the alert.Sink interface, so the dispatcher can fan out to
// any combination of them.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"price-tracker/internal/resilience/circuitbreaker"
	"price-tracker/internal/resilience/retry"
	"price-tracker/internal/usecase/alert"
)

// WebhookConfig contains configuration for webhook alert delivery.
type WebhookConfig struct {
	// Enabled indicates whether webhook alerts are enabled
	Enabled bool

	// WebhookURL is the Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for webhook calls
	Timeout time.Duration
}

// WebhookSink delivers price alerts to a Slack-compatible Incoming Webhook.
type WebhookSink struct {
	config         WebhookConfig
	httpClient     *http.Client
	rateLimiter    *RateLimiter
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewWebhookSink creates a new WebhookSink with the specified configuration.
//
// The sink is initialized with:
//   - HTTP client with configured timeout
//   - Rate limiter set to 1 request/second with burst of 1
//     (Slack Webhook limit: 1 message per second)
//   - Circuit breaker so a dead webhook endpoint fails fast
func NewWebhookSink(config WebhookConfig) *WebhookSink {
	return &WebhookSink{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter:    NewRateLimiter(1.0, 1), // 1 req/s, burst of 1
		circuitBreaker: circuitbreaker.New(circuitbreaker.WebhookConfig()),
	}
}

// Name implements the alert.Sink interface.
func (s *WebhookSink) Name() string { return "webhook" }

// webhookPayload represents the JSON payload sent to the webhook using
// Slack Block Kit formatting.
type webhookPayload struct {
	Text   string         `json:"text"`   // Fallback text (required)
	Blocks []webhookBlock `json:"blocks"` // Rich formatting blocks
}

type webhookBlock struct {
	Type     string              `json:"type"`               // "section", "context"
	Text     *webhookTextObject  `json:"text,omitempty"`     // Text content (for section)
	Elements []webhookTextObject `json:"elements,omitempty"` // Elements (for context)
}

type webhookTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxFallbackLength    = 150
	truncationSuffix     = "..."
)

// buildPayload creates a webhook payload from a price alert.
//
// The payload includes:
//   - Text: Fallback text for notifications (product + price)
//   - Section Block: Alert headline with current/target price and savings
//   - Context Block: Trigger timestamp
func (s *WebhookSink) buildPayload(a alert.Alert) webhookPayload {
	fallbackText := fmt.Sprintf("%s dropped to %s", a.ProductName, a.CurrentPrice.StringFixed(2))
	fallbackText = truncateText(fallbackText, maxFallbackLength, truncationSuffix)

	sectionText := fmt.Sprintf("*ALERTA DE PREÇO: %s*\nCurrent price: %s\nTarget price: %s\nSavings: %s",
		a.ProductName,
		a.CurrentPrice.StringFixed(2),
		a.TargetPrice.StringFixed(2),
		a.Savings().StringFixed(2))
	sectionText = truncateText(sectionText, maxSectionTextLength, truncationSuffix)

	contextText := a.TriggeredAt.Format(time.RFC3339)

	return webhookPayload{
		Text: fallbackText,
		Blocks: []webhookBlock{
			{
				Type: "section",
				Text: &webhookTextObject{Type: "mrkdwn", Text: sectionText},
			},
			{
				Type: "context",
				Elements: []webhookTextObject{
					{Type: "mrkdwn", Text: contextText},
				},
			},
		},
	}
}

// sendRequest performs a single webhook POST. Non-2xx responses become
// retry.HTTPError so the retry layer can tell transient failures apart
// from permanent ones.
func (s *WebhookSink) sendRequest(ctx context.Context, a alert.Alert) error {
	payload := s.buildPayload(a)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("webhook error: %s", string(body)),
	}
}

// Notify implements the alert.Sink interface. It applies rate limiting,
// then sends the webhook request through the circuit breaker with retry
// for transient failures (5xx, 429, network errors).
func (s *WebhookSink) Notify(ctx context.Context, a alert.Alert) error {
	if !s.config.Enabled {
		return nil
	}

	if err := s.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	_, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, retry.WithBackoff(ctx, retry.WebhookConfig(), func() error {
			return s.sendRequest(ctx, a)
		})
	})
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}

	slog.Info("webhook alert delivered",
		slog.String("product", a.ProductName),
		slog.String("current_price", a.CurrentPrice.StringFixed(2)))
	return nil
}

// truncateText truncates text to maxLength characters.
// If truncated, appends suffix to indicate continuation.
func truncateText(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}

	truncateAt := maxLength - len(suffix)
	if truncateAt < 0 {
		truncateAt = 0
	}
	return text[:truncateAt] + suffix
}
