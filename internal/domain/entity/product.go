// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business objects such as Product and
// PriceObservation, along with their validation rules and domain-specific errors.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a tracked e-commerce product.
// It carries the page URL to scrape, the user-defined target price that
// triggers alerts, and an optional custom CSS selector for pages where the
// heuristic price selectors do not apply.
type Product struct {
	ID          int64
	Name        string
	URL         string
	TargetPrice decimal.Decimal
	CSSSelector string // optional; empty means "use heuristic selectors"
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks that the product carries everything required for tracking.
// Returns a ValidationError describing the first invalid field.
func (p *Product) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(p.Name) > maxNameLength {
		return &ValidationError{Field: "name", Message: "is too long"}
	}
	if err := ValidateURL(p.URL); err != nil {
		return err
	}
	if p.TargetPrice.IsNegative() {
		return &ValidationError{Field: "target_price", Message: "must not be negative"}
	}
	return nil
}
