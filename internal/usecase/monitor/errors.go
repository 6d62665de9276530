package monitor

import "errors"

// Sentinel errors for monitor use case operations.
var (
	// ErrProductNotFound indicates that the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrPriceNotFound indicates that the product page could not be fetched
	// or that no price could be extracted from it. No history row is written
	// when this is returned.
	ErrPriceNotFound = errors.New("price not found")
)
