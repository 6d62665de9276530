// Package product provides use cases for managing tracked products.
// It implements business logic for registering, updating, deleting, and
// querying products and their price history, including validation and
// interaction with the product and observation repositories.
package product

import "errors"

// Sentinel errors for product use case operations.
var (
	// ErrProductNotFound indicates that the requested product was not found.
	// This error is typically returned when attempting to retrieve, update,
	// or delete a product that does not exist in the repository.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProductURL indicates that the provided product page URL is
	// invalid. Product URLs must be valid HTTP/HTTPS URLs with proper format.
	ErrInvalidProductURL = errors.New("invalid product URL")
)
