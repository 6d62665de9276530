// Package extract implements the price-extraction core: locating a price
// element in product page markup via an ordered list of heuristic CSS
// selectors, and normalizing localized price text into a decimal value.
package extract

import "errors"

// ErrPriceNotFound indicates that no selector yielded a parseable price.
// It is returned both by the normalizer (malformed numeric text) and by the
// extractor (no heuristic matched, or the explicit selector's element did not
// contain a number). Callers treat the two identically.
var ErrPriceNotFound = errors.New("price not found")
