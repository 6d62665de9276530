package repository

import (
	"context"

	"price-tracker/internal/domain/entity"
)

type ObservationRepository interface {
	// Create appends one observation to the price history.
	// The insert is a single statement and therefore atomic: either the full
	// row is committed or nothing is.
	Create(ctx context.Context, obs *entity.PriceObservation) error
	// ListByProduct retrieves the price history for a product ordered by
	// observed_at descending (newest first). limit <= 0 returns all rows.
	ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.PriceObservation, error)
	// CountByProduct returns the number of history rows for a product.
	CountByProduct(ctx context.Context, productID int64) (int64, error)
}
