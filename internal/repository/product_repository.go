// Package repository defines the persistence interfaces for the domain
// entities. Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"price-tracker/internal/domain/entity"
)

type ProductRepository interface {
	// List retrieves all tracked products ordered by creation time.
	List(ctx context.Context) ([]*entity.Product, error)
	// Get retrieves a product by ID. Returns (nil, nil) if not found.
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	// Delete removes a product and its price history inside one transaction.
	// The history rows are deleted explicitly before the product row so the
	// cascade never depends on implicit database behavior.
	Delete(ctx context.Context, id int64) error
}
