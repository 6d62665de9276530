package product

import (
	"context"
	"fmt"
	"log/slog"

	"price-tracker/internal/domain/entity"
	"price-tracker/internal/observability/metrics"
	"price-tracker/internal/repository"

	"github.com/shopspring/decimal"
)

// CreateInput represents the input parameters for registering a new product.
type CreateInput struct {
	Name        string
	URL         string
	TargetPrice decimal.Decimal
	CSSSelector string
}

// UpdateInput represents the input parameters for updating an existing product.
// Empty string fields and nil TargetPrice will not be updated. CSSSelector is a
// pointer so callers can distinguish "leave as is" (nil) from "clear the custom
// selector" (pointer to empty string).
type UpdateInput struct {
	ID          int64
	Name        string
	URL         string
	TargetPrice *decimal.Decimal
	CSSSelector *string
}

// Service provides product management use cases.
// It handles business logic for product operations and delegates persistence
// to the repositories.
type Service struct {
	Repo         repository.ProductRepository
	Observations repository.ObservationRepository
}

// List retrieves all tracked products from the repository.
// Returns an error if the repository operation fails.
func (s *Service) List(ctx context.Context) ([]*entity.Product, error) {
	products, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	metrics.UpdateProductsTotal(len(products))
	return products, nil
}

// Get retrieves a single product by its ID.
// Returns ErrProductNotFound if the product does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	product, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create registers a new product for tracking with the provided input.
// It validates the input data including the page URL format before creating
// the product. Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:        in.Name,
		URL:         in.URL,
		TargetPrice: in.TargetPrice,
		CSSSelector: in.CSSSelector,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	slog.Info("product registered",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("target_price", product.TargetPrice.StringFixed(2)))

	return product, nil
}

// Update modifies an existing product with the provided input.
// Empty string fields and nil pointer fields will not be updated.
// Returns ErrProductNotFound if the product does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Product, error) {
	if in.ID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	product, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.URL != "" {
		product.URL = in.URL
	}
	if in.TargetPrice != nil {
		product.TargetPrice = *in.TargetPrice
	}
	if in.CSSSelector != nil {
		product.CSSSelector = *in.CSSSelector
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product and its entire price history by product ID.
// The repository performs the cascade inside a single transaction.
// Returns ErrProductNotFound if the product does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	product, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	slog.Info("product deleted",
		slog.Int64("product_id", id),
		slog.String("name", product.Name))
	return nil
}

// History retrieves the recorded price observations for a product, newest
// first. limit <= 0 returns the full history.
// Returns ErrProductNotFound if the product does not exist.
func (s *Service) History(ctx context.Context, productID int64, limit int) ([]*entity.PriceObservation, error) {
	if productID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	product, err := s.Repo.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	observations, err := s.Observations.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return observations, nil
}
