// Package monitor orchestrates the price check pipeline for one product:
// fetch the product page, extract the price, persist the observation, and
// evaluate the alert condition.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"price-tracker/internal/domain/entity"
	"price-tracker/internal/observability/metrics"
	"price-tracker/internal/observability/tracing"
	"price-tracker/internal/repository"
	"price-tracker/internal/usecase/alert"
	"price-tracker/internal/usecase/extract"

	"go.opentelemetry.io/otel/attribute"
)

// PageFetcher fetches raw product page markup from a URL.
// Implementations must apply a bounded timeout and a browser-like request
// identity header, and return an error for non-2xx responses.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Service provides the price monitoring use case.
type Service struct {
	ProductRepo     repository.ProductRepository
	ObservationRepo repository.ObservationRepository
	Fetcher         PageFetcher
	Alerts          *alert.Dispatcher
}

// Stats contains the result of one monitoring pass over all products.
type Stats struct {
	Products  int
	Observed  int
	Failed    int
	Triggered int
	Duration  time.Duration
}

// MonitorProduct runs one price check for the given product.
//
// The sequence is fetch → extract → persist → evaluate. A fetch or extraction
// failure is terminal for this run: it is logged, no history row is written,
// and ErrPriceNotFound is returned. No other error escapes that path. The
// observation insert is atomic; on a persistence error nothing is committed
// and the error is returned.
//
// Each call appends a new observation. Prior rows are never mutated or
// deduplicated, and there is no automatic retry.
func (s *Service) MonitorProduct(ctx context.Context, productID int64) (*entity.PriceObservation, error) {
	logger := slog.Default()
	start := time.Now()

	ctx, span := tracing.GetTracer().Start(ctx, "monitor-product")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID))

	product, err := s.ProductRepo.Get(ctx, productID)
	if err != nil {
		metrics.RecordPriceCheck("product_missing", time.Since(start))
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	if product == nil {
		metrics.RecordPriceCheck("product_missing", time.Since(start))
		return nil, ErrProductNotFound
	}

	logger.Info("monitoring product price",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.String("url", product.URL))

	markup, err := s.Fetcher.FetchPage(ctx, product.URL)
	if err != nil {
		logger.Warn("failed to fetch product page",
			slog.Int64("product_id", product.ID),
			slog.String("url", product.URL),
			slog.Any("error", err))
		metrics.RecordPriceCheck("fetch_failed", time.Since(start))
		metrics.RecordExtractionFailure("fetch")
		return nil, fmt.Errorf("fetch %s: %w", product.URL, ErrPriceNotFound)
	}

	price, err := extract.ExtractPrice(markup, product.CSSSelector)
	if err != nil {
		logger.Warn("no price extracted from product page",
			slog.Int64("product_id", product.ID),
			slog.String("url", product.URL),
			slog.Any("error", err))
		metrics.RecordPriceCheck("extraction_failed", time.Since(start))
		metrics.RecordExtractionFailure("no_selector_matched")
		return nil, fmt.Errorf("extract price for product %d: %w", product.ID, ErrPriceNotFound)
	}

	obs := &entity.PriceObservation{
		ProductID:  product.ID,
		Price:      price,
		ObservedAt: time.Now(),
	}
	if err := s.ObservationRepo.Create(ctx, obs); err != nil {
		logger.Error("failed to persist price observation",
			slog.Int64("product_id", product.ID),
			slog.Any("error", err))
		metrics.RecordPriceCheck("persist_failed", time.Since(start))
		return nil, fmt.Errorf("persist observation for product %d: %w", product.ID, err)
	}

	logger.Info("price observation saved",
		slog.Int64("product_id", product.ID),
		slog.String("price", price.StringFixed(2)))
	metrics.RecordPriceCheck("success", time.Since(start))

	if s.Alerts != nil {
		triggered := s.Alerts.EvaluateAndNotify(ctx, product.Name, price, product.TargetPrice, &product.ID)
		span.SetAttributes(attribute.Bool("alert.triggered", triggered))
	}

	return obs, nil
}

// MonitorAll runs one price check for every tracked product, sequentially.
// A failed product does not stop the pass: fetch/extract failures are counted
// and the loop moves on. Only a repository listing error aborts the run.
func (s *Service) MonitorAll(ctx context.Context) (*Stats, error) {
	logger := slog.Default()
	startAll := time.Now()
	stats := &Stats{}

	products, err := s.ProductRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	stats.Products = len(products)
	metrics.UpdateProductsTotal(len(products))

	for _, product := range products {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		obs, err := s.MonitorProduct(ctx, product.ID)
		if err != nil {
			stats.Failed++
			if !errors.Is(err, ErrPriceNotFound) && !errors.Is(err, ErrProductNotFound) {
				logger.Error("price check failed",
					slog.Int64("product_id", product.ID),
					slog.Any("error", err))
			}
			continue
		}

		stats.Observed++
		if obs.Price.LessThanOrEqual(product.TargetPrice) {
			stats.Triggered++
		}
	}

	stats.Duration = time.Since(startAll)
	logger.Info("monitoring pass completed",
		slog.Int("products", stats.Products),
		slog.Int("observed", stats.Observed),
		slog.Int("failed", stats.Failed),
		slog.Int("triggered", stats.Triggered),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}
