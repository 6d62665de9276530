package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"price-tracker/internal/domain/entity"
	"price-tracker/internal/observability/metrics"
	"price-tracker/internal/repository"
)

type ObservationRepo struct{ db *sql.DB }

func NewObservationRepo(db *sql.DB) repository.ObservationRepository {
	return &ObservationRepo{db: db}
}

// Create appends one row to the price history. The insert is a single
// statement, so a failure leaves the history exactly as it was.
func (repo *ObservationRepo) Create(ctx context.Context, obs *entity.PriceObservation) error {
	defer func(start time.Time) { metrics.RecordDBQuery("observation.Create", time.Since(start)) }(time.Now())
	const query = `
INSERT INTO price_history (product_id, price, observed_at)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		obs.ProductID, obs.Price, obs.ObservedAt,
	).Scan(&obs.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ObservationRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.PriceObservation, error) {
	defer func(start time.Time) { metrics.RecordDBQuery("observation.ListByProduct", time.Since(start)) }(time.Now())
	// limit <= 0 means the full history; NULL disables the LIMIT clause.
	var limitArg sql.NullInt64
	if limit > 0 {
		limitArg = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	const query = `
SELECT id, product_id, price, observed_at
FROM price_history
WHERE product_id = $1
ORDER BY observed_at DESC, id DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, productID, limitArg)
	if err != nil {
		return nil, fmt.Errorf("ListByProduct: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	observations := make([]*entity.PriceObservation, 0, 50)
	for rows.Next() {
		var obs entity.PriceObservation
		if err := rows.Scan(&obs.ID, &obs.ProductID, &obs.Price, &obs.ObservedAt); err != nil {
			return nil, fmt.Errorf("ListByProduct: %w", err)
		}
		observations = append(observations, &obs)
	}
	return observations, rows.Err()
}

func (repo *ObservationRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	defer func(start time.Time) { metrics.RecordDBQuery("observation.CountByProduct", time.Since(start)) }(time.Now())
	const query = `SELECT COUNT(*) FROM price_history WHERE product_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByProduct: %w", err)
	}
	return count, nil
}
