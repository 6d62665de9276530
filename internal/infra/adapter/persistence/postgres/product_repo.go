// Package postgres implements the repository interfaces on top of
// PostgreSQL via database/sql and the pgx stdlib driver.
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

type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) repository.ProductRepository {
	return &ProductRepo{db: db}
}

// scanProduct is a helper function to scan a product row including the
// nullable css_selector column.
func scanProduct(rows *sql.Rows) (*entity.Product, error) {
	var product entity.Product
	var selector sql.NullString
	if err := rows.Scan(
		&product.ID, &product.Name, &product.URL, &product.TargetPrice,
		&selector, &product.CreatedAt, &product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	product.CSSSelector = selector.String
	return &product, nil
}

func (repo *ProductRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	defer func(start time.Time) { metrics.RecordDBQuery("product.Get", time.Since(start)) }(time.Now())
	const query = `
SELECT id, name, url, target_price, css_selector, created_at, updated_at
FROM products
WHERE id = $1
LIMIT 1`
	var product entity.Product
	var selector sql.NullString
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.URL, &product.TargetPrice,
		&selector, &product.CreatedAt, &product.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	product.CSSSelector = selector.String
	return &product, nil
}

func (repo *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	defer func(start time.Time) { metrics.RecordDBQuery("product.List", time.Since(start)) }(time.Now())
	const query = `
SELECT id, name, url, target_price, css_selector, created_at, updated_at
FROM products
ORDER BY created_at ASC, id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	products := make([]*entity.Product, 0, 50)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (repo *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	defer func(start time.Time) { metrics.RecordDBQuery("product.Create", time.Since(start)) }(time.Now())
	const query = `
INSERT INTO products (name, url, target_price, css_selector)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		product.Name, product.URL, product.TargetPrice,
		nullableSelector(product.CSSSelector),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	defer func(start time.Time) { metrics.RecordDBQuery("product.Update", time.Since(start)) }(time.Now())
	const query = `
UPDATE products SET
       name         = $1,
       url          = $2,
       target_price = $3,
       css_selector = $4,
       updated_at   = now()
WHERE id = $5`
	res, err := repo.db.ExecContext(ctx, query,
		product.Name, product.URL, product.TargetPrice,
		nullableSelector(product.CSSSelector), product.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

// Delete removes the product and its price history inside one transaction.
// History rows go first so the foreign key never blocks the product delete.
func (repo *ProductRepo) Delete(ctx context.Context, id int64) error {
	defer func(start time.Time) { metrics.RecordDBQuery("product.Delete", time.Since(start)) }(time.Now())
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_history WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("Delete: history: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Delete: commit: %w", err)
	}
	return nil
}

// nullableSelector maps an empty custom selector to SQL NULL.
func nullableSelector(selector string) sql.NullString {
	return sql.NullString{String: selector, Valid: selector != ""}
}
