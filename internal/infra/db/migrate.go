package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/products.sql
var seedProductsSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS products (
    id           SERIAL PRIMARY KEY,
    name         TEXT NOT NULL,
    url          TEXT NOT NULL UNIQUE,
    target_price NUMERIC(10,2) NOT NULL,
    css_selector TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS price_history (
    id          SERIAL PRIMARY KEY,
    product_id  INTEGER NOT NULL REFERENCES products(id),
    price       NUMERIC(10,2) NOT NULL,
    observed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// パフォーマンス最適化: インデックス追加
	indexes := []string{
		// 履歴取得は product_id + observed_at DESC で読む
		`CREATE INDEX IF NOT EXISTS idx_price_history_product_observed
		    ON price_history(product_id, observed_at DESC)`,
		// 登録順の一覧表示用
		`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// シードデータの投入(重複は自動的にスキップ)
	if _, err := db.Exec(seedProductsSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown rolls back the database schema.
// This function removes tables and indexes in reverse order of creation.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_price_history_product_observed`,
		`DROP INDEX IF EXISTS idx_products_created_at`,
		`DROP TABLE IF EXISTS price_history`,
		`DROP TABLE IF EXISTS products`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
