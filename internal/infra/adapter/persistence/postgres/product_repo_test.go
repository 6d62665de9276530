package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"price-tracker/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return mockDB, mock
}

func productColumns() []string {
	return []string{"id", "name", "url", "target_price", "css_selector", "created_at", "updated_at"}
}

func TestProductRepo_Get(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)
	now := time.Now()

	rows := sqlmock.NewRows(productColumns()).
		AddRow(1, "Samsung Galaxy S23", "https://example.com/galaxy", "2500.00", ".price", now, now)
	mock.ExpectQuery(`SELECT id, name, url, target_price, css_selector, created_at, updated_at\s+FROM products\s+WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	product, err := repo.Get(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "Samsung Galaxy S23", product.Name)
	assert.True(t, product.TargetPrice.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, ".price", product.CSSSelector)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Get_notFound(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectQuery(`SELECT .+ FROM products`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	product, err := repo.Get(context.Background(), 99)

	// not-found は (nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductRepo_Get_nullSelector(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)
	now := time.Now()

	rows := sqlmock.NewRows(productColumns()).
		AddRow(2, "iPhone 15 Pro", "https://example.com/iphone", "7000.00", nil, now, now)
	mock.ExpectQuery(`SELECT .+ FROM products`).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	product, err := repo.Get(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "", product.CSSSelector)
}

func TestProductRepo_List(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)
	now := time.Now()

	rows := sqlmock.NewRows(productColumns()).
		AddRow(1, "A", "https://example.com/a", "10.00", nil, now, now).
		AddRow(2, "B", "https://example.com/b", "20.00", ".preco", now, now)
	mock.ExpectQuery(`SELECT .+ FROM products\s+ORDER BY created_at ASC`).
		WillReturnRows(rows)

	products, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, ".preco", products[1].CSSSelector)
}

func TestProductRepo_List_queryError(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectQuery(`SELECT .+ FROM products`).
		WillReturnError(errors.New("connection refused"))

	products, err := repo.List(context.Background())

	assert.Error(t, err)
	assert.Nil(t, products)
}

func TestProductRepo_Create(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO products \(name, url, target_price, css_selector\)`).
		WithArgs("Samsung Galaxy S23", "https://example.com/galaxy", decimalArg("2500.00"), sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	product := &entity.Product{
		Name:        "Samsung Galaxy S23",
		URL:         "https://example.com/galaxy",
		TargetPrice: decimal.RequireFromString("2500.00"),
	}
	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Update(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectExec(`UPDATE products SET`).
		WithArgs("Renamed", "https://example.com/new", decimalArg("99.90"),
			sql.NullString{String: ".preco", Valid: true}, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &entity.Product{
		ID:          1,
		Name:        "Renamed",
		URL:         "https://example.com/new",
		TargetPrice: decimal.RequireFromString("99.90"),
		CSSSelector: ".preco",
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Update_noRows(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectExec(`UPDATE products SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &entity.Product{
		ID: 99, Name: "X", URL: "https://example.com/x",
		TargetPrice: decimal.RequireFromString("1.00"),
	})

	assert.Error(t, err)
}

// Delete cascades over price_history inside one transaction.
func TestProductRepo_Delete(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM price_history WHERE product_id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Delete_missingProductRollsBack(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM price_history WHERE product_id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Delete_historyErrorRollsBack(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewProductRepo(mockDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM price_history WHERE product_id = \$1`).
		WithArgs(int64(1)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// decimalArg matches a decimal.Decimal argument by value.
type decimalMatcher struct{ want decimal.Decimal }

func decimalArg(s string) sqlmock.Argument {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func (m decimalMatcher) Match(v driver.Value) bool {
	switch d := v.(type) {
	case decimal.Decimal:
		return m.want.Equal(d)
	case string:
		got, err := decimal.NewFromString(d)
		return err == nil && m.want.Equal(got)
	default:
		return false
	}
}
