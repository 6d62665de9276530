package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"price-tracker/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationRepo_Create(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)
	observedAt := time.Now()

	mock.ExpectQuery(`INSERT INTO price_history \(product_id, price, observed_at\)`).
		WithArgs(int64(1), decimalArg("2399.90"), observedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	obs := &entity.PriceObservation{
		ProductID:  1,
		Price:      decimal.RequireFromString("2399.90"),
		ObservedAt: observedAt,
	}
	err := repo.Create(context.Background(), obs)

	require.NoError(t, err)
	assert.Equal(t, int64(42), obs.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationRepo_Create_insertError(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)

	mock.ExpectQuery(`INSERT INTO price_history`).
		WillReturnError(errors.New("foreign key violation"))

	err := repo.Create(context.Background(), &entity.PriceObservation{
		ProductID:  99,
		Price:      decimal.RequireFromString("1.00"),
		ObservedAt: time.Now(),
	})

	assert.Error(t, err)
}

func TestObservationRepo_ListByProduct(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "product_id", "price", "observed_at"}).
		AddRow(2, 1, "2399.90", now).
		AddRow(1, 1, "2450.00", now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT id, product_id, price, observed_at\s+FROM price_history\s+WHERE product_id = \$1`).
		WithArgs(int64(1), sql.NullInt64{Int64: 2, Valid: true}).
		WillReturnRows(rows)

	observations, err := repo.ListByProduct(context.Background(), 1, 2)

	require.NoError(t, err)
	require.Len(t, observations, 2)
	// 新しい順
	assert.Equal(t, int64(2), observations[0].ID)
	assert.True(t, observations[0].Price.Equal(decimal.RequireFromString("2399.90")))
}

func TestObservationRepo_ListByProduct_noLimit(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)

	mock.ExpectQuery(`SELECT id, product_id, price, observed_at\s+FROM price_history`).
		WithArgs(int64(1), sql.NullInt64{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "price", "observed_at"}))

	observations, err := repo.ListByProduct(context.Background(), 1, 0)

	require.NoError(t, err)
	assert.Empty(t, observations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestObservationRepo_CountByProduct(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM price_history WHERE product_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountByProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestObservationRepo_CountByProduct_queryError(t *testing.T) {
	mockDB, mock := newMock(t)
	repo := NewObservationRepo(mockDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM price_history`).
		WillReturnError(errors.New("connection reset"))

	count, err := repo.CountByProduct(context.Background(), 1)

	assert.Error(t, err)
	assert.Zero(t, count)
}
