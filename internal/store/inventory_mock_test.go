package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Any matches any driver value.
type Any struct{}

func (a Any) Match(v driver.Value) bool { return true }

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// The deduction must be guarded in SQL: a sortie beyond the on-hand quantity
// matches zero rows, and the transaction rolls back without writing a
// movement.
func TestAdjustStock_GuardedDeduction(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pieces" SET`)).
		WithArgs(Any{}, Any{}, int64(7), 5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pieces"`)).
		WithArgs(int64(7), Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "nom", "prix_unitaire", "quantite_stock", "seuil_alerte", "created_at", "updated_at"}).
			AddRow(7, "P-007", "Courroie", 9.90, 3, 5, time.Now(), time.Now()))
	mock.ExpectRollback()

	_, err := s.AdjustStock(context.Background(), 7, "sortie", 5, "Consommation")

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A vanished piece surfaces as not found rather than as a stock error.
func TestAdjustStock_MissingPiece(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "pieces" SET`)).
		WithArgs(Any{}, Any{}, int64(99), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "pieces"`)).
		WithArgs(int64(99), Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.AdjustStock(context.Background(), 99, "sortie", 1, "")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "piece", notFound.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
