package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTransactionRepository creates a GormTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func TestGormTransactionRepository_FindByNumber(t *testing.T) {
	t.Run("returns ErrNotFound for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE transaction_number = \$1 AND shop_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("TXN-20260831-0001", shopID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		txn, err := repo.FindByNumber(context.Background(), "TXN-20260831-0001", shopID)

		assert.Error(t, err)
		assert.Nil(t, txn)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_FindCompletedInRange(t *testing.T) {
	t.Run("queries revenue statuses in half-open window", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE shop_id = \$1 AND status IN \(\$2,\$3,\$4\) AND completed_at >= \$5 AND completed_at < \$6 ORDER BY completed_at ASC`).
			WithArgs(shopID, "completed", "partially_refunded", "refunded", from, to).
			WillReturnRows(sqlmock.NewRows([]string{"id", "shop_id", "transaction_number", "status"}))

		txns, err := repo.FindCompletedInRange(context.Background(), shopID, from, to)

		assert.NoError(t, err)
		assert.Empty(t, txns)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_CountForShop(t *testing.T) {
	t.Run("applies status filter", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE shop_id = \$1 AND status = \$2`).
			WithArgs(shopID, "completed").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		filter := shared.Filter{Filters: map[string]interface{}{"status": "completed"}}
		count, err := repo.CountForShop(context.Background(), shopID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(12), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
