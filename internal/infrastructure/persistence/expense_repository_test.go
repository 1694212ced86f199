package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockExpenseRepository creates a GormExpenseRepository with a mocked SQL connection
func newMockExpenseRepository(t *testing.T) (*GormExpenseRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormExpenseRepository(gormDB), mock, mockDB
}

func TestGormExpenseRepository_FindByIDForShop(t *testing.T) {
	t.Run("finds expense within shop", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		shopID := uuid.New()
		categoryID := uuid.New()
		incurred := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "shop_id", "incurred_on", "currency", "amount", "category_id", "note"}).
			AddRow(expenseID, shopID, incurred, "THB", decimal.NewFromInt(1200), categoryID, "August rent")

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE id = \$1 AND shop_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(expenseID, shopID, 1).
			WillReturnRows(rows)

		expense, err := repo.FindByIDForShop(context.Background(), expenseID, shopID)

		assert.NoError(t, err)
		assert.NotNil(t, expense)
		assert.Equal(t, expenseID, expense.ID)
		assert.Equal(t, shopID, expense.ShopID)
		assert.Equal(t, "August rent", expense.Note)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing expense", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		shopID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE id = \$1 AND shop_id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(expenseID, shopID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		expense, err := repo.FindByIDForShop(context.Background(), expenseID, shopID)

		assert.Error(t, err)
		assert.Nil(t, expense)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_FindInRange(t *testing.T) {
	t.Run("filters by incurred_on half-open range", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()
		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "shop_id", "incurred_on", "currency", "amount", "category_id"}).
			AddRow(uuid.New(), shopID, from, "THB", decimal.NewFromInt(500), uuid.New()).
			AddRow(uuid.New(), shopID, from.AddDate(0, 0, 10), "MMK", decimal.NewFromInt(30000), uuid.New())

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE shop_id = \$1 AND incurred_on >= \$2 AND incurred_on < \$3 ORDER BY incurred_on ASC`).
			WithArgs(shopID, from, to).
			WillReturnRows(rows)

		expenses, err := repo.FindInRange(context.Background(), shopID, from, to)

		assert.NoError(t, err)
		assert.Len(t, expenses, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_CountForShop(t *testing.T) {
	t.Run("counts expenses for shop", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		shopID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "expenses" WHERE shop_id = \$1`).
			WithArgs(shopID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountForShop(context.Background(), shopID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_Delete(t *testing.T) {
	t.Run("deletes expense within shop", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		shopID := uuid.New()

		mock.ExpectExec(`DELETE FROM "expenses" WHERE id = \$1 AND shop_id = \$2`).
			WithArgs(expenseID, shopID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), expenseID, shopID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockExpenseRepository(t)
		defer mockDB.Close()

		expenseID := uuid.New()
		shopID := uuid.New()

		mock.ExpectExec(`DELETE FROM "expenses" WHERE id = \$1 AND shop_id = \$2`).
			WithArgs(expenseID, shopID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), expenseID, shopID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
