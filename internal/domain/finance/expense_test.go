package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	shopID := uuid.New()
	categoryID := uuid.New()
	incurred := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	expense, err := NewExpense(shopID, incurred, valueobject.MMK, decimal.NewFromInt(15000), categoryID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.MMK, expense.Currency)
	assert.Equal(t, categoryID, expense.CategoryID)
	assert.True(t, expense.Amount.Equal(decimal.NewFromInt(15000)))
}

func TestNewExpense_Validation(t *testing.T) {
	shopID := uuid.New()
	categoryID := uuid.New()
	incurred := time.Now()

	_, err := NewExpense(shopID, time.Time{}, valueobject.THB, decimal.NewFromInt(100), categoryID)
	assert.Error(t, err)

	_, err = NewExpense(shopID, incurred, valueobject.Currency("USD"), decimal.NewFromInt(100), categoryID)
	assert.Error(t, err)

	_, err = NewExpense(shopID, incurred, valueobject.THB, decimal.Zero, categoryID)
	assert.Error(t, err)

	_, err = NewExpense(shopID, incurred, valueobject.THB, decimal.NewFromInt(-5), categoryID)
	assert.Error(t, err)

	_, err = NewExpense(shopID, incurred, valueobject.THB, decimal.NewFromInt(100), uuid.Nil)
	assert.Error(t, err)
}

func TestExpense_Update(t *testing.T) {
	expense, err := NewExpense(uuid.New(), time.Now(), valueobject.THB, decimal.NewFromInt(100), uuid.New())
	require.NoError(t, err)

	newCategory := uuid.New()
	newDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, expense.Update(newDate, valueobject.MMK, decimal.NewFromInt(250), newCategory))

	assert.Equal(t, valueobject.MMK, expense.Currency)
	assert.Equal(t, newCategory, expense.CategoryID)
	assert.True(t, expense.IncurredOn.Equal(newDate))

	assert.Error(t, expense.Update(newDate, valueobject.MMK, decimal.Zero, newCategory))
}

func TestExpense_OptionalFields(t *testing.T) {
	expense, err := NewExpense(uuid.New(), time.Now(), valueobject.THB, decimal.NewFromInt(100), uuid.New())
	require.NoError(t, err)

	menuID := uuid.New()
	expense.SetSpendingMenu(&menuID)
	expense.SetNote("electricity bill")
	expense.AttachReceipt("https://cdn.example.com/receipts/abc.jpg")

	require.NotNil(t, expense.SpendingMenuID)
	assert.Equal(t, menuID, *expense.SpendingMenuID)
	assert.Equal(t, "electricity bill", expense.Note)
	assert.NotEmpty(t, expense.ReceiptURL)

	expense.SetSpendingMenu(nil)
	assert.Nil(t, expense.SpendingMenuID)
}

func TestNewExpenseCategory(t *testing.T) {
	category, err := NewExpenseCategory(uuid.New(), "Utilities")
	require.NoError(t, err)
	assert.Equal(t, "Utilities", category.Name)

	_, err = NewExpenseCategory(uuid.New(), "")
	assert.Error(t, err)

	require.NoError(t, category.Rename("Rent"))
	assert.Equal(t, "Rent", category.Name)
	assert.Error(t, category.Rename(""))
}

func TestNewSpendingMenu(t *testing.T) {
	shopID := uuid.New()
	categoryID := uuid.New()

	menu, err := NewSpendingMenu(shopID, categoryID, "Monthly electricity")
	require.NoError(t, err)
	assert.Equal(t, categoryID, menu.CategoryID)

	_, err = NewSpendingMenu(shopID, categoryID, "")
	assert.Error(t, err)

	_, err = NewSpendingMenu(shopID, uuid.Nil, "Monthly electricity")
	assert.Error(t, err)
}
