package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// Expense records money spent by the shop. Expenses carry their own
// currency independent of the selling currency; reports bucket them by it.
type Expense struct {
	shared.ShopAggregateRoot
	IncurredOn     time.Time            `gorm:"not null;index"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	Amount         decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	CategoryID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	SpendingMenuID *uuid.UUID           `gorm:"type:uuid;index"`
	Note           string               `gorm:"type:varchar(500)"`
	ReceiptURL     string               `gorm:"type:varchar(500)"`
}

func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates an expense for the given shop
func NewExpense(shopID uuid.UUID, incurredOn time.Time, currency valueobject.Currency, amount decimal.Decimal, categoryID uuid.UUID) (*Expense, error) {
	if incurredOn.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "expense date cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("unsupported currency: %s", currency))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "expense amount must be positive")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "expense category is required")
	}

	return &Expense{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		IncurredOn:        incurredOn,
		Currency:          currency,
		Amount:            amount,
		CategoryID:        categoryID,
	}, nil
}

// Update replaces the mutable fields of the expense
func (e *Expense) Update(incurredOn time.Time, currency valueobject.Currency, amount decimal.Decimal, categoryID uuid.UUID) error {
	if incurredOn.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "expense date cannot be empty")
	}
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("unsupported currency: %s", currency))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "expense amount must be positive")
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "expense category is required")
	}

	e.IncurredOn = incurredOn
	e.Currency = currency
	e.Amount = amount
	e.CategoryID = categoryID
	e.UpdatedAt = time.Now()

	return nil
}

// SetSpendingMenu attaches an optional spending menu reference
func (e *Expense) SetSpendingMenu(menuID *uuid.UUID) {
	e.SpendingMenuID = menuID
	e.UpdatedAt = time.Now()
}

// SetNote attaches a free-form note
func (e *Expense) SetNote(note string) {
	e.Note = note
	e.UpdatedAt = time.Now()
}

// AttachReceipt stores the URL of an uploaded receipt image
func (e *Expense) AttachReceipt(url string) {
	e.ReceiptURL = url
	e.UpdatedAt = time.Now()
}

// GetAmountMoney returns the amount as Money
func (e *Expense) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}

// ExpenseCategory is reference data grouping expenses for reporting
type ExpenseCategory struct {
	shared.BaseEntity
	ShopID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(100);not null"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

func NewExpenseCategory(shopID uuid.UUID, name string) (*ExpenseCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "category name cannot be empty")
	}
	return &ExpenseCategory{
		BaseEntity: shared.NewBaseEntity(),
		ShopID:     shopID,
		Name:       name,
	}, nil
}

func (c *ExpenseCategory) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

// SpendingMenu is a reusable label for recurring spend items, nested
// under a category.
type SpendingMenu struct {
	shared.BaseEntity
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

func (SpendingMenu) TableName() string {
	return "spending_menus"
}

func NewSpendingMenu(shopID, categoryID uuid.UUID, name string) (*SpendingMenu, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "menu name cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "menu category is required")
	}
	return &SpendingMenu{
		BaseEntity: shared.NewBaseEntity(),
		ShopID:     shopID,
		CategoryID: categoryID,
		Name:       name,
	}, nil
}
