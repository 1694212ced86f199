package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/shared"
)

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*Expense, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*Expense, error)
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)
	// FindInRange returns expenses incurred in [from, to).
	FindInRange(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*Expense, error)
	Save(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id, shopID uuid.UUID) error
}

// ExpenseCategoryRepository persists expense categories
type ExpenseCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExpenseCategory, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID) ([]*ExpenseCategory, error)
	Save(ctx context.Context, category *ExpenseCategory) error
	Delete(ctx context.Context, id, shopID uuid.UUID) error
}

// SpendingMenuRepository persists spending menus
type SpendingMenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SpendingMenu, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID) ([]*SpendingMenu, error)
	FindByCategory(ctx context.Context, categoryID, shopID uuid.UUID) ([]*SpendingMenu, error)
	Save(ctx context.Context, menu *SpendingMenu) error
	Delete(ctx context.Context, id, shopID uuid.UUID) error
}
