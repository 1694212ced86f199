package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormExpenseCategoryRepository implements ExpenseCategoryRepository using GORM
type GormExpenseCategoryRepository struct {
	db *gorm.DB
}

// NewGormExpenseCategoryRepository creates a new GormExpenseCategoryRepository
func NewGormExpenseCategoryRepository(db *gorm.DB) *GormExpenseCategoryRepository {
	return &GormExpenseCategoryRepository{db: db}
}

// FindByID finds an expense category by its ID
func (r *GormExpenseCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ExpenseCategory, error) {
	var category finance.ExpenseCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForShop finds all expense categories for a shop
func (r *GormExpenseCategoryRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID) ([]*finance.ExpenseCategory, error) {
	var categories []*finance.ExpenseCategory
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates an expense category
func (r *GormExpenseCategoryRepository) Save(ctx context.Context, category *finance.ExpenseCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes an expense category within a shop
func (r *GormExpenseCategoryRepository) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.ExpenseCategory{}, "id = ? AND shop_id = ?", id, shopID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormExpenseCategoryRepository implements ExpenseCategoryRepository
var _ finance.ExpenseCategoryRepository = (*GormExpenseCategoryRepository)(nil)
