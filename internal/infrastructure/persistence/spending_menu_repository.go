package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSpendingMenuRepository implements SpendingMenuRepository using GORM
type GormSpendingMenuRepository struct {
	db *gorm.DB
}

// NewGormSpendingMenuRepository creates a new GormSpendingMenuRepository
func NewGormSpendingMenuRepository(db *gorm.DB) *GormSpendingMenuRepository {
	return &GormSpendingMenuRepository{db: db}
}

// FindByID finds a spending menu by its ID
func (r *GormSpendingMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SpendingMenu, error) {
	var menu finance.SpendingMenu
	if err := r.db.WithContext(ctx).First(&menu, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &menu, nil
}

// FindAllForShop finds all spending menus for a shop
func (r *GormSpendingMenuRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID) ([]*finance.SpendingMenu, error) {
	var menus []*finance.SpendingMenu
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("name ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// FindByCategory finds spending menus under an expense category
func (r *GormSpendingMenuRepository) FindByCategory(ctx context.Context, categoryID, shopID uuid.UUID) ([]*finance.SpendingMenu, error) {
	var menus []*finance.SpendingMenu
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND shop_id = ?", categoryID, shopID).
		Order("name ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// Save creates or updates a spending menu
func (r *GormSpendingMenuRepository) Save(ctx context.Context, menu *finance.SpendingMenu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

// Delete deletes a spending menu within a shop
func (r *GormSpendingMenuRepository) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&finance.SpendingMenu{}, "id = ? AND shop_id = ?", id, shopID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSpendingMenuRepository implements SpendingMenuRepository
var _ finance.SpendingMenuRepository = (*GormSpendingMenuRepository)(nil)
