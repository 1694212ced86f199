package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockGroupRepository implements StockGroupRepository using GORM
type GormStockGroupRepository struct {
	db *gorm.DB
}

// NewGormStockGroupRepository creates a new GormStockGroupRepository
func NewGormStockGroupRepository(db *gorm.DB) *GormStockGroupRepository {
	return &GormStockGroupRepository{db: db}
}

func (r *GormStockGroupRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("ColorVariants", func(db *gorm.DB) *gorm.DB {
			return db.Order("color_variants.created_at ASC")
		}).
		Preload("ColorVariants.SizeQuantities").
		Preload("WholesaleTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("wholesale_tiers.min_quantity ASC")
		})
}

// FindByID finds a stock group by its ID
func (r *GormStockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StockGroup, error) {
	var group catalog.StockGroup
	if err := r.withAssociations(r.db.WithContext(ctx)).
		First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByIDForShop finds a stock group by ID within a shop
func (r *GormStockGroupRepository) FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*catalog.StockGroup, error) {
	var group catalog.StockGroup
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindAllForShop finds all stock groups for a shop
func (r *GormStockGroupRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.StockGroup, error) {
	var groups []catalog.StockGroup
	query := r.applyFilter(
		r.withAssociations(r.db.WithContext(ctx)).
			Model(&catalog.StockGroup{}).
			Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// CountForShop counts stock groups for a shop
func (r *GormStockGroupRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&catalog.StockGroup{}).Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock group with its variants and tiers
func (r *GormStockGroupRepository) Save(ctx context.Context, group *catalog.StockGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(group).Error; err != nil {
			return err
		}
		return r.pruneRemovedTiers(tx, group)
	})
}

// SaveWithLock saves the aggregate with optimistic version checking
func (r *GormStockGroupRepository) SaveWithLock(ctx context.Context, group *catalog.StockGroup) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&catalog.StockGroup{}).
			Where("id = ? AND version = ?", group.ID, group.Version).
			Update("version", group.Version+1)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock group was modified by another transaction")
		}
		group.Version++

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(group).Error; err != nil {
			return err
		}
		return r.pruneRemovedTiers(tx, group)
	})
}

// pruneRemovedTiers deletes tier rows no longer in the aggregate.
// FullSaveAssociations upserts children but never removes them, and
// SetWholesaleTiers rebuilds the slice with fresh IDs, so every tier
// replacement would otherwise leave the previous rows behind.
func (r *GormStockGroupRepository) pruneRemovedTiers(tx *gorm.DB, group *catalog.StockGroup) error {
	if group.ID == uuid.Nil {
		return nil
	}
	if len(group.WholesaleTiers) == 0 {
		return tx.Where("stock_group_id = ?", group.ID).
			Delete(&catalog.WholesaleTier{}).Error
	}
	keep := make([]uuid.UUID, len(group.WholesaleTiers))
	for i, tier := range group.WholesaleTiers {
		keep[i] = tier.ID
	}
	return tx.Where("stock_group_id = ? AND id NOT IN ?", group.ID, keep).
		Delete(&catalog.WholesaleTier{}).Error
}

// Delete deletes a stock group within a shop
func (r *GormStockGroupRepository) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.StockGroup{}, "id = ? AND shop_id = ?", id, shopID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormStockGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockGroupSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormStockGroupRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("group_name ILIKE ? OR category ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "currency":
			query = query.Where("currency = ?", value)
		}
	}
	return query
}

// Ensure GormStockGroupRepository implements StockGroupRepository
var _ catalog.StockGroupRepository = (*GormStockGroupRepository)(nil)
