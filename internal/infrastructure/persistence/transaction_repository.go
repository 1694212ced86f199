package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Refund math references lines by position, so Items must come back in
// the order they were written.
func (r *GormTransactionRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_items.sort_order ASC")
		}).
		Preload("Refunds", func(db *gorm.DB) *gorm.DB {
			return db.Order("refunds.refunded_at ASC")
		}).
		Preload("Refunds.Items")
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Transaction, error) {
	var txn sales.Transaction
	if err := r.withAssociations(r.db.WithContext(ctx)).
		First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByIDForShop finds a transaction by ID within a shop
func (r *GormTransactionRepository) FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*sales.Transaction, error) {
	var txn sales.Transaction
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("id = ? AND shop_id = ?", id, shopID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByNumber finds a transaction by its human-readable number within a shop
func (r *GormTransactionRepository) FindByNumber(ctx context.Context, number string, shopID uuid.UUID) (*sales.Transaction, error) {
	var txn sales.Transaction
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("transaction_number = ? AND shop_id = ?", number, shopID).
		First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindAllForShop finds all transactions for a shop
func (r *GormTransactionRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*sales.Transaction, error) {
	var txns []*sales.Transaction
	query := r.applyFilter(
		r.withAssociations(r.db.WithContext(ctx)).
			Model(&sales.Transaction{}).
			Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// CountForShop counts transactions for a shop
func (r *GormTransactionRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&sales.Transaction{}).Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindCompletedInRange returns revenue-bearing transactions completed
// in [from, to). Refunded sales stay in the set; reports subtract their
// refund totals rather than excluding the sale.
func (r *GormTransactionRepository) FindCompletedInRange(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*sales.Transaction, error) {
	var txns []*sales.Transaction
	statuses := []sales.TransactionStatus{
		sales.StatusCompleted,
		sales.StatusPartiallyRefunded,
		sales.StatusRefunded,
	}
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("shop_id = ? AND status IN ? AND completed_at >= ? AND completed_at < ?", shopID, statuses, from, to).
		Order("completed_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Save creates or updates a transaction with its items and refunds
func (r *GormTransactionRepository) Save(ctx context.Context, txn *sales.Transaction) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(txn).Error
}

// SaveWithLock saves the aggregate with optimistic version checking
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, txn *sales.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&sales.Transaction{}).
			Where("id = ? AND version = ?", txn.ID, txn.Version).
			Update("version", txn.Version+1)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Transaction was modified by another operation")
		}
		txn.Version++

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(txn).Error
	})
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormTransactionRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("transaction_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "currency":
			query = query.Where("selling_currency = ?", value)
		}
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ sales.TransactionRepository = (*GormTransactionRepository)(nil)
