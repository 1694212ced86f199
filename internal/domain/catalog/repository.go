package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/shared"
)

// StockGroupRepository defines persistence operations for stock groups
type StockGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockGroup, error)
	FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*StockGroup, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]StockGroup, error)
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, group *StockGroup) error
	// SaveWithLock saves the aggregate with optimistic version checking
	SaveWithLock(ctx context.Context, group *StockGroup) error
	Delete(ctx context.Context, id, shopID uuid.UUID) error
}

// ShopRepository defines persistence operations for shops
type ShopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)
	FindAll(ctx context.Context) ([]Shop, error)
	Save(ctx context.Context, shop *Shop) error
	Delete(ctx context.Context, id uuid.UUID) error
}
