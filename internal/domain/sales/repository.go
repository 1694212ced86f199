package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/shared"
)

// TransactionRepository persists sale aggregates. Transactions are append
// and update only; there is no delete.
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*Transaction, error)
	FindByNumber(ctx context.Context, number string, shopID uuid.UUID) (*Transaction, error)
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*Transaction, error)
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)
	// FindCompletedInRange returns revenue-bearing transactions whose
	// completion time falls in [from, to).
	FindCompletedInRange(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*Transaction, error)
	Save(ctx context.Context, txn *Transaction) error
	SaveWithLock(ctx context.Context, txn *Transaction) error
}
