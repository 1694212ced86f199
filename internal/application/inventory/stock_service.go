package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// AdjustmentResult reports both phases of a stock adjustment. The local
// phase mutates the in-memory aggregate and always reflects what the
// caller sees; the persist phase is best-effort and its failure does not
// undo the local change.
type AdjustmentResult struct {
	LocalApplied bool
	Persisted    bool
	Remaining    int
}

// StockService keeps per-size quantities consistent with cart and sale
// activity. Adjustments are optimistic: the in-memory mutation wins even
// when the durable write fails, which keeps the selling flow responsive
// on a flaky connection. Failures are logged for later reconciliation.
type StockService struct {
	stockRepo catalog.StockGroupRepository
	logger    *zap.Logger
}

func NewStockService(stockRepo catalog.StockGroupRepository, logger *zap.Logger) *StockService {
	return &StockService{
		stockRepo: stockRepo,
		logger:    logger,
	}
}

// Reduce subtracts qty from the group's (color, size) bucket, clamping at
// zero. A missing variant is a logged no-op, not an error; carts identify
// variants by color name and a renamed color simply stops matching.
func (s *StockService) Reduce(ctx context.Context, group *catalog.StockGroup, color, size string, qty int) AdjustmentResult {
	applied, found := group.ReduceStock(color, size, qty)
	if !found {
		s.logger.Warn("stock reduce skipped, no variant matched",
			zap.String("group", group.GroupName),
			zap.String("color", color),
			zap.String("size", size))
		return AdjustmentResult{}
	}

	result := AdjustmentResult{
		LocalApplied: true,
		Remaining:    group.CheckStock(color, size),
	}
	if applied < qty {
		s.logger.Warn("stock reduce clamped at zero",
			zap.String("group", group.GroupName),
			zap.String("color", color),
			zap.String("size", size),
			zap.Int("requested", qty),
			zap.Int("applied", applied))
	}

	result.Persisted = s.persist(ctx, group)
	return result
}

// Restore mirrors Reduce, adding qty back on cart-item removal, sale
// cancellation, and refunds.
func (s *StockService) Restore(ctx context.Context, group *catalog.StockGroup, color, size string, qty int) AdjustmentResult {
	_, found := group.RestoreStock(color, size, qty)
	if !found {
		s.logger.Warn("stock restore skipped, no variant matched",
			zap.String("group", group.GroupName),
			zap.String("color", color),
			zap.String("size", size))
		return AdjustmentResult{}
	}

	result := AdjustmentResult{
		LocalApplied: true,
		Remaining:    group.CheckStock(color, size),
	}
	result.Persisted = s.persist(ctx, group)
	return result
}

// ReduceByID loads the group first; used by event handlers that only have
// stock coordinates.
func (s *StockService) ReduceByID(ctx context.Context, stockID, shopID uuid.UUID, color, size string, qty int) (AdjustmentResult, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, stockID, shopID)
	if err != nil {
		return AdjustmentResult{}, err
	}
	return s.Reduce(ctx, group, color, size, qty), nil
}

// RestoreByID loads the group first; the mirror of ReduceByID.
func (s *StockService) RestoreByID(ctx context.Context, stockID, shopID uuid.UUID, color, size string, qty int) (AdjustmentResult, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, stockID, shopID)
	if err != nil {
		return AdjustmentResult{}, err
	}
	return s.Restore(ctx, group, color, size, qty), nil
}

// CheckStock reads the remaining quantity without mutating anything.
func (s *StockService) CheckStock(ctx context.Context, stockID, shopID uuid.UUID, color, size string) (int, error) {
	group, err := s.stockRepo.FindByIDForShop(ctx, stockID, shopID)
	if err != nil {
		return 0, err
	}
	return group.CheckStock(color, size), nil
}

// EnsurePersisted reloads a group and writes it back, retrying any
// best-effort save that failed earlier in the session.
func (s *StockService) EnsurePersisted(ctx context.Context, stockID, shopID uuid.UUID) error {
	group, err := s.stockRepo.FindByIDForShop(ctx, stockID, shopID)
	if err != nil {
		return err
	}
	return s.stockRepo.SaveWithLock(ctx, group)
}

func (s *StockService) persist(ctx context.Context, group *catalog.StockGroup) bool {
	if err := s.stockRepo.SaveWithLock(ctx, group); err != nil {
		s.logger.Error("stock persistence failed, keeping optimistic local state",
			zap.String("group", group.GroupName),
			zap.String("group_id", group.ID.String()),
			zap.Error(err))
		return false
	}
	return true
}
