package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Stock is reduced optimistically when a line enters the cart, with a
// best-effort durable write. The handlers here close the loop at the end
// of the sale lifecycle: completion re-persists the sold groups so any
// write that failed during the session is retried, and cancellation or
// refund puts quantities back.

// TransactionCompletedHandler re-saves the stock groups of a completed
// sale.
type TransactionCompletedHandler struct {
	stockService *StockService
	logger       *zap.Logger
}

func NewTransactionCompletedHandler(stockService *StockService, logger *zap.Logger) *TransactionCompletedHandler {
	return &TransactionCompletedHandler{stockService: stockService, logger: logger}
}

func (h *TransactionCompletedHandler) EventTypes() []string {
	return []string{sales.EventTypeTransactionCompleted}
}

func (h *TransactionCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*sales.TransactionCompletedEvent)
	if !ok {
		return nil
	}

	for _, line := range completed.Lines {
		stockID, err := uuid.Parse(line.StockID)
		if err != nil {
			h.logger.Warn("completed sale line has malformed stock id",
				zap.String("transaction", completed.TransactionNumber),
				zap.String("stock_id", line.StockID))
			continue
		}
		if err := h.stockService.EnsurePersisted(ctx, stockID, event.ShopID()); err != nil {
			h.logger.Error("could not reconcile stock after sale",
				zap.String("transaction", completed.TransactionNumber),
				zap.String("stock_id", line.StockID),
				zap.Error(err))
		}
	}
	return nil
}

// TransactionCancelledHandler restores the quantities a voided sale had
// reserved.
type TransactionCancelledHandler struct {
	stockService *StockService
	logger       *zap.Logger
}

func NewTransactionCancelledHandler(stockService *StockService, logger *zap.Logger) *TransactionCancelledHandler {
	return &TransactionCancelledHandler{stockService: stockService, logger: logger}
}

func (h *TransactionCancelledHandler) EventTypes() []string {
	return []string{sales.EventTypeTransactionCancelled}
}

func (h *TransactionCancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*sales.TransactionCancelledEvent)
	if !ok {
		return nil
	}

	for _, line := range cancelled.Lines {
		h.restore(ctx, event, cancelled.TransactionNumber, line.StockID, line.Color, line.Size, line.Quantity)
	}
	return nil
}

func (h *TransactionCancelledHandler) restore(ctx context.Context, event shared.DomainEvent, number, stockID, color, size string, qty int) {
	id, err := uuid.Parse(stockID)
	if err != nil {
		h.logger.Warn("cancelled sale line has malformed stock id",
			zap.String("transaction", number),
			zap.String("stock_id", stockID))
		return
	}
	if _, err := h.stockService.RestoreByID(ctx, id, event.ShopID(), color, size, qty); err != nil {
		h.logger.Error("could not restore stock for cancelled sale",
			zap.String("transaction", number),
			zap.String("stock_id", stockID),
			zap.Error(err))
	}
}

// TransactionRefundedHandler restores the refunded quantities.
type TransactionRefundedHandler struct {
	stockService *StockService
	logger       *zap.Logger
}

func NewTransactionRefundedHandler(stockService *StockService, logger *zap.Logger) *TransactionRefundedHandler {
	return &TransactionRefundedHandler{stockService: stockService, logger: logger}
}

func (h *TransactionRefundedHandler) EventTypes() []string {
	return []string{sales.EventTypeTransactionRefunded}
}

func (h *TransactionRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*sales.TransactionRefundedEvent)
	if !ok {
		return nil
	}

	for _, line := range refunded.Lines {
		id, err := uuid.Parse(line.StockID)
		if err != nil {
			h.logger.Warn("refund line has malformed stock id",
				zap.String("transaction", refunded.TransactionNumber),
				zap.String("stock_id", line.StockID))
			continue
		}
		if _, err := h.stockService.RestoreByID(ctx, id, event.ShopID(), line.Color, line.Size, line.Quantity); err != nil {
			h.logger.Error("could not restore stock for refund",
				zap.String("transaction", refunded.TransactionNumber),
				zap.String("stock_id", line.StockID),
				zap.Error(err))
		}
	}
	return nil
}
