package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	cartapp "github.com/stitchpos/backend/internal/application/cart"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutService turns a session cart into a persisted transaction.
//
// The persisted pending record takes over the cart's stock reservation:
// the cart is cleared as soon as the snapshot is saved, so a later
// cancellation restores stock exactly once, through the cancelled event.
type CheckoutService struct {
	txnRepo     sales.TransactionRepository
	cartService *cartapp.CartService
	gateway     PaymentGateway
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

func NewCheckoutService(
	txnRepo sales.TransactionRepository,
	cartService *cartapp.CartService,
	gateway PaymentGateway,
	idempotency shared.IdempotencyStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txnRepo:     txnRepo,
		cartService: cartService,
		gateway:     gateway,
		idempotency: idempotency,
		publisher:   publisher,
		logger:      logger,
	}
}

// Checkout validates the cart, persists a pending transaction, clears the
// session, and clears payment. A declined payment cancels the pending
// record, which restores its stock through the cancelled event.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, shopID uuid.UUID, req CheckoutRequest) (*TransactionResponse, error) {
	if req.IdempotencyKey != "" {
		processed, err := s.idempotency.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency check failed, continuing without guard", zap.Error(err))
		} else if processed {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "this checkout was already processed")
		}
	}

	c, err := s.cartService.Store().Get(sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	totals, err := c.Totals(s.cartService.Settings())
	if err != nil {
		return nil, err
	}

	txn, err := sales.NewTransaction(shopID, newTransactionNumber(), sales.PaymentMethod(req.PaymentMethod), c.Currency)
	if err != nil {
		return nil, err
	}
	for i := range c.Items {
		item := &c.Items[i]
		if err := txn.AddItem(item.StockID, item.GroupName, item.SelectedColor, item.ColorCode,
			item.SelectedSize, item.Quantity, item.UnitPrice, item.OriginalPrice, item.DiscountedPrice); err != nil {
			return nil, err
		}
	}
	if err := txn.SetTotals(totals.Subtotal, totals.DiscountPercent, totals.DiscountAmount,
		totals.TaxRate, totals.TaxAmount, totals.GrandTotal); err != nil {
		return nil, err
	}

	if err := s.txnRepo.Save(ctx, txn); err != nil {
		return nil, err
	}

	// Reservation ownership moves to the persisted record
	c.Clear()

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		TransactionNumber: txn.TransactionNumber,
		Method:            txn.PaymentMethod,
		Amount:            txn.Total,
		Currency:          txn.SellingCurrency.String(),
	})
	if err != nil || !result.Approved {
		reason := "payment clearance failed"
		if err == nil {
			reason = fmt.Sprintf("payment declined: %s", result.Message)
		}
		s.cancelAfterFailedCharge(ctx, txn, reason)
		if err != nil {
			return nil, fmt.Errorf("payment clearance: %w", err)
		}
		return nil, shared.ErrPaymentDeclined
	}

	if err := txn.Complete(); err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		ttl := shared.DefaultIdempotencyConfig().TTL
		if _, err := s.idempotency.MarkProcessed(ctx, req.IdempotencyKey, ttl); err != nil {
			s.logger.Warn("could not record idempotency key", zap.Error(err))
		}
	}

	s.publish(ctx, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// GetTransaction loads one transaction.
func (s *CheckoutService) GetTransaction(ctx context.Context, id, shopID uuid.UUID) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// ListTransactions pages through the shop's sales history.
func (s *CheckoutService) ListTransactions(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (*shared.Paginated[TransactionResponse], error) {
	txns, err := s.txnRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.txnRepo.CountForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		items = append(items, ToTransactionResponse(txn))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Cancel voids a pending transaction; its stock comes back through the
// cancelled event.
func (s *CheckoutService) Cancel(ctx context.Context, id, shopID uuid.UUID, reason string) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	if err := txn.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		return nil, err
	}

	s.publish(ctx, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

// Refund records a full or partial return against a completed transaction
// and restores the returned stock through the refunded event.
func (s *CheckoutService) Refund(ctx context.Context, id, shopID uuid.UUID, req RefundRequest) (*TransactionResponse, error) {
	txn, err := s.txnRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	lines := make([]sales.RefundRequestLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, sales.RefundRequestLine{
			ItemIndex: l.ItemIndex,
			Quantity:  l.Quantity,
			Amount:    l.Amount,
		})
	}

	if _, err := txn.Refund(lines, req.Reason); err != nil {
		return nil, err
	}
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		return nil, err
	}

	s.publish(ctx, txn)

	resp := ToTransactionResponse(txn)
	return &resp, nil
}

func (s *CheckoutService) cancelAfterFailedCharge(ctx context.Context, txn *sales.Transaction, reason string) {
	if err := txn.Cancel(reason); err != nil {
		s.logger.Error("could not cancel transaction after failed charge",
			zap.String("transaction", txn.TransactionNumber), zap.Error(err))
		return
	}
	if err := s.txnRepo.SaveWithLock(ctx, txn); err != nil {
		s.logger.Error("could not persist cancellation after failed charge",
			zap.String("transaction", txn.TransactionNumber), zap.Error(err))
	}
	s.publish(ctx, txn)
}

func (s *CheckoutService) publish(ctx context.Context, txn *sales.Transaction) {
	events := txn.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("could not publish transaction events",
			zap.String("transaction", txn.TransactionNumber), zap.Error(err))
	}
	txn.ClearDomainEvents()
}

func newTransactionNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TXN-%s-%s", time.Now().Format("20060102"), suffix)
}
