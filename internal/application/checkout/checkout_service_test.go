package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/stitchpos/backend/internal/application/cart"
	"github.com/stitchpos/backend/internal/application/inventory"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*sales.Transaction, error) {
	args := m.Called(ctx, id, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByNumber(ctx context.Context, number string, shopID uuid.UUID) (*sales.Transaction, error) {
	args := m.Called(ctx, number, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]*sales.Transaction, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) FindCompletedInRange(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*sales.Transaction, error) {
	args := m.Called(ctx, shopID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(ctx context.Context, txn *sales.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveWithLock(ctx context.Context, txn *sales.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

type MockStockGroupRepository struct {
	mock.Mock
}

func (m *MockStockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.StockGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockGroup), args.Error(1)
}

func (m *MockStockGroupRepository) FindByIDForShop(ctx context.Context, id, shopID uuid.UUID) (*catalog.StockGroup, error) {
	args := m.Called(ctx, id, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.StockGroup), args.Error(1)
}

func (m *MockStockGroupRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.StockGroup, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.StockGroup), args.Error(1)
}

func (m *MockStockGroupRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockGroupRepository) Save(ctx context.Context, group *catalog.StockGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockStockGroupRepository) SaveWithLock(ctx context.Context, group *catalog.StockGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockStockGroupRepository) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	args := m.Called(ctx, id, shopID)
	return args.Error(0)
}

type approvingGateway struct{}

func (approvingGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{Approved: true, Reference: "ok"}, nil
}

type decliningGateway struct{}

func (decliningGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return &ChargeResult{Approved: false, Message: "card declined"}, nil
}

type failingGateway struct{}

func (failingGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	return nil, errors.New("terminal unreachable")
}

type memoryIdempotency struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{seen: make(map[string]bool)}
}

func (m *memoryIdempotency) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memoryIdempotency) IsProcessed(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[key], nil
}

func (m *memoryIdempotency) Close() error { return nil }

type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type checkoutFixture struct {
	service     *CheckoutService
	cartService *cartapp.CartService
	txnRepo     *MockTransactionRepository
	publisher   *capturingPublisher
	idempotency *memoryIdempotency
	group       *catalog.StockGroup
	shopID      uuid.UUID
}

func newCheckoutFixture(t *testing.T, gateway PaymentGateway) *checkoutFixture {
	t.Helper()
	shopID := uuid.New()

	group, err := catalog.NewStockGroup(shopID, "Denim Jacket", "Jackets",
		valueobject.NewMoneyTHBFromFloat(100),
		valueobject.NewMoneyTHBFromFloat(60))
	require.NoError(t, err)
	_, err = group.AddColorVariant("Red", "#ff0000")
	require.NoError(t, err)
	require.NoError(t, group.SetSizeQuantity("Red", "M", 5))

	stockRepo := new(MockStockGroupRepository)
	stockRepo.On("FindByIDForShop", mock.Anything, group.ID, shopID).Return(group, nil).Maybe()
	stockRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Maybe()

	settings := cartdomain.PricingSettings{
		TaxRate:         decimal.NewFromInt(7),
		DefaultCurrency: valueobject.THB,
	}
	cartService := cartapp.NewCartService(cartapp.NewStore(), stockRepo,
		inventory.NewStockService(stockRepo, zap.NewNop()), settings)

	txnRepo := new(MockTransactionRepository)
	txnRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
	txnRepo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Maybe()

	publisher := &capturingPublisher{}
	idempotency := newMemoryIdempotency()

	service := NewCheckoutService(txnRepo, cartService, gateway, idempotency, publisher, zap.NewNop())

	return &checkoutFixture{
		service:     service,
		cartService: cartService,
		txnRepo:     txnRepo,
		publisher:   publisher,
		idempotency: idempotency,
		group:       group,
		shopID:      shopID,
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, qty int) {
	t.Helper()
	_, err := f.cartService.AddItem(context.Background(), "session-1", f.shopID, cartapp.AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: qty,
	})
	require.NoError(t, err)
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})
	f.fillCart(t, 2)

	resp, err := f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(214))) // 7 percent tax

	// Cart is cleared, stock stays reserved by the sale
	cartResp, err := f.cartService.GetCart("session-1", f.shopID)
	require.NoError(t, err)
	assert.Empty(t, cartResp.Items)
	assert.Equal(t, 3, f.group.CheckStock("Red", "M"))

	assert.Contains(t, f.publisher.eventTypes(), sales.EventTypeTransactionCompleted)
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})
	_, err := f.cartService.GetCart("session-1", f.shopID)
	require.NoError(t, err)

	_, err = f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, shared.ErrEmptyCart)
}

func TestCheckout_UnknownSessionRejected(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})

	_, err := f.service.Checkout(context.Background(), "nope", f.shopID, CheckoutRequest{
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})
	f.fillCart(t, 1)

	_, err := f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "cheque",
	})
	assert.Error(t, err)
}

func TestCheckout_DeclinedPaymentCancelsAndRestores(t *testing.T) {
	f := newCheckoutFixture(t, decliningGateway{})
	f.fillCart(t, 2)
	assert.Equal(t, 3, f.group.CheckStock("Red", "M"))

	_, err := f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "card",
	})
	assert.ErrorIs(t, err, shared.ErrPaymentDeclined)

	assert.Contains(t, f.publisher.eventTypes(), sales.EventTypeTransactionCancelled)
}

func TestCheckout_GatewayErrorSurfaces(t *testing.T) {
	f := newCheckoutFixture(t, failingGateway{})
	f.fillCart(t, 1)

	_, err := f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "card",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrPaymentDeclined)
}

func TestCheckout_IdempotencyKeyBlocksReplay(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})
	f.fillCart(t, 1)

	_, err := f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "cash", IdempotencyKey: "req-42",
	})
	require.NoError(t, err)

	f.fillCart(t, 1)
	_, err = f.service.Checkout(context.Background(), "session-1", f.shopID, CheckoutRequest{
		PaymentMethod: "cash", IdempotencyKey: "req-42",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_REQUEST", domainErr.Code)
}

func TestCancel_RestoresThroughEvent(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})

	txn, err := sales.NewTransaction(f.shopID, "TXN-TEST-1", sales.PaymentCash, valueobject.THB)
	require.NoError(t, err)
	require.NoError(t, txn.AddItem(f.group.ID, "Denim Jacket", "Red", "", "M", 2,
		decimal.NewFromInt(100), decimal.NewFromInt(60), nil))
	f.txnRepo.On("FindByIDForShop", mock.Anything, txn.ID, f.shopID).Return(txn, nil)

	resp, err := f.service.Cancel(context.Background(), txn.ID, f.shopID, "wrong items")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Contains(t, f.publisher.eventTypes(), sales.EventTypeTransactionCancelled)
}

func TestRefund_PartialThenResponseNetsOut(t *testing.T) {
	f := newCheckoutFixture(t, approvingGateway{})

	txn, err := sales.NewTransaction(f.shopID, "TXN-TEST-2", sales.PaymentCash, valueobject.THB)
	require.NoError(t, err)
	require.NoError(t, txn.AddItem(f.group.ID, "Denim Jacket", "Red", "", "M", 2,
		decimal.NewFromInt(100), decimal.NewFromInt(60), nil))
	require.NoError(t, txn.SetTotals(decimal.NewFromInt(200), decimal.Zero, decimal.Zero,
		decimal.Zero, decimal.Zero, decimal.NewFromInt(200)))
	require.NoError(t, txn.Complete())
	txn.ClearDomainEvents()
	f.txnRepo.On("FindByIDForShop", mock.Anything, txn.ID, f.shopID).Return(txn, nil)

	resp, err := f.service.Refund(context.Background(), txn.ID, f.shopID, RefundRequest{
		Lines:  []RefundLineRequest{{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(100)}},
		Reason: "wrong size",
	})
	require.NoError(t, err)

	assert.Equal(t, "partially_refunded", resp.Status)
	assert.Equal(t, 1, resp.Items[0].NetQuantity)
	assert.True(t, resp.NetRevenue.Equal(decimal.NewFromInt(100)))
	assert.Contains(t, f.publisher.eventTypes(), sales.EventTypeTransactionRefunded)
}
