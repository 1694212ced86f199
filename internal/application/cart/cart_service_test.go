package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/application/inventory"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

type fixture struct {
	service *CartService
	repo    *MockStockGroupRepository
	group   *catalog.StockGroup
	shopID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	shopID := uuid.New()

	group, err := catalog.NewStockGroup(shopID, "Denim Jacket", "Jackets",
		valueobject.NewMoneyTHBFromFloat(100),
		valueobject.NewMoneyTHBFromFloat(60))
	require.NoError(t, err)
	_, err = group.AddColorVariant("Red", "#ff0000")
	require.NoError(t, err)
	require.NoError(t, group.SetSizeQuantity("Red", "M", 5))

	repo := new(MockStockGroupRepository)
	repo.On("FindByIDForShop", mock.Anything, group.ID, shopID).Return(group, nil).Maybe()
	repo.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Maybe()

	settings := cartdomain.PricingSettings{
		TaxRate:         decimal.NewFromInt(7),
		DefaultCurrency: valueobject.THB,
		ConversionRate:  decimal.NewFromInt(120),
	}
	service := NewCartService(NewStore(), repo, inventory.NewStockService(repo, zap.NewNop()), settings)

	return &fixture{service: service, repo: repo, group: group, shopID: shopID}
}

func TestCartService_AddItem(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "#ff0000", resp.Items[0].ColorCode)

	// Stock reserved immediately
	assert.Equal(t, 3, f.group.CheckStock("Red", "M"))
}

func TestCartService_AddItem_ExceedsStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 6,
	})
	assert.Error(t, err)
	assert.Equal(t, 5, f.group.CheckStock("Red", "M"))
}

func TestCartService_AddThenRemoveRestoresStock(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.group.CheckStock("Red", "M"))

	_, err = f.service.RemoveItem(context.Background(), "session-1", f.shopID, resp.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.group.CheckStock("Red", "M"))
}

func TestCartService_UpdateQuantityMirrorsDelta(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)

	resp, err = f.service.UpdateQuantity(context.Background(), "session-1", f.shopID, resp.Items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Items[0].Quantity)
	assert.Equal(t, 1, f.group.CheckStock("Red", "M"))

	resp, err = f.service.UpdateQuantity(context.Background(), "session-1", f.shopID, resp.Items[0].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.Equal(t, 4, f.group.CheckStock("Red", "M"))
}

func TestCartService_WholesaleAppliedOnExactTier(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.group.SetSizeQuantity("Red", "M", 30))
	require.NoError(t, f.group.SetWholesaleTiers([]catalog.WholesaleTier{
		{MinQuantity: 10, Price: decimal.NewFromInt(80)},
	}))

	resp, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 10,
	})
	require.NoError(t, err)
	assert.True(t, resp.Items[0].IsWholesalePricing)
	require.NotNil(t, resp.Items[0].DiscountedPrice)
	assert.True(t, resp.Items[0].DiscountedPrice.Equal(decimal.NewFromInt(80)))

	// One over the tier quantity clears wholesale pricing
	resp, err = f.service.UpdateQuantity(context.Background(), "session-1", f.shopID, resp.Items[0].ID, 11)
	require.NoError(t, err)
	assert.False(t, resp.Items[0].IsWholesalePricing)
	assert.Nil(t, resp.Items[0].DiscountedPrice)
}

func TestCartService_ApplyCartDiscount(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)

	percent := decimal.NewFromInt(10)
	resp, err := f.service.ApplyCartDiscount("session-1", CartDiscountRequest{Percent: &percent})
	require.NoError(t, err)
	assert.True(t, resp.Totals.DiscountAmount.Equal(decimal.NewFromInt(20)))

	amount := decimal.NewFromInt(50)
	resp, err = f.service.ApplyCartDiscount("session-1", CartDiscountRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, resp.Totals.DiscountPercent.Equal(decimal.NewFromInt(25)))

	_, err = f.service.ApplyCartDiscount("session-1", CartDiscountRequest{})
	assert.Error(t, err)

	_, err = f.service.ApplyCartDiscount("session-1", CartDiscountRequest{Percent: &percent, Amount: &amount})
	assert.Error(t, err)
}

func TestCartService_WorkedScenarioTotals(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 3,
	})
	require.NoError(t, err)

	_, err = f.service.ApplyGroupDiscount("session-1", GroupDiscountRequest{
		GroupName: "Denim Jacket", Percent: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	percent := decimal.NewFromInt(10)
	resp, err := f.service.ApplyCartDiscount("session-1", CartDiscountRequest{Percent: &percent})
	require.NoError(t, err)

	assert.True(t, resp.Totals.Subtotal.Equal(decimal.NewFromInt(270)))
	assert.True(t, resp.Totals.DiscountAmount.Equal(decimal.NewFromInt(27)))
	assert.True(t, resp.Totals.AfterDiscount.Equal(decimal.NewFromInt(243)))
	assert.True(t, resp.Totals.TaxAmount.Equal(decimal.RequireFromString("17.01")))
	assert.True(t, resp.Totals.GrandTotal.Equal(decimal.RequireFromString("260.01")))
}

func TestCartService_Abandon(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "session-1", f.shopID, AddItemRequest{
		StockID: f.group.ID, Color: "Red", Size: "M", Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.group.CheckStock("Red", "M"))

	require.NoError(t, f.service.Abandon(context.Background(), "session-1", f.shopID))
	assert.Equal(t, 5, f.group.CheckStock("Red", "M"))
	assert.Equal(t, 0, f.service.Store().Len())
}

func TestCartService_UnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Totals("no-such-session")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
