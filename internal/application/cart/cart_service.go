package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/application/inventory"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
	"github.com/stitchpos/backend/internal/domain/catalog"
	"github.com/stitchpos/backend/internal/domain/shared"
)

// CartService owns the selling-session carts. Stock is adjusted
// optimistically as lines come and go; availability is validated when a
// line is added and again at checkout, not on quantity edits.
type CartService struct {
	store        *Store
	stockRepo    catalog.StockGroupRepository
	stockService *inventory.StockService
	settings     cartdomain.PricingSettings
}

func NewCartService(
	store *Store,
	stockRepo catalog.StockGroupRepository,
	stockService *inventory.StockService,
	settings cartdomain.PricingSettings,
) *CartService {
	return &CartService{
		store:        store,
		stockRepo:    stockRepo,
		stockService: stockService,
		settings:     settings,
	}
}

// GetCart returns the session's cart, creating an empty one on first use.
func (s *CartService) GetCart(sessionID string, shopID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.GetOrCreate(sessionID, shopID, s.settings.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	return s.respond(c)
}

// AddItem snapshots a stock group's pricing onto a new cart line and
// reduces stock for it.
func (s *CartService) AddItem(ctx context.Context, sessionID string, shopID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	c, err := s.store.GetOrCreate(sessionID, shopID, s.settings.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	group, err := s.stockRepo.FindByIDForShop(ctx, req.StockID, shopID)
	if err != nil {
		return nil, err
	}

	colorCode := ""
	if variant := group.GetVariant(req.Color); variant != nil {
		colorCode = variant.ColorCode
	}

	tiers := make([]cartdomain.WholesaleTier, 0, len(group.WholesaleTiers))
	for _, tier := range group.WholesaleTiers {
		tiers = append(tiers, cartdomain.WholesaleTier{
			MinQuantity: tier.MinQuantity,
			Price:       tier.Price,
		})
	}

	item := cartdomain.CartItem{
		StockID:        group.ID,
		GroupName:      group.GroupName,
		UnitPrice:      group.UnitPrice,
		OriginalPrice:  group.OriginalPrice,
		Quantity:       req.Quantity,
		SelectedColor:  req.Color,
		SelectedSize:   req.Size,
		ColorCode:      colorCode,
		WholesaleTiers: tiers,
	}

	if err := c.AddItem(item, group.CheckStock(req.Color, req.Size)); err != nil {
		return nil, err
	}

	s.stockService.Reduce(ctx, group, req.Color, req.Size, req.Quantity)
	s.refreshWholesale(c, group.GroupName)

	return s.respond(c)
}

// UpdateQuantity edits a line's quantity and mirrors the delta onto stock.
// Stock is not re-validated; an edit can go below zero availability and
// the decrement clamps.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, shopID uuid.UUID, itemID uuid.UUID, quantity int) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	item, err := c.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	stockID, color, size, groupName := item.StockID, item.SelectedColor, item.SelectedSize, item.GroupName

	delta, err := c.UpdateQuantity(itemID, quantity)
	if err != nil {
		return nil, err
	}

	s.adjustStock(ctx, stockID, shopID, color, size, delta)
	s.refreshWholesale(c, groupName)

	return s.respond(c)
}

// RemoveItem drops a line and restores its stock.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, shopID uuid.UUID, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	removed, err := c.RemoveItem(itemID)
	if err != nil {
		return nil, err
	}

	s.adjustStock(ctx, removed.StockID, shopID, removed.SelectedColor, removed.SelectedSize, -removed.Quantity)
	s.refreshWholesale(c, removed.GroupName)

	return s.respond(c)
}

// ApplyGroupDiscount discounts every line of a stock group.
func (s *CartService) ApplyGroupDiscount(sessionID string, req GroupDiscountRequest) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyGroupDiscount(req.GroupName, req.Percent); err != nil {
		return nil, err
	}
	return s.respond(c)
}

// ApplyVariantDiscount discounts one color's lines within a group.
func (s *CartService) ApplyVariantDiscount(sessionID string, req VariantDiscountRequest) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyVariantDiscount(req.GroupName, req.Color, req.Percent); err != nil {
		return nil, err
	}
	return s.respond(c)
}

// ApplyCartDiscount sets the cart-wide discount from either a percent or
// an amount. Exactly one of the two must be present.
func (s *CartService) ApplyCartDiscount(sessionID string, req CartDiscountRequest) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Percent != nil && req.Amount != nil:
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "provide either a percent or an amount, not both")
	case req.Percent != nil:
		err = c.SetCartDiscountPercent(*req.Percent)
	case req.Amount != nil:
		err = c.SetCartDiscountAmount(*req.Amount)
	default:
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "provide a percent or an amount")
	}
	if err != nil {
		return nil, err
	}
	return s.respond(c)
}

// ClearDiscounts removes all discounts in every scope.
func (s *CartService) ClearDiscounts(sessionID string) (*CartResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	c.ClearDiscounts()
	return s.respond(c)
}

// Abandon empties the session's cart, restoring the stock its lines held.
func (s *CartService) Abandon(ctx context.Context, sessionID string, shopID uuid.UUID) error {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return err
	}

	for _, item := range c.Clear() {
		s.adjustStock(ctx, item.StockID, shopID, item.SelectedColor, item.SelectedSize, -item.Quantity)
	}
	s.store.Remove(sessionID)
	return nil
}

// Totals prices the cart with the configured settings.
func (s *CartService) Totals(sessionID string) (*TotalsResponse, error) {
	c, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	totals, err := c.Totals(s.settings)
	if err != nil {
		return nil, err
	}
	resp := toTotalsResponse(totals)
	return &resp, nil
}

// Settings exposes the injected pricing settings to collaborating
// services, mainly checkout.
func (s *CartService) Settings() cartdomain.PricingSettings {
	return s.settings
}

// Store exposes the underlying session store.
func (s *CartService) Store() *Store {
	return s.store
}

// adjustStock mirrors a cart quantity delta onto inventory. Positive
// deltas reduce stock, negative deltas restore it. Failures are absorbed
// inside StockService; the cart state is already final.
func (s *CartService) adjustStock(ctx context.Context, stockID, shopID uuid.UUID, color, size string, delta int) {
	switch {
	case delta > 0:
		_, _ = s.stockService.ReduceByID(ctx, stockID, shopID, color, size, delta)
	case delta < 0:
		_, _ = s.stockService.RestoreByID(ctx, stockID, shopID, color, size, -delta)
	}
}

// refreshWholesale re-evaluates tier pricing for a group after its total
// quantity changed. An exact tier match applies the tier price; anything
// else clears it.
func (s *CartService) refreshWholesale(c *cartdomain.Cart, groupName string) {
	var tiers []cartdomain.WholesaleTier
	for i := range c.Items {
		if c.Items[i].GroupName == groupName {
			tiers = c.Items[i].WholesaleTiers
			break
		}
	}
	if len(tiers) == 0 {
		return
	}

	if tier := cartdomain.MatchTier(tiers, c.GroupQuantity(groupName)); tier != nil {
		_ = c.ApplyWholesalePricing(groupName, tier.Price)
	} else {
		c.ClearWholesalePricing(groupName)
	}
}

func (s *CartService) respond(c *cartdomain.Cart) (*CartResponse, error) {
	totals, err := c.Totals(s.settings)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c, totals)
	return &resp, nil
}
