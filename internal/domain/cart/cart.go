package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// Cart is a per-session aggregate of line items plus a cart-wide discount.
// It lives in memory for the duration of a selling session and is only
// persisted indirectly, as the transaction produced at checkout.
type Cart struct {
	shared.ShopAggregateRoot
	Items               []CartItem
	CartDiscountPercent decimal.Decimal
	Currency            valueobject.Currency
}

// CartItem is one sellable line: a stock group narrowed to a color and size.
// Pricing overrides are carried on the line itself so the totals pipeline
// never reaches back into the catalog.
type CartItem struct {
	ID                 uuid.UUID
	StockID            uuid.UUID
	GroupName          string
	UnitPrice          decimal.Decimal
	OriginalPrice      decimal.Decimal
	Quantity           int
	SelectedColor      string
	SelectedSize       string
	ColorCode          string
	DiscountedPrice    *decimal.Decimal
	GroupDiscount      *decimal.Decimal
	VariantDiscount    *decimal.Decimal
	IsWholesalePricing bool
	WholesaleTiers     []WholesaleTier
}

// WholesaleTier is a snapshot of a stock group's tier taken when the item
// enters the cart. Matching is by exact quantity, not a threshold.
type WholesaleTier struct {
	MinQuantity int
	Price       decimal.Decimal
}

func NewCart(shopID uuid.UUID, currency valueobject.Currency) (*Cart, error) {
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("unsupported currency: %s", currency))
	}
	return &Cart{
		ShopAggregateRoot:   shared.NewShopAggregateRoot(shopID),
		Items:               []CartItem{},
		CartDiscountPercent: decimal.Zero,
		Currency:            currency,
	}, nil
}

// EffectivePrice returns the per-unit price the totals pipeline uses:
// the discounted price when one is set, the unit price otherwise.
func (i *CartItem) EffectivePrice() decimal.Decimal {
	if i.DiscountedPrice != nil {
		return *i.DiscountedPrice
	}
	return i.UnitPrice
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddItem appends a line or merges it into an existing line with the same
// stock, color, and size. availableStock is the remaining quantity at that
// color/size; the requested quantity may not exceed it.
func (c *Cart) AddItem(item CartItem, availableStock int) error {
	if item.SelectedColor == "" {
		return shared.NewDomainError("COLOR_REQUIRED", "a color must be selected before adding to cart")
	}
	if item.SelectedSize == "" {
		return shared.NewDomainError("SIZE_REQUIRED", "a size must be selected before adding to cart")
	}
	if item.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be at least 1")
	}
	if item.Quantity > availableStock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("requested %d but only %d in stock for %s %s/%s",
				item.Quantity, availableStock, item.GroupName, item.SelectedColor, item.SelectedSize))
	}

	if existing := c.findLine(item.StockID, item.SelectedColor, item.SelectedSize); existing != nil {
		existing.Quantity += item.Quantity
		c.IncrementVersion()
		return nil
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	c.Items = append(c.Items, item)
	c.IncrementVersion()
	return nil
}

// UpdateQuantity sets a line's quantity, clamping to a minimum of 1.
// Stock is not re-validated here; availability is checked at add time and
// again at checkout. The returned delta (new minus old) lets the caller
// mirror the change onto inventory.
func (c *Cart) UpdateQuantity(itemID uuid.UUID, quantity int) (int, error) {
	item := c.findByID(itemID)
	if item == nil {
		return 0, shared.ErrNotFound
	}
	if quantity < 1 {
		quantity = 1
	}
	delta := quantity - item.Quantity
	item.Quantity = quantity
	c.IncrementVersion()
	return delta, nil
}

// RemoveItem deletes a line and returns it so the caller can restore stock.
func (c *Cart) RemoveItem(itemID uuid.UUID) (*CartItem, error) {
	for idx := range c.Items {
		if c.Items[idx].ID == itemID {
			removed := c.Items[idx]
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.IncrementVersion()
			return &removed, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Clear empties the cart and resets the cart-wide discount. Used after a
// successful checkout and on explicit abandon.
func (c *Cart) Clear() []CartItem {
	cleared := c.Items
	c.Items = []CartItem{}
	c.CartDiscountPercent = decimal.Zero
	c.IncrementVersion()
	return cleared
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) ItemCount() int {
	return len(c.Items)
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// GroupQuantity sums quantities across every line of a stock group,
// which is the quantity wholesale tiers match against.
func (c *Cart) GroupQuantity(groupName string) int {
	total := 0
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].GroupName, groupName) {
			total += c.Items[i].Quantity
		}
	}
	return total
}

func (c *Cart) GetItem(itemID uuid.UUID) (*CartItem, error) {
	if item := c.findByID(itemID); item != nil {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (c *Cart) findByID(itemID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) findLine(stockID uuid.UUID, color, size string) *CartItem {
	for i := range c.Items {
		item := &c.Items[i]
		if item.StockID == stockID &&
			strings.EqualFold(item.SelectedColor, color) &&
			strings.EqualFold(item.SelectedSize, size) {
			return item
		}
	}
	return nil
}
