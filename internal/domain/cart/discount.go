package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// Discounts come in three independent scopes: cart-wide, per stock group,
// and per color variant within a group. Group and variant discounts write
// the line's DiscountedPrice directly, so whichever scope was applied last
// determines the effective price. Wholesale pricing overwrites the same
// field with a tier price.

func validatePercent(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_DISCOUNT",
			fmt.Sprintf("discount percent must be between 0 and 100, got %s", percent))
	}
	return nil
}

func discountedUnitPrice(unitPrice, percent decimal.Decimal) decimal.Decimal {
	return unitPrice.Sub(unitPrice.Mul(percent).Div(oneHundred)).Round(2)
}

// ApplyGroupDiscount sets a percentage discount on every line of a stock
// group and rewrites each affected line's discounted price.
func (c *Cart) ApplyGroupDiscount(groupName string, percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	matched := false
	for i := range c.Items {
		item := &c.Items[i]
		if !strings.EqualFold(item.GroupName, groupName) {
			continue
		}
		matched = true
		p := percent
		item.GroupDiscount = &p
		dp := discountedUnitPrice(item.UnitPrice, percent)
		item.DiscountedPrice = &dp
		item.IsWholesalePricing = false
	}
	if !matched {
		return shared.ErrNotFound
	}
	c.IncrementVersion()
	return nil
}

// ApplyVariantDiscount sets a percentage discount on the lines of one color
// within a stock group.
func (c *Cart) ApplyVariantDiscount(groupName, color string, percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	matched := false
	for i := range c.Items {
		item := &c.Items[i]
		if !strings.EqualFold(item.GroupName, groupName) || !strings.EqualFold(item.SelectedColor, color) {
			continue
		}
		matched = true
		p := percent
		item.VariantDiscount = &p
		dp := discountedUnitPrice(item.UnitPrice, percent)
		item.DiscountedPrice = &dp
		item.IsWholesalePricing = false
	}
	if !matched {
		return shared.ErrNotFound
	}
	c.IncrementVersion()
	return nil
}

// ApplyWholesalePricing overwrites the discounted price of every line in a
// group with a matched tier's per-item price. Callers match the tier first,
// typically with MatchTier against the group's total cart quantity.
func (c *Cart) ApplyWholesalePricing(groupName string, perItemPrice decimal.Decimal) error {
	if perItemPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "wholesale price cannot be negative")
	}
	matched := false
	for i := range c.Items {
		item := &c.Items[i]
		if !strings.EqualFold(item.GroupName, groupName) {
			continue
		}
		matched = true
		dp := perItemPrice
		item.DiscountedPrice = &dp
		item.IsWholesalePricing = true
	}
	if !matched {
		return shared.ErrNotFound
	}
	c.IncrementVersion()
	return nil
}

// ClearWholesalePricing removes tier pricing from a group's lines, falling
// back to whatever per-line discount is still recorded.
func (c *Cart) ClearWholesalePricing(groupName string) {
	for i := range c.Items {
		item := &c.Items[i]
		if !strings.EqualFold(item.GroupName, groupName) || !item.IsWholesalePricing {
			continue
		}
		item.IsWholesalePricing = false
		switch {
		case item.VariantDiscount != nil:
			dp := discountedUnitPrice(item.UnitPrice, *item.VariantDiscount)
			item.DiscountedPrice = &dp
		case item.GroupDiscount != nil:
			dp := discountedUnitPrice(item.UnitPrice, *item.GroupDiscount)
			item.DiscountedPrice = &dp
		default:
			item.DiscountedPrice = nil
		}
	}
	c.IncrementVersion()
}

// MatchTier returns the tier whose quantity equals total exactly, or nil.
// Tiers are not thresholds; quantity 11 against a 10-unit tier is no match.
func MatchTier(tiers []WholesaleTier, totalQuantity int) *WholesaleTier {
	for i := range tiers {
		if tiers[i].MinQuantity == totalQuantity {
			return &tiers[i]
		}
	}
	return nil
}

// SetCartDiscountPercent stores a cart-wide percentage discount. It is
// applied to the subtotal inside Totals, never written onto lines.
func (c *Cart) SetCartDiscountPercent(percent decimal.Decimal) error {
	if err := validatePercent(percent); err != nil {
		return err
	}
	c.CartDiscountPercent = percent
	c.IncrementVersion()
	return nil
}

// SetCartDiscountAmount converts a currency amount into a percentage of the
// current subtotal and stores that. If line prices or quantities change
// afterwards the percentage is reapplied to the new subtotal, so the
// absolute amount drifts with it.
func (c *Cart) SetCartDiscountAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "discount amount cannot be negative")
	}
	subtotal := c.Subtotal()
	if subtotal.IsZero() {
		return shared.ErrEmptyCart
	}
	if amount.GreaterThan(subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "discount amount cannot exceed the subtotal")
	}
	c.CartDiscountPercent = amount.Div(subtotal).Mul(oneHundred)
	c.IncrementVersion()
	return nil
}

// ClearDiscounts removes every discount in every scope.
func (c *Cart) ClearDiscounts() {
	for i := range c.Items {
		item := &c.Items[i]
		item.GroupDiscount = nil
		item.VariantDiscount = nil
		item.DiscountedPrice = nil
		item.IsWholesalePricing = false
	}
	c.CartDiscountPercent = decimal.Zero
	c.IncrementVersion()
}

// WholesaleSavings sums (unit price minus tier price) times quantity over
// lines priced by a tier. Lines that also carry a group or variant discount
// are skipped so the saving is not counted twice.
func (c *Cart) WholesaleSavings() decimal.Decimal {
	savings := decimal.Zero
	for i := range c.Items {
		item := &c.Items[i]
		if !item.IsWholesalePricing || item.DiscountedPrice == nil {
			continue
		}
		if item.GroupDiscount != nil || item.VariantDiscount != nil {
			continue
		}
		perUnit := item.UnitPrice.Sub(*item.DiscountedPrice)
		savings = savings.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return savings
}
