package cart

import (
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// PricingSettings carries the business configuration the totals pipeline
// needs. It is passed explicitly on every call; the cart holds no ambient
// tax or currency state beyond its own display currency.
type PricingSettings struct {
	TaxRate         decimal.Decimal
	DefaultCurrency valueobject.Currency
	ConversionRate  decimal.Decimal
}

// CartTotals is the result of one run of the pricing pipeline. All amounts
// are in the cart's currency; ConvertedGrandTotal is the grand total
// expressed in the other supported currency when a conversion rate is set.
type CartTotals struct {
	Subtotal            decimal.Decimal
	DiscountPercent     decimal.Decimal
	DiscountAmount      decimal.Decimal
	AfterDiscount       decimal.Decimal
	TaxRate             decimal.Decimal
	TaxAmount           decimal.Decimal
	GrandTotal          decimal.Decimal
	WholesaleSavings    decimal.Decimal
	Currency            valueobject.Currency
	ConvertedGrandTotal decimal.Decimal
	ConvertedCurrency   valueobject.Currency
}

// Subtotal sums effective price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range c.Items {
		subtotal = subtotal.Add(c.Items[i].LineTotal())
	}
	return subtotal
}

// Totals runs the pricing pipeline in a fixed order: subtotal, then the
// cart-wide discount as a percentage of it, then tax on the discounted
// amount. Money amounts are rounded to two decimal places.
func (c *Cart) Totals(settings PricingSettings) (*CartTotals, error) {
	if settings.TaxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "tax rate cannot be negative")
	}

	subtotal := c.Subtotal().Round(2)
	discount := subtotal.Mul(c.CartDiscountPercent).Div(oneHundred).Round(2)
	afterDiscount := subtotal.Sub(discount)
	tax := afterDiscount.Mul(settings.TaxRate).Div(oneHundred).Round(2)
	grandTotal := afterDiscount.Add(tax).Round(2)

	totals := &CartTotals{
		Subtotal:         subtotal,
		DiscountPercent:  c.CartDiscountPercent,
		DiscountAmount:   discount,
		AfterDiscount:    afterDiscount,
		TaxRate:          settings.TaxRate,
		TaxAmount:        tax,
		GrandTotal:       grandTotal,
		WholesaleSavings: c.WholesaleSavings().Round(2),
		Currency:         c.Currency,
	}

	if settings.ConversionRate.IsPositive() {
		totals.ConvertedCurrency = c.Currency.Counterpart()
		if c.Currency == valueobject.THB {
			totals.ConvertedGrandTotal = grandTotal.Mul(settings.ConversionRate).Round(2)
		} else {
			totals.ConvertedGrandTotal = grandTotal.Div(settings.ConversionRate).Round(2)
		}
	}

	return totals, nil
}
