package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
)

// AddItemRequest adds a color/size selection of a stock group to the cart
type AddItemRequest struct {
	StockID  uuid.UUID `json:"stock_id" binding:"required"`
	Color    string    `json:"color" binding:"required"`
	Size     string    `json:"size" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest changes a line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// GroupDiscountRequest applies a percentage discount to a stock group's lines
type GroupDiscountRequest struct {
	GroupName string          `json:"group_name" binding:"required"`
	Percent   decimal.Decimal `json:"percent"`
}

// VariantDiscountRequest applies a percentage discount to one color's lines
type VariantDiscountRequest struct {
	GroupName string          `json:"group_name" binding:"required"`
	Color     string          `json:"color" binding:"required"`
	Percent   decimal.Decimal `json:"percent"`
}

// CartDiscountRequest applies a cart-wide discount, either as a percent or
// as a currency amount that is converted to a percent of the subtotal
type CartDiscountRequest struct {
	Percent *decimal.Decimal `json:"percent,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// CartItemResponse is one cart line in API responses
type CartItemResponse struct {
	ID                 uuid.UUID        `json:"id"`
	StockID            uuid.UUID        `json:"stock_id"`
	GroupName          string           `json:"group_name"`
	Color              string           `json:"color"`
	ColorCode          string           `json:"color_code,omitempty"`
	Size               string           `json:"size"`
	Quantity           int              `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	DiscountedPrice    *decimal.Decimal `json:"discounted_price,omitempty"`
	GroupDiscount      *decimal.Decimal `json:"group_discount,omitempty"`
	VariantDiscount    *decimal.Decimal `json:"variant_discount,omitempty"`
	IsWholesalePricing bool             `json:"is_wholesale_pricing"`
	LineTotal          decimal.Decimal  `json:"line_total"`
}

// TotalsResponse is the priced summary of the cart
type TotalsResponse struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountPercent     decimal.Decimal `json:"discount_percent"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	AfterDiscount       decimal.Decimal `json:"after_discount"`
	TaxRate             decimal.Decimal `json:"tax_rate"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	WholesaleSavings    decimal.Decimal `json:"wholesale_savings"`
	Currency            string          `json:"currency"`
	ConvertedGrandTotal decimal.Decimal `json:"converted_grand_total,omitempty"`
	ConvertedCurrency   string          `json:"converted_currency,omitempty"`
}

// CartResponse is the full cart in API responses
type CartResponse struct {
	Items  []CartItemResponse `json:"items"`
	Totals TotalsResponse     `json:"totals"`
}

func toItemResponse(item *cartdomain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:                 item.ID,
		StockID:            item.StockID,
		GroupName:          item.GroupName,
		Color:              item.SelectedColor,
		ColorCode:          item.ColorCode,
		Size:               item.SelectedSize,
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		DiscountedPrice:    item.DiscountedPrice,
		GroupDiscount:      item.GroupDiscount,
		VariantDiscount:    item.VariantDiscount,
		IsWholesalePricing: item.IsWholesalePricing,
		LineTotal:          item.LineTotal(),
	}
}

func toTotalsResponse(totals *cartdomain.CartTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal:            totals.Subtotal,
		DiscountPercent:     totals.DiscountPercent,
		DiscountAmount:      totals.DiscountAmount,
		AfterDiscount:       totals.AfterDiscount,
		TaxRate:             totals.TaxRate,
		TaxAmount:           totals.TaxAmount,
		GrandTotal:          totals.GrandTotal,
		WholesaleSavings:    totals.WholesaleSavings,
		Currency:            totals.Currency.String(),
		ConvertedGrandTotal: totals.ConvertedGrandTotal,
		ConvertedCurrency:   totals.ConvertedCurrency.String(),
	}
}

// ToCartResponse converts a cart and its totals into the API shape
func ToCartResponse(c *cartdomain.Cart, totals *cartdomain.CartTotals) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, toItemResponse(&c.Items[i]))
	}
	return CartResponse{
		Items:  items,
		Totals: toTotalsResponse(totals),
	}
}
