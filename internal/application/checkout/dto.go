package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/sales"
)

// CheckoutRequest turns the session's cart into a transaction
type CheckoutRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// RefundLineRequest refunds part of one transaction line, addressed by its
// position in the items array
type RefundLineRequest struct {
	ItemIndex int             `json:"item_index"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Amount    decimal.Decimal `json:"amount"`
}

// RefundRequest refunds one or more lines of a completed transaction
type RefundRequest struct {
	Lines  []RefundLineRequest `json:"lines" binding:"required,min=1"`
	Reason string              `json:"reason"`
}

// CancelRequest voids a pending transaction
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// TransactionItemResponse is one sold line in API responses
type TransactionItemResponse struct {
	StockID         uuid.UUID        `json:"stock_id"`
	GroupName       string           `json:"group_name"`
	Color           string           `json:"color"`
	Size            string           `json:"size"`
	Quantity        int              `json:"quantity"`
	NetQuantity     int              `json:"net_quantity"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
	LineTotal       decimal.Decimal  `json:"line_total"`
}

// RefundResponse is one recorded refund in API responses
type RefundResponse struct {
	ID          uuid.UUID       `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Reason      string          `json:"reason,omitempty"`
	RefundedAt  time.Time       `json:"refunded_at"`
}

// TransactionResponse is the full transaction in API responses
type TransactionResponse struct {
	ID                uuid.UUID                 `json:"id"`
	TransactionNumber string                    `json:"transaction_number"`
	Status            string                    `json:"status"`
	PaymentMethod     string                    `json:"payment_method"`
	Currency          string                    `json:"currency"`
	Items             []TransactionItemResponse `json:"items"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	DiscountAmount    decimal.Decimal           `json:"discount_amount"`
	TaxAmount         decimal.Decimal           `json:"tax_amount"`
	Total             decimal.Decimal           `json:"total"`
	NetRevenue        decimal.Decimal           `json:"net_revenue"`
	Refunds           []RefundResponse          `json:"refunds,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
}

// ToTransactionResponse converts the aggregate into the API shape
func ToTransactionResponse(t *sales.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, 0, len(t.Items))
	for idx := range t.Items {
		item := &t.Items[idx]
		items = append(items, TransactionItemResponse{
			StockID:         item.StockID,
			GroupName:       item.GroupName,
			Color:           item.Color,
			Size:            item.Size,
			Quantity:        item.Quantity,
			NetQuantity:     t.ItemNetQuantity(idx),
			UnitPrice:       item.UnitPrice,
			DiscountedPrice: item.DiscountedPrice,
			LineTotal:       item.LineTotal,
		})
	}

	refunds := make([]RefundResponse, 0, len(t.Refunds))
	for i := range t.Refunds {
		r := &t.Refunds[i]
		refunds = append(refunds, RefundResponse{
			ID:          r.ID,
			TotalAmount: r.TotalAmount,
			Reason:      r.Reason,
			RefundedAt:  r.RefundedAt,
		})
	}

	return TransactionResponse{
		ID:                t.ID,
		TransactionNumber: t.TransactionNumber,
		Status:            t.Status.String(),
		PaymentMethod:     t.PaymentMethod.String(),
		Currency:          t.SellingCurrency.String(),
		Items:             items,
		Subtotal:          t.Subtotal,
		DiscountAmount:    t.DiscountAmount,
		TaxAmount:         t.TaxAmount,
		Total:             t.Total,
		NetRevenue:        t.NetRevenue(),
		Refunds:           refunds,
		CreatedAt:         t.CreatedAt,
		CompletedAt:       t.CompletedAt,
	}
}
