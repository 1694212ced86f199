package sales

import (
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
)

const (
	EventTypeTransactionCreated   = "sales.transaction.created"
	EventTypeTransactionCompleted = "sales.transaction.completed"
	EventTypeTransactionCancelled = "sales.transaction.cancelled"
	EventTypeTransactionRefunded  = "sales.transaction.refunded"
)

const aggregateTypeTransaction = "Transaction"

// TransactionCreatedEvent is raised when a pending sale is opened
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string `json:"transaction_number"`
}

func NewTransactionCreatedEvent(t *Transaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCreated, aggregateTypeTransaction, t.ID, t.ShopID),
		TransactionNumber: t.TransactionNumber,
	}
}

// CompletedLine carries the stock coordinates of a sold line so event
// handlers can persist the inventory decrement without loading the sale.
type CompletedLine struct {
	StockID   string `json:"stock_id"`
	GroupName string `json:"group_name"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// TransactionCompletedEvent is raised when payment clears
type TransactionCompletedEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string          `json:"transaction_number"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	Lines             []CompletedLine `json:"lines"`
}

func NewTransactionCompletedEvent(t *Transaction) *TransactionCompletedEvent {
	lines := make([]CompletedLine, 0, len(t.Items))
	for i := range t.Items {
		item := &t.Items[i]
		lines = append(lines, CompletedLine{
			StockID:   item.StockID.String(),
			GroupName: item.GroupName,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return &TransactionCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCompleted, aggregateTypeTransaction, t.ID, t.ShopID),
		TransactionNumber: t.TransactionNumber,
		Total:             t.Total,
		Currency:          t.SellingCurrency.String(),
		Lines:             lines,
	}
}

// TransactionCancelledEvent is raised when a pending sale is voided.
// Handlers restore the stock that was reserved when lines entered the cart.
type TransactionCancelledEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string          `json:"transaction_number"`
	Reason            string          `json:"reason"`
	Lines             []CompletedLine `json:"lines"`
}

func NewTransactionCancelledEvent(t *Transaction) *TransactionCancelledEvent {
	lines := make([]CompletedLine, 0, len(t.Items))
	for i := range t.Items {
		item := &t.Items[i]
		lines = append(lines, CompletedLine{
			StockID:   item.StockID.String(),
			GroupName: item.GroupName,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
		})
	}
	return &TransactionCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCancelled, aggregateTypeTransaction, t.ID, t.ShopID),
		TransactionNumber: t.TransactionNumber,
		Reason:            t.CancelReason,
		Lines:             lines,
	}
}

// RefundedLine carries enough of a refunded line for handlers to restore
// stock for the returned quantity.
type RefundedLine struct {
	StockID   string          `json:"stock_id"`
	GroupName string          `json:"group_name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// TransactionRefundedEvent is raised for each refund recorded on a sale
type TransactionRefundedEvent struct {
	shared.BaseDomainEvent
	TransactionNumber string          `json:"transaction_number"`
	RefundID          string          `json:"refund_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FullyRefunded     bool            `json:"fully_refunded"`
	Lines             []RefundedLine  `json:"lines"`
}

func NewTransactionRefundedEvent(t *Transaction, refund *Refund) *TransactionRefundedEvent {
	lines := make([]RefundedLine, 0, len(refund.Items))
	for i := range refund.Items {
		ri := &refund.Items[i]
		item := &t.Items[ri.ItemIndex]
		lines = append(lines, RefundedLine{
			StockID:   item.StockID.String(),
			GroupName: item.GroupName,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  ri.Quantity,
			Amount:    ri.Amount,
		})
	}
	return &TransactionRefundedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionRefunded, aggregateTypeTransaction, t.ID, t.ShopID),
		TransactionNumber: t.TransactionNumber,
		RefundID:          refund.ID.String(),
		TotalAmount:       refund.TotalAmount,
		FullyRefunded:     t.Status == StatusRefunded,
		Lines:             lines,
	}
}
