package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// TransactionStatus represents the lifecycle state of a sale
type TransactionStatus string

const (
	StatusPending           TransactionStatus = "pending"
	StatusCompleted         TransactionStatus = "completed"
	StatusCancelled         TransactionStatus = "cancelled"
	StatusRefunded          TransactionStatus = "refunded"
	StatusPartiallyRefunded TransactionStatus = "partially_refunded"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusRefunded, StatusPartiallyRefunded:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions happen only through checkout, cancel, and refund operations.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted:
		return target == StatusRefunded || target == StatusPartiallyRefunded
	case StatusPartiallyRefunded:
		return target == StatusRefunded || target == StatusPartiallyRefunded
	case StatusCancelled, StatusRefunded:
		return false // Terminal states
	}
	return false
}

// PaymentMethod is how the customer settled the sale
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentQR       PaymentMethod = "qr"
	PaymentTransfer PaymentMethod = "transfer"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentQR, PaymentTransfer:
		return true
	}
	return false
}

func (p PaymentMethod) String() string {
	return string(p)
}

// TransactionItem is the immutable snapshot of a cart line taken at
// checkout. Refunds reference these lines by their position in the slice,
// so the order of Items must never change after completion.
type TransactionItem struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TransactionID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	StockID         uuid.UUID        `gorm:"type:uuid;not null"`
	GroupName       string           `gorm:"type:varchar(200);not null"`
	Color           string           `gorm:"type:varchar(100);not null"`
	ColorCode       string           `gorm:"type:varchar(20)"`
	Size            string           `gorm:"type:varchar(20);not null"`
	Quantity        int              `gorm:"not null"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OriginalPrice   decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	DiscountedPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LineTotal       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SortOrder       int              `gorm:"not null"`
	CreatedAt       time.Time
}

func (TransactionItem) TableName() string {
	return "transaction_items"
}

// EffectivePrice is the per-unit price actually charged.
func (i *TransactionItem) EffectivePrice() decimal.Decimal {
	if i.DiscountedPrice != nil {
		return *i.DiscountedPrice
	}
	return i.UnitPrice
}

// UnitProfit is the per-unit margin at the charged price.
func (i *TransactionItem) UnitProfit() decimal.Decimal {
	return i.EffectivePrice().Sub(i.OriginalPrice)
}

// RefundItem points at a transaction line by positional index.
type RefundItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RefundID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemIndex int             `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (RefundItem) TableName() string {
	return "refund_items"
}

// Refund records one full or partial return against a completed sale.
type Refund struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items         []RefundItem    `gorm:"foreignKey:RefundID;constraint:OnDelete:CASCADE"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason        string          `gorm:"type:varchar(500)"`
	RefundedAt    time.Time       `gorm:"not null"`
}

func (Refund) TableName() string {
	return "refunds"
}

// Transaction is the sale aggregate root. Transactions are never deleted;
// cancellation and refunds are recorded as state, not removal.
type Transaction struct {
	shared.ShopAggregateRoot
	TransactionNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Items             []TransactionItem    `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Subtotal          decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	DiscountPercent   decimal.Decimal      `gorm:"type:decimal(8,4);not null;default:0"`
	DiscountAmount    decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate           decimal.Decimal      `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount         decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	Total             decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	PaymentMethod     PaymentMethod        `gorm:"type:varchar(20);not null"`
	SellingCurrency   valueobject.Currency `gorm:"type:varchar(3);not null"`
	Status            TransactionStatus    `gorm:"type:varchar(30);not null;index"`
	Refunds           []Refund             `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a pending transaction for the given shop
func NewTransaction(shopID uuid.UUID, number string, payment PaymentMethod, currency valueobject.Currency) (*Transaction, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "transaction number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "transaction number cannot exceed 50 characters")
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("unknown payment method: %s", payment))
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("unsupported currency: %s", currency))
	}

	txn := &Transaction{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		TransactionNumber: number,
		Items:             make([]TransactionItem, 0),
		Subtotal:          decimal.Zero,
		DiscountPercent:   decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxRate:           decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		PaymentMethod:     payment,
		SellingCurrency:   currency,
		Status:            StatusPending,
		Refunds:           make([]Refund, 0),
	}

	txn.AddDomainEvent(NewTransactionCreatedEvent(txn))

	return txn, nil
}

// AddItem appends a line snapshot. Only allowed while pending; line order
// is fixed once the sale completes.
func (t *Transaction) AddItem(stockID uuid.UUID, groupName, color, colorCode, size string, quantity int, unitPrice, originalPrice decimal.Decimal, discountedPrice *decimal.Decimal) error {
	if t.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "cannot add items to a non-pending transaction")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}

	effective := unitPrice
	if discountedPrice != nil {
		if discountedPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "discounted price cannot be negative")
		}
		effective = *discountedPrice
	}

	t.Items = append(t.Items, TransactionItem{
		ID:              uuid.New(),
		TransactionID:   t.ID,
		StockID:         stockID,
		GroupName:       groupName,
		Color:           color,
		ColorCode:       colorCode,
		Size:            size,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		OriginalPrice:   originalPrice,
		DiscountedPrice: discountedPrice,
		LineTotal:       effective.Mul(decimal.NewFromInt(int64(quantity))),
		SortOrder:       len(t.Items),
		CreatedAt:       time.Now(),
	})
	t.UpdatedAt = time.Now()

	return nil
}

// SetTotals records the cart's computed totals on the transaction.
// Only allowed while pending.
func (t *Transaction) SetTotals(subtotal, discountPercent, discountAmount, taxRate, taxAmount, total decimal.Decimal) error {
	if t.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "cannot set totals on a non-pending transaction")
	}
	if subtotal.IsNegative() || discountAmount.IsNegative() || taxAmount.IsNegative() || total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "amounts cannot be negative")
	}

	t.Subtotal = subtotal
	t.DiscountPercent = discountPercent
	t.DiscountAmount = discountAmount
	t.TaxRate = taxRate
	t.TaxAmount = taxAmount
	t.Total = total
	t.UpdatedAt = time.Now()

	return nil
}

// Complete marks the sale as paid and final
func (t *Transaction) Complete() error {
	if !t.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot complete transaction in %s status", t.Status))
	}
	if len(t.Items) == 0 {
		return shared.ErrEmptyCart
	}

	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransactionCompletedEvent(t))

	return nil
}

// Cancel voids a pending sale. Stock restoration is handled by the
// application layer reacting to the event.
func (t *Transaction) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot cancel transaction in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "cancel reason is required")
	}

	now := time.Now()
	t.Status = StatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now

	t.AddDomainEvent(NewTransactionCancelledEvent(t))

	return nil
}

// RefundRequestLine identifies a line by index with the quantity and amount
// to refund.
type RefundRequestLine struct {
	ItemIndex int
	Quantity  int
	Amount    decimal.Decimal
}

// Refund records a full or partial return. Each line is validated against
// the remaining (not yet refunded) quantity at its index. The resulting
// status is refunded when every line reaches zero remaining quantity,
// partially_refunded otherwise.
func (t *Transaction) Refund(lines []RefundRequestLine, reason string) (*Refund, error) {
	if t.Status != StatusCompleted && t.Status != StatusPartiallyRefunded {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot refund transaction in %s status", t.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_REFUND", "refund must contain at least one line")
	}

	refund := Refund{
		ID:            uuid.New(),
		TransactionID: t.ID,
		Items:         make([]RefundItem, 0, len(lines)),
		TotalAmount:   decimal.Zero,
		Reason:        reason,
		RefundedAt:    time.Now(),
	}

	for _, line := range lines {
		if line.ItemIndex < 0 || line.ItemIndex >= len(t.Items) {
			return nil, shared.NewDomainError("INVALID_REFUND",
				fmt.Sprintf("item index %d out of range", line.ItemIndex))
		}
		if line.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_REFUND", "refund quantity must be at least 1")
		}
		if line.Amount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_REFUND", "refund amount cannot be negative")
		}
		remaining := t.ItemNetQuantity(line.ItemIndex)
		if line.Quantity > remaining {
			return nil, shared.NewDomainError("INVALID_REFUND",
				fmt.Sprintf("refund quantity %d exceeds remaining %d at index %d", line.Quantity, remaining, line.ItemIndex))
		}

		refund.Items = append(refund.Items, RefundItem{
			ID:        uuid.New(),
			RefundID:  refund.ID,
			ItemIndex: line.ItemIndex,
			Quantity:  line.Quantity,
			Amount:    line.Amount,
		})
		refund.TotalAmount = refund.TotalAmount.Add(line.Amount)
	}

	t.Refunds = append(t.Refunds, refund)

	if t.isFullyRefunded() {
		t.Status = StatusRefunded
	} else {
		t.Status = StatusPartiallyRefunded
	}
	t.UpdatedAt = time.Now()

	t.AddDomainEvent(NewTransactionRefundedEvent(t, &refund))

	return &refund, nil
}

// TotalRefunded sums every refund recorded on the sale.
func (t *Transaction) TotalRefunded() decimal.Decimal {
	total := decimal.Zero
	for i := range t.Refunds {
		total = total.Add(t.Refunds[i].TotalAmount)
	}
	return total
}

// NetRevenue is the total less all refunds, floored at zero.
func (t *Transaction) NetRevenue() decimal.Decimal {
	net := t.Total.Sub(t.TotalRefunded())
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// ItemNetQuantity is the quantity sold at a line index less the quantity
// refunded against that index, floored at zero.
func (t *Transaction) ItemNetQuantity(index int) int {
	if index < 0 || index >= len(t.Items) {
		return 0
	}
	net := t.Items[index].Quantity
	for i := range t.Refunds {
		for j := range t.Refunds[i].Items {
			if t.Refunds[i].Items[j].ItemIndex == index {
				net -= t.Refunds[i].Items[j].Quantity
			}
		}
	}
	if net < 0 {
		return 0
	}
	return net
}

func (t *Transaction) isFullyRefunded() bool {
	for idx := range t.Items {
		if t.ItemNetQuantity(idx) > 0 {
			return false
		}
	}
	return true
}

// ItemCount returns the number of lines on the sale
func (t *Transaction) ItemCount() int {
	return len(t.Items)
}

// TotalQuantity returns the sum of all line quantities
func (t *Transaction) TotalQuantity() int {
	total := 0
	for i := range t.Items {
		total += t.Items[i].Quantity
	}
	return total
}

// GetTotalMoney returns the grand total as Money
func (t *Transaction) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(t.Total, t.SellingCurrency)
	return m
}

// IsPending returns true if the sale has not been paid yet
func (t *Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// IsCompleted returns true if the sale was paid
func (t *Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsCancelled returns true if the sale was voided before payment
func (t *Transaction) IsCancelled() bool {
	return t.Status == StatusCancelled
}

// CountsAsRevenue reports whether the sale belongs in revenue reporting.
// Refunded sales still count; their refunds are netted out per line.
func (t *Transaction) CountsAsRevenue() bool {
	switch t.Status {
	case StatusCompleted, StatusPartiallyRefunded, StatusRefunded:
		return true
	}
	return false
}
