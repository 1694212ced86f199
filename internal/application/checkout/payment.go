package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/sales"
)

// ChargeRequest asks the payment collaborator to clear a sale
type ChargeRequest struct {
	TransactionNumber string
	Method            sales.PaymentMethod
	Amount            decimal.Decimal
	Currency          string
}

// ChargeResult reports the outcome of a clearance attempt. Declined is a
// normal business outcome, not an error; errors mean the attempt itself
// failed.
type ChargeResult struct {
	Approved  bool
	Reference string
	Message   string
}

// PaymentGateway clears payments. Card and QR methods go out to a
// terminal integration; cash approves locally.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
