// Package payment holds the clearance adapters checkout talks to.
package payment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/stitchpos/backend/internal/application/checkout"
	"go.uber.org/zap"
)

// ManualGateway approves every charge locally. Cash is settled at the
// drawer and card, QR, and transfer payments are confirmed by the
// cashier reading the bank app, so there is no terminal to ask. The
// reference ties the approval back to the sale in audit logs.
type ManualGateway struct {
	logger *zap.Logger
}

// NewManualGateway creates a new ManualGateway
func NewManualGateway(logger *zap.Logger) *ManualGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManualGateway{logger: logger}
}

// Charge approves the payment and returns a locally generated reference
func (g *ManualGateway) Charge(ctx context.Context, req checkout.ChargeRequest) (*checkout.ChargeResult, error) {
	if req.Amount.IsNegative() {
		return &checkout.ChargeResult{
			Approved: false,
			Message:  "charge amount cannot be negative",
		}, nil
	}

	ref, err := chargeReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate charge reference: %w", err)
	}

	g.logger.Info("Payment cleared",
		zap.String("transaction_number", req.TransactionNumber),
		zap.String("method", req.Method.String()),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("currency", req.Currency),
		zap.String("reference", ref),
	)

	return &checkout.ChargeResult{
		Approved:  true,
		Reference: ref,
	}, nil
}

func chargeReference() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "PAY-" + hex.EncodeToString(b[:]), nil
}

// Ensure ManualGateway implements PaymentGateway
var _ checkout.PaymentGateway = (*ManualGateway)(nil)
