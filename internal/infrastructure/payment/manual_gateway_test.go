package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/application/checkout"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestManualGateway_Charge(t *testing.T) {
	t.Run("approves charge with reference", func(t *testing.T) {
		gateway := NewManualGateway(zaptest.NewLogger(t))

		result, err := gateway.Charge(context.Background(), checkout.ChargeRequest{
			TransactionNumber: "TXN-20260831-0001",
			Method:            sales.PaymentCash,
			Amount:            decimal.NewFromInt(200),
			Currency:          "THB",
		})

		require.NoError(t, err)
		assert.True(t, result.Approved)
		assert.True(t, strings.HasPrefix(result.Reference, "PAY-"))
	})

	t.Run("declines negative amount", func(t *testing.T) {
		gateway := NewManualGateway(zaptest.NewLogger(t))

		result, err := gateway.Charge(context.Background(), checkout.ChargeRequest{
			TransactionNumber: "TXN-20260831-0002",
			Method:            sales.PaymentCard,
			Amount:            decimal.NewFromInt(-5),
			Currency:          "THB",
		})

		require.NoError(t, err)
		assert.False(t, result.Approved)
		assert.Empty(t, result.Reference)
	})

	t.Run("generates distinct references", func(t *testing.T) {
		gateway := NewManualGateway(nil)

		first, err := gateway.Charge(context.Background(), checkout.ChargeRequest{Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
		second, err := gateway.Charge(context.Background(), checkout.ChargeRequest{Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)

		assert.NotEqual(t, first.Reference, second.Reference)
	})
}
