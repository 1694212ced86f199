package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransaction(t *testing.T) *Transaction {
	txn, err := NewTransaction(uuid.New(), "TXN-20260831-0001", PaymentCash, valueobject.THB)
	require.NoError(t, err)
	return txn
}

func addTestLine(t *testing.T, txn *Transaction, groupName string, qty int, unitPrice, originalPrice float64) {
	err := txn.AddItem(uuid.New(), groupName, "Red", "#ff0000", "M", qty,
		decimal.NewFromFloat(unitPrice), decimal.NewFromFloat(originalPrice), nil)
	require.NoError(t, err)
}

func completeTestTransaction(t *testing.T) *Transaction {
	txn := createTestTransaction(t)
	addTestLine(t, txn, "Denim Jacket", 2, 100, 60)
	addTestLine(t, txn, "Linen Shirt", 1, 50, 30)
	require.NoError(t, txn.SetTotals(
		decimal.NewFromInt(250), decimal.Zero, decimal.Zero,
		decimal.Zero, decimal.Zero, decimal.NewFromInt(250)))
	require.NoError(t, txn.Complete())
	return txn
}

func TestNewTransaction(t *testing.T) {
	txn := createTestTransaction(t)
	assert.Equal(t, StatusPending, txn.Status)
	assert.Equal(t, PaymentCash, txn.PaymentMethod)
	assert.Equal(t, valueobject.THB, txn.SellingCurrency)
	assert.Len(t, txn.GetDomainEvents(), 1)
}

func TestNewTransaction_Validation(t *testing.T) {
	shopID := uuid.New()

	_, err := NewTransaction(shopID, "", PaymentCash, valueobject.THB)
	assert.Error(t, err)

	_, err = NewTransaction(shopID, "TXN-1", PaymentMethod("check"), valueobject.THB)
	assert.Error(t, err)

	_, err = NewTransaction(shopID, "TXN-1", PaymentCash, valueobject.Currency("USD"))
	assert.Error(t, err)
}

func TestTransactionStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusRefunded, false},
		{StatusCompleted, StatusRefunded, true},
		{StatusCompleted, StatusPartiallyRefunded, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusPartiallyRefunded, StatusRefunded, true},
		{StatusPartiallyRefunded, StatusPartiallyRefunded, true},
		{StatusCancelled, StatusCompleted, false},
		{StatusRefunded, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTransaction_Complete(t *testing.T) {
	txn := createTestTransaction(t)
	addTestLine(t, txn, "Denim Jacket", 1, 100, 60)

	require.NoError(t, txn.Complete())
	assert.Equal(t, StatusCompleted, txn.Status)
	require.NotNil(t, txn.CompletedAt)

	// Completing twice is rejected
	assert.Error(t, txn.Complete())
}

func TestTransaction_Complete_EmptyRejected(t *testing.T) {
	txn := createTestTransaction(t)
	assert.Error(t, txn.Complete())
}

func TestTransaction_AddItem_OnlyWhilePending(t *testing.T) {
	txn := completeTestTransaction(t)
	err := txn.AddItem(uuid.New(), "Late Line", "Red", "", "M", 1,
		decimal.NewFromInt(10), decimal.NewFromInt(5), nil)
	assert.Error(t, err)
}

func TestTransaction_Cancel(t *testing.T) {
	txn := createTestTransaction(t)
	addTestLine(t, txn, "Denim Jacket", 1, 100, 60)

	require.NoError(t, txn.Cancel("customer walked away"))
	assert.Equal(t, StatusCancelled, txn.Status)
	assert.False(t, txn.CountsAsRevenue())

	assert.Error(t, txn.Cancel("again"))
}

func TestTransaction_Cancel_RequiresReason(t *testing.T) {
	txn := createTestTransaction(t)
	assert.Error(t, txn.Cancel(""))
}

func TestTransaction_Cancel_AfterCompleteRejected(t *testing.T) {
	txn := completeTestTransaction(t)
	assert.Error(t, txn.Cancel("too late"))
}

func TestTransaction_PartialRefund(t *testing.T) {
	txn := completeTestTransaction(t)

	refund, err := txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(100)},
	}, "wrong size")
	require.NoError(t, err)

	assert.Equal(t, StatusPartiallyRefunded, txn.Status)
	assert.True(t, refund.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, txn.ItemNetQuantity(0))
	assert.Equal(t, 1, txn.ItemNetQuantity(1))
	assert.True(t, txn.NetRevenue().Equal(decimal.NewFromInt(150)))
	assert.True(t, txn.CountsAsRevenue())
}

func TestTransaction_FullRefundAcrossTwoCalls(t *testing.T) {
	txn := completeTestTransaction(t)

	_, err := txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 2, Amount: decimal.NewFromInt(200)},
	}, "defective")
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyRefunded, txn.Status)

	_, err = txn.Refund([]RefundRequestLine{
		{ItemIndex: 1, Quantity: 1, Amount: decimal.NewFromInt(50)},
	}, "defective")
	require.NoError(t, err)

	assert.Equal(t, StatusRefunded, txn.Status)
	assert.True(t, txn.NetRevenue().IsZero())
	assert.Equal(t, 0, txn.ItemNetQuantity(0))
	assert.Equal(t, 0, txn.ItemNetQuantity(1))
}

func TestTransaction_Refund_Validation(t *testing.T) {
	txn := completeTestTransaction(t)

	_, err := txn.Refund(nil, "empty")
	assert.Error(t, err)

	_, err = txn.Refund([]RefundRequestLine{
		{ItemIndex: 5, Quantity: 1, Amount: decimal.NewFromInt(10)},
	}, "bad index")
	assert.Error(t, err)

	_, err = txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 3, Amount: decimal.NewFromInt(10)},
	}, "too many")
	assert.Error(t, err)

	_, err = txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(-10)},
	}, "negative")
	assert.Error(t, err)
}

func TestTransaction_Refund_OnlyAfterCompletion(t *testing.T) {
	txn := createTestTransaction(t)
	addTestLine(t, txn, "Denim Jacket", 1, 100, 60)

	_, err := txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(100)},
	}, "not paid yet")
	assert.Error(t, err)
}

func TestTransaction_Refund_RemainingQuantityShrinks(t *testing.T) {
	txn := completeTestTransaction(t)

	_, err := txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(100)},
	}, "first")
	require.NoError(t, err)

	// Only one unit remains at index 0
	_, err = txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 2, Amount: decimal.NewFromInt(200)},
	}, "second")
	assert.Error(t, err)
}

func TestTransaction_NetRevenue_FlooredAtZero(t *testing.T) {
	txn := completeTestTransaction(t)

	// Refund amounts are operator-entered and may exceed the line total
	_, err := txn.Refund([]RefundRequestLine{
		{ItemIndex: 0, Quantity: 2, Amount: decimal.NewFromInt(500)},
	}, "goodwill")
	require.NoError(t, err)

	assert.True(t, txn.NetRevenue().IsZero())
}

func TestTransaction_SetTotals(t *testing.T) {
	txn := createTestTransaction(t)
	addTestLine(t, txn, "Denim Jacket", 3, 100, 60)

	err := txn.SetTotals(
		decimal.NewFromInt(270), decimal.NewFromInt(10), decimal.NewFromInt(27),
		decimal.NewFromInt(7), decimal.RequireFromString("17.01"), decimal.RequireFromString("260.01"))
	require.NoError(t, err)
	assert.True(t, txn.Total.Equal(decimal.RequireFromString("260.01")))

	require.NoError(t, txn.Complete())
	assert.Error(t, txn.SetTotals(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero))
}

func TestTransaction_DiscountedLineUsesEffectivePrice(t *testing.T) {
	txn := createTestTransaction(t)
	discounted := decimal.NewFromInt(90)
	err := txn.AddItem(uuid.New(), "Denim Jacket", "Red", "", "M", 3,
		decimal.NewFromInt(100), decimal.NewFromInt(60), &discounted)
	require.NoError(t, err)

	assert.True(t, txn.Items[0].LineTotal.Equal(decimal.NewFromInt(270)))
	assert.True(t, txn.Items[0].UnitProfit().Equal(decimal.NewFromInt(30)))
}

func TestTransaction_CompletedEventCarriesLines(t *testing.T) {
	txn := completeTestTransaction(t)

	events := txn.GetDomainEvents()
	var completed *TransactionCompletedEvent
	for _, e := range events {
		if c, ok := e.(*TransactionCompletedEvent); ok {
			completed = c
		}
	}
	require.NotNil(t, completed)
	assert.Len(t, completed.Lines, 2)
	assert.Equal(t, 2, completed.Lines[0].Quantity)
}
