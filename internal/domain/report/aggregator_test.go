package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedSale(t *testing.T, currency valueobject.Currency, qty int, unitPrice, originalPrice, total int64) *sales.Transaction {
	t.Helper()
	txn, err := sales.NewTransaction(uuid.New(), "TXN-"+uuid.NewString()[:8], sales.PaymentCash, currency)
	require.NoError(t, err)
	require.NoError(t, txn.AddItem(uuid.New(), "Denim Jacket", "Red", "", "M", qty,
		decimal.NewFromInt(unitPrice), decimal.NewFromInt(originalPrice), nil))
	require.NoError(t, txn.SetTotals(
		decimal.NewFromInt(total), decimal.Zero, decimal.Zero,
		decimal.Zero, decimal.Zero, decimal.NewFromInt(total)))
	require.NoError(t, txn.Complete())
	return txn
}

func testExpense(t *testing.T, currency valueobject.Currency, amount int64, on time.Time) *finance.Expense {
	t.Helper()
	e, err := finance.NewExpense(uuid.New(), on, currency, decimal.NewFromInt(amount), uuid.New())
	require.NoError(t, err)
	return e
}

func assertAmount(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(decimal.NewFromInt(expected)), "expected %d, got %s", expected, actual)
}

func TestWindow_Range(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		window   Window
		wantFrom time.Time
	}{
		{WindowToday, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{Window7Days, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)},
		{Window30Days, time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)},
		{Window90Days, time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)},
	}

	wantTo := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		from, to, err := tt.window.Range(now)
		require.NoError(t, err, tt.window)
		assert.True(t, from.Equal(tt.wantFrom), "%s from: got %s", tt.window, from)
		assert.True(t, to.Equal(wantTo), "%s to: got %s", tt.window, to)
	}

	from, to, err := WindowAll.Range(now)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.Equal(wantTo))

	_, _, err = WindowCustom.Range(now)
	assert.Error(t, err)

	_, _, err = Window("yesterday").Range(now)
	assert.Error(t, err)
}

func TestCustomRange(t *testing.T) {
	from, to, err := CustomRange(
		time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, from.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, to.Equal(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)))

	_, _, err = CustomRange(time.Time{}, time.Now())
	assert.Error(t, err)

	_, _, err = CustomRange(time.Now(), time.Now().AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestBuildSalesReport_SingleCurrency(t *testing.T) {
	txn := completedSale(t, valueobject.THB, 3, 100, 60, 300)
	expense := testExpense(t, valueobject.THB, 50, time.Now())

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{txn}, []*finance.Expense{expense})

	require.Len(t, r.Currencies, 1)
	s := r.Currencies[0]
	assert.Equal(t, valueobject.THB, s.Currency)
	assert.Equal(t, int64(1), s.TransactionCount)
	assert.Equal(t, 3, s.ItemsSold)
	assertAmount(t, 300, s.Revenue)
	assertAmount(t, 120, s.Profit)
	assertAmount(t, 50, s.Expenses)
	assertAmount(t, 70, s.Net)
}

func TestBuildSalesReport_SkipsNonRevenueStatuses(t *testing.T) {
	pending, err := sales.NewTransaction(uuid.New(), "TXN-P", sales.PaymentCash, valueobject.THB)
	require.NoError(t, err)

	cancelled, err := sales.NewTransaction(uuid.New(), "TXN-C", sales.PaymentCash, valueobject.THB)
	require.NoError(t, err)
	require.NoError(t, cancelled.AddItem(uuid.New(), "Denim Jacket", "Red", "", "M", 1,
		decimal.NewFromInt(100), decimal.NewFromInt(60), nil))
	require.NoError(t, cancelled.Cancel("changed mind"))

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{pending, cancelled}, nil)
	assert.Empty(t, r.Currencies)
	assert.Empty(t, r.Trend)
}

func TestBuildSalesReport_RefundsNetOut(t *testing.T) {
	txn := completedSale(t, valueobject.THB, 2, 100, 60, 200)
	_, err := txn.Refund([]sales.RefundRequestLine{
		{ItemIndex: 0, Quantity: 1, Amount: decimal.NewFromInt(100)},
	}, "wrong size")
	require.NoError(t, err)

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{txn}, nil)

	require.Len(t, r.Currencies, 1)
	s := r.Currencies[0]
	assertAmount(t, 100, s.Revenue)
	assertAmount(t, 100, s.Refunds)
	assertAmount(t, 40, s.Profit)
	assert.Equal(t, 1, s.ItemsSold)
}

func TestBuildSalesReport_FullyRefundedContributesZero(t *testing.T) {
	txn := completedSale(t, valueobject.THB, 2, 100, 60, 200)
	_, err := txn.Refund([]sales.RefundRequestLine{
		{ItemIndex: 0, Quantity: 2, Amount: decimal.NewFromInt(200)},
	}, "defective")
	require.NoError(t, err)

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{txn}, nil)

	require.Len(t, r.Currencies, 1)
	s := r.Currencies[0]
	assert.Equal(t, int64(1), s.TransactionCount)
	assert.Equal(t, 0, s.ItemsSold)
	assertAmount(t, 0, s.Revenue)
	assertAmount(t, 0, s.Profit)
}

func TestBuildSalesReport_CurrencyBuckets(t *testing.T) {
	thb := completedSale(t, valueobject.THB, 1, 100, 60, 100)
	mmk := completedSale(t, valueobject.MMK, 2, 5000, 3000, 10000)
	mmkExpense := testExpense(t, valueobject.MMK, 1500, time.Now())

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{thb, mmk}, []*finance.Expense{mmkExpense})

	require.Len(t, r.Currencies, 2)
	// Sorted by currency code: MMK before THB
	assert.Equal(t, valueobject.MMK, r.Currencies[0].Currency)
	assertAmount(t, 10000, r.Currencies[0].Revenue)
	assertAmount(t, 4000, r.Currencies[0].Profit)
	assertAmount(t, 1500, r.Currencies[0].Expenses)
	assertAmount(t, 2500, r.Currencies[0].Net)

	assert.Equal(t, valueobject.THB, r.Currencies[1].Currency)
	assertAmount(t, 100, r.Currencies[1].Revenue)
	assertAmount(t, 0, r.Currencies[1].Expenses)
}

func TestBuildSalesReport_DailyTrend(t *testing.T) {
	today := completedSale(t, valueobject.THB, 1, 100, 60, 100)
	expenseYesterday := testExpense(t, valueobject.THB, 30, time.Now().AddDate(0, 0, -1))

	r := BuildSalesReport(time.Time{}, time.Now(), []*sales.Transaction{today}, []*finance.Expense{expenseYesterday})

	require.Len(t, r.Trend, 2)
	assert.True(t, r.Trend[0].Date.Before(r.Trend[1].Date))
	assertAmount(t, 30, r.Trend[0].Expenses)
	assertAmount(t, 100, r.Trend[1].Revenue)
}

func TestTopGroups(t *testing.T) {
	a := completedSale(t, valueobject.THB, 3, 100, 60, 300)
	b := completedSale(t, valueobject.THB, 5, 100, 60, 500)
	for i := range b.Items {
		b.Items[i].GroupName = "Linen Shirt"
	}

	ranked := TopGroups([]*sales.Transaction{a, b}, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Linen Shirt", ranked[0].GroupName)
	assert.Equal(t, 5, ranked[0].Quantity)
	assert.Equal(t, "Denim Jacket", ranked[1].GroupName)

	top1 := TopGroups([]*sales.Transaction{a, b}, 1)
	require.Len(t, top1, 1)
	assert.Equal(t, "Linen Shirt", top1[0].GroupName)
}

func TestTopGroups_ExcludesRefundedQuantity(t *testing.T) {
	txn := completedSale(t, valueobject.THB, 3, 100, 60, 300)
	_, err := txn.Refund([]sales.RefundRequestLine{
		{ItemIndex: 0, Quantity: 3, Amount: decimal.NewFromInt(300)},
	}, "all returned")
	require.NoError(t, err)

	ranked := TopGroups([]*sales.Transaction{txn}, 10)
	assert.Empty(t, ranked)
}
