package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// CurrencySummary aggregates one currency's figures over a window.
// Transactions bucket by their selling currency and expenses by their own
// currency; the two are never converted before netting.
type CurrencySummary struct {
	Currency         valueobject.Currency `json:"currency"`
	TransactionCount int64                `json:"transaction_count"`
	ItemsSold        int                  `json:"items_sold"`
	Revenue          decimal.Decimal      `json:"revenue"`
	Refunds          decimal.Decimal      `json:"refunds"`
	Profit           decimal.Decimal      `json:"profit"`
	Expenses         decimal.Decimal      `json:"expenses"`
	Net              decimal.Decimal      `json:"net"`
}

// DailyPoint is one day of one currency in the trend series
type DailyPoint struct {
	Date             time.Time            `json:"date"`
	Currency         valueobject.Currency `json:"currency"`
	TransactionCount int64                `json:"transaction_count"`
	ItemsSold        int                  `json:"items_sold"`
	Revenue          decimal.Decimal      `json:"revenue"`
	Profit           decimal.Decimal      `json:"profit"`
	Expenses         decimal.Decimal      `json:"expenses"`
}

// SalesReport is the full report for a window
type SalesReport struct {
	From       time.Time         `json:"from"`
	To         time.Time         `json:"to"`
	Currencies []CurrencySummary `json:"currencies"`
	Trend      []DailyPoint      `json:"trend"`
}

// GroupSales ranks a stock group by quantity sold over a window
type GroupSales struct {
	GroupName string          `json:"group_name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}
