package report

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/report"
)

// ReportRequest selects a reporting window. From and To are only read when
// Window is "custom".
type ReportRequest struct {
	Window string    `form:"window" json:"window" binding:"required"`
	From   time.Time `form:"from" json:"from,omitempty" time_format:"2006-01-02"`
	To     time.Time `form:"to" json:"to,omitempty" time_format:"2006-01-02"`
}

// CurrencySummaryResponse is one currency's aggregate figures
type CurrencySummaryResponse struct {
	Currency         string          `json:"currency"`
	TransactionCount int64           `json:"transaction_count"`
	ItemsSold        int             `json:"items_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Refunds          decimal.Decimal `json:"refunds"`
	Profit           decimal.Decimal `json:"profit"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
}

// DailyPointResponse is one day of one currency in the trend series
type DailyPointResponse struct {
	Date             string          `json:"date"`
	Currency         string          `json:"currency"`
	TransactionCount int64           `json:"transaction_count"`
	ItemsSold        int             `json:"items_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Profit           decimal.Decimal `json:"profit"`
	Expenses         decimal.Decimal `json:"expenses"`
}

// ReportResponse is the full sales report
type ReportResponse struct {
	From       time.Time                 `json:"from"`
	To         time.Time                 `json:"to"`
	Currencies []CurrencySummaryResponse `json:"currencies"`
	Trend      []DailyPointResponse      `json:"trend"`
}

// GroupSalesResponse ranks one stock group
type GroupSalesResponse struct {
	GroupName string          `json:"group_name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}

// ToReportResponse converts the domain report into the API shape
func ToReportResponse(r *report.SalesReport) ReportResponse {
	currencies := make([]CurrencySummaryResponse, 0, len(r.Currencies))
	for _, c := range r.Currencies {
		currencies = append(currencies, CurrencySummaryResponse{
			Currency:         c.Currency.String(),
			TransactionCount: c.TransactionCount,
			ItemsSold:        c.ItemsSold,
			Revenue:          c.Revenue,
			Refunds:          c.Refunds,
			Profit:           c.Profit,
			Expenses:         c.Expenses,
			Net:              c.Net,
		})
	}

	trend := make([]DailyPointResponse, 0, len(r.Trend))
	for _, p := range r.Trend {
		trend = append(trend, DailyPointResponse{
			Date:             p.Date.Format("2006-01-02"),
			Currency:         p.Currency.String(),
			TransactionCount: p.TransactionCount,
			ItemsSold:        p.ItemsSold,
			Revenue:          p.Revenue,
			Profit:           p.Profit,
			Expenses:         p.Expenses,
		})
	}

	return ReportResponse{
		From:       r.From,
		To:         r.To,
		Currencies: currencies,
		Trend:      trend,
	}
}
