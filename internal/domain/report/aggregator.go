package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// BuildSalesReport folds transactions and expenses into per-currency
// summaries and a daily trend. Only revenue-bearing transactions count:
// completed, partially refunded, and refunded. Refunds are netted per
// transaction and floored at zero; a fully refunded line contributes no
// profit. Each transaction lands wholly in its selling currency's bucket.
func BuildSalesReport(from, to time.Time, txns []*sales.Transaction, expenses []*finance.Expense) *SalesReport {
	summaries := map[valueobject.Currency]*CurrencySummary{}
	trend := map[dayKey]*DailyPoint{}

	summaryFor := func(c valueobject.Currency) *CurrencySummary {
		if s, ok := summaries[c]; ok {
			return s
		}
		s := &CurrencySummary{
			Currency: c,
			Revenue:  decimal.Zero,
			Refunds:  decimal.Zero,
			Profit:   decimal.Zero,
			Expenses: decimal.Zero,
			Net:      decimal.Zero,
		}
		summaries[c] = s
		return s
	}

	pointFor := func(day time.Time, c valueobject.Currency) *DailyPoint {
		key := dayKey{day: day.Format("2006-01-02"), currency: c}
		if p, ok := trend[key]; ok {
			return p
		}
		p := &DailyPoint{
			Date:     day,
			Currency: c,
			Revenue:  decimal.Zero,
			Profit:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		trend[key] = p
		return p
	}

	for _, txn := range txns {
		if !txn.CountsAsRevenue() {
			continue
		}

		revenue := txn.NetRevenue()
		profit := transactionProfit(txn)
		itemsSold := netItemsSold(txn)

		s := summaryFor(txn.SellingCurrency)
		s.TransactionCount++
		s.ItemsSold += itemsSold
		s.Revenue = s.Revenue.Add(revenue)
		s.Refunds = s.Refunds.Add(txn.TotalRefunded())
		s.Profit = s.Profit.Add(profit)

		p := pointFor(dayOf(transactionDate(txn)), txn.SellingCurrency)
		p.TransactionCount++
		p.ItemsSold += itemsSold
		p.Revenue = p.Revenue.Add(revenue)
		p.Profit = p.Profit.Add(profit)
	}

	for _, expense := range expenses {
		s := summaryFor(expense.Currency)
		s.Expenses = s.Expenses.Add(expense.Amount)

		p := pointFor(dayOf(expense.IncurredOn), expense.Currency)
		p.Expenses = p.Expenses.Add(expense.Amount)
	}

	report := &SalesReport{From: from, To: to}
	for _, s := range summaries {
		s.Net = s.Profit.Sub(s.Expenses)
		report.Currencies = append(report.Currencies, *s)
	}
	sort.Slice(report.Currencies, func(i, j int) bool {
		return report.Currencies[i].Currency < report.Currencies[j].Currency
	})

	for _, p := range trend {
		report.Trend = append(report.Trend, *p)
	}
	sort.Slice(report.Trend, func(i, j int) bool {
		if !report.Trend[i].Date.Equal(report.Trend[j].Date) {
			return report.Trend[i].Date.Before(report.Trend[j].Date)
		}
		return report.Trend[i].Currency < report.Trend[j].Currency
	})

	return report
}

// TopGroups ranks stock groups by net quantity sold. Quantities refunded
// back are excluded.
func TopGroups(txns []*sales.Transaction, limit int) []GroupSales {
	byGroup := map[string]*GroupSales{}

	for _, txn := range txns {
		if !txn.CountsAsRevenue() {
			continue
		}
		for idx := range txn.Items {
			item := &txn.Items[idx]
			netQty := txn.ItemNetQuantity(idx)
			if netQty == 0 {
				continue
			}
			g, ok := byGroup[item.GroupName]
			if !ok {
				g = &GroupSales{GroupName: item.GroupName, Revenue: decimal.Zero, Profit: decimal.Zero}
				byGroup[item.GroupName] = g
			}
			qty := decimal.NewFromInt(int64(netQty))
			g.Quantity += netQty
			g.Revenue = g.Revenue.Add(item.EffectivePrice().Mul(qty))
			g.Profit = g.Profit.Add(item.UnitPrice.Sub(item.OriginalPrice).Mul(qty))
		}
	}

	ranked := make([]GroupSales, 0, len(byGroup))
	for _, g := range byGroup {
		ranked = append(ranked, *g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].GroupName < ranked[j].GroupName
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

type dayKey struct {
	day      string
	currency valueobject.Currency
}

// transactionProfit sums (unit price minus original price) times the net
// quantity of each line. The margin is taken at list price, matching how
// the shop tracks markup; discounts show up in revenue, not here.
func transactionProfit(txn *sales.Transaction) decimal.Decimal {
	profit := decimal.Zero
	for idx := range txn.Items {
		netQty := txn.ItemNetQuantity(idx)
		if netQty == 0 {
			continue
		}
		item := &txn.Items[idx]
		margin := item.UnitPrice.Sub(item.OriginalPrice)
		profit = profit.Add(margin.Mul(decimal.NewFromInt(int64(netQty))))
	}
	return profit
}

func netItemsSold(txn *sales.Transaction) int {
	total := 0
	for idx := range txn.Items {
		total += txn.ItemNetQuantity(idx)
	}
	return total
}

func transactionDate(txn *sales.Transaction) time.Time {
	if txn.CompletedAt != nil {
		return *txn.CompletedAt
	}
	return txn.CreatedAt
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
