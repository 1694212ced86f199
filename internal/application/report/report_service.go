package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/report"
	"github.com/stitchpos/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// ReportService builds sales reports over completed transactions and
// recorded expenses
type ReportService struct {
	txnRepo     sales.TransactionRepository
	expenseRepo finance.ExpenseRepository
	logger      *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

func NewReportService(txnRepo sales.TransactionRepository, expenseRepo finance.ExpenseRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		txnRepo:     txnRepo,
		expenseRepo: expenseRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// SalesReport builds the report for the requested window
func (s *ReportService) SalesReport(ctx context.Context, shopID uuid.UUID, req ReportRequest) (*ReportResponse, error) {
	from, to, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	txns, expenses, err := s.load(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}

	built := report.BuildSalesReport(from, to, txns, expenses)
	resp := ToReportResponse(built)
	return &resp, nil
}

// TopGroups ranks stock groups by net quantity sold in the window
func (s *ReportService) TopGroups(ctx context.Context, shopID uuid.UUID, req ReportRequest, limit int) ([]GroupSalesResponse, error) {
	from, to, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.FindCompletedInRange(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	ranked := report.TopGroups(txns, limit)
	items := make([]GroupSalesResponse, 0, len(ranked))
	for _, g := range ranked {
		items = append(items, GroupSalesResponse{
			GroupName: g.GroupName,
			Quantity:  g.Quantity,
			Revenue:   g.Revenue,
			Profit:    g.Profit,
		})
	}
	return items, nil
}

// ExportCSV renders the report as a spreadsheet, a summary row per currency
// followed by the daily trend. The output starts with a UTF-8 byte order
// mark so Excel opens it correctly.
func (s *ReportService) ExportCSV(ctx context.Context, shopID uuid.UUID, req ReportRequest) ([]byte, error) {
	from, to, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	txns, expenses, err := s.load(ctx, shopID, from, to)
	if err != nil {
		return nil, err
	}
	built := report.BuildSalesReport(from, to, txns, expenses)

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Currency", "Transactions", "Items Sold", "Revenue", "Refunds", "Profit", "Expenses", "Net"}); err != nil {
		return nil, err
	}
	for _, c := range built.Currencies {
		record := []string{
			c.Currency.String(),
			strconv.FormatInt(c.TransactionCount, 10),
			strconv.Itoa(c.ItemsSold),
			c.Revenue.StringFixed(2),
			c.Refunds.StringFixed(2),
			c.Profit.StringFixed(2),
			c.Expenses.StringFixed(2),
			c.Net.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{"Date", "Currency", "Transactions", "Items Sold", "Revenue", "Profit", "Expenses"}); err != nil {
		return nil, err
	}
	for _, p := range built.Trend {
		record := []string{
			p.Date.Format("2006-01-02"),
			p.Currency.String(),
			strconv.FormatInt(p.TransactionCount, 10),
			strconv.Itoa(p.ItemsSold),
			p.Revenue.StringFixed(2),
			p.Profit.StringFixed(2),
			p.Expenses.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportService) resolveWindow(req ReportRequest) (time.Time, time.Time, error) {
	window := report.Window(req.Window)
	if window == report.WindowCustom {
		return report.CustomRange(req.From, req.To)
	}
	return window.Range(s.now())
}

func (s *ReportService) load(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*sales.Transaction, []*finance.Expense, error) {
	txns, err := s.txnRepo.FindCompletedInRange(ctx, shopID, from, to)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.expenseRepo.FindInRange(ctx, shopID, from, to)
	if err != nil {
		return nil, nil, err
	}
	return txns, expenses, nil
}
