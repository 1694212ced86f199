package finance

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/finance"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ExpenseService handles expense bookkeeping
type ExpenseService struct {
	expenseRepo  finance.ExpenseRepository
	categoryRepo finance.ExpenseCategoryRepository
	menuRepo     finance.SpendingMenuRepository
	storage      ReceiptStorage
	logger       *zap.Logger
}

func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	categoryRepo finance.ExpenseCategoryRepository,
	menuRepo finance.SpendingMenuRepository,
	storage ReceiptStorage,
	logger *zap.Logger,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		menuRepo:     menuRepo,
		storage:      storage,
		logger:       logger,
	}
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, shopID uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	expense, err := finance.NewExpense(shopID, req.IncurredOn, valueobject.Currency(req.Currency), req.Amount, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if req.SpendingMenuID != nil {
		if _, err := s.menuRepo.FindByID(ctx, *req.SpendingMenuID); err != nil {
			return nil, err
		}
		expense.SetSpendingMenu(req.SpendingMenuID)
	}
	if req.Note != "" {
		expense.SetNote(req.Note)
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// GetByID loads one expense
func (s *ExpenseService) GetByID(ctx context.Context, id, shopID uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List pages through the shop's expenses
func (s *ExpenseService) List(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (*shared.Paginated[ExpenseResponse], error) {
	expenses, err := s.expenseRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.expenseRepo.CountForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		items = append(items, ToExpenseResponse(e))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces an expense's fields
func (s *ExpenseService) Update(ctx context.Context, id, shopID uuid.UUID, req ExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	if err := expense.Update(req.IncurredOn, valueobject.Currency(req.Currency), req.Amount, req.CategoryID); err != nil {
		return nil, err
	}
	expense.SetSpendingMenu(req.SpendingMenuID)
	expense.SetNote(req.Note)

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense
func (s *ExpenseService) Delete(ctx context.Context, id, shopID uuid.UUID) error {
	if _, err := s.expenseRepo.FindByIDForShop(ctx, id, shopID); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id, shopID)
}

// AttachReceipt uploads a receipt image and stores its URL on the expense
func (s *ExpenseService) AttachReceipt(ctx context.Context, id, shopID uuid.UUID, filename, contentType string, data []byte) (*ExpenseResponse, error) {
	if len(data) == 0 {
		return nil, shared.NewDomainError("INVALID_RECEIPT", "receipt file is empty")
	}

	expense, err := s.expenseRepo.FindByIDForShop(ctx, id, shopID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("receipts/%s/%s%s", shopID, id, path.Ext(filename))
	url, err := s.storage.Upload(ctx, key, contentType, data)
	if err != nil {
		s.logger.Error("receipt upload failed",
			zap.String("expense_id", id.String()), zap.Error(err))
		return nil, err
	}

	expense.AttachReceipt(url)
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}

	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// ExportCSV renders the shop's expenses as a spreadsheet. The output starts
// with a UTF-8 byte order mark so Excel opens it correctly.
func (s *ExpenseService) ExportCSV(ctx context.Context, shopID uuid.UUID) ([]byte, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 10000
	filter.OrderBy = "incurred_on"
	filter.OrderDir = "asc"
	expenses, err := s.expenseRepo.FindAllForShop(ctx, shopID, filter)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.FindAllForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Category", "Amount", "Currency", "Note"}); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		record := []string{
			e.IncurredOn.Format("2006-01-02"),
			categoryNames[e.CategoryID],
			e.Amount.StringFixed(2),
			e.Currency.String(),
			e.Note,
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

// CreateCategory adds an expense category
func (s *ExpenseService) CreateCategory(ctx context.Context, shopID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := finance.NewExpenseCategory(shopID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return &CategoryResponse{ID: category.ID, Name: category.Name}, nil
}

// ListCategories returns all categories of the shop
func (s *ExpenseService) ListCategories(ctx context.Context, shopID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAllForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return items, nil
}

// CreateSpendingMenu adds a spending menu under a category
func (s *ExpenseService) CreateSpendingMenu(ctx context.Context, shopID uuid.UUID, req SpendingMenuRequest) (*SpendingMenuResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	menu, err := finance.NewSpendingMenu(shopID, req.CategoryID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.menuRepo.Save(ctx, menu); err != nil {
		return nil, err
	}
	return &SpendingMenuResponse{ID: menu.ID, CategoryID: menu.CategoryID, Name: menu.Name}, nil
}

// ListSpendingMenus returns the menus of one category
func (s *ExpenseService) ListSpendingMenus(ctx context.Context, categoryID, shopID uuid.UUID) ([]SpendingMenuResponse, error) {
	menus, err := s.menuRepo.FindByCategory(ctx, categoryID, shopID)
	if err != nil {
		return nil, err
	}
	items := make([]SpendingMenuResponse, 0, len(menus))
	for _, m := range menus {
		items = append(items, SpendingMenuResponse{ID: m.ID, CategoryID: m.CategoryID, Name: m.Name})
	}
	return items, nil
}
