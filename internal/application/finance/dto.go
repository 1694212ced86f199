package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/finance"
)

// ExpenseRequest creates or updates an expense
type ExpenseRequest struct {
	IncurredOn     time.Time       `json:"incurred_on" binding:"required"`
	Currency       string          `json:"currency" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CategoryID     uuid.UUID       `json:"category_id" binding:"required"`
	SpendingMenuID *uuid.UUID      `json:"spending_menu_id,omitempty"`
	Note           string          `json:"note"`
}

// ExpenseResponse is the expense in API responses
type ExpenseResponse struct {
	ID             uuid.UUID       `json:"id"`
	IncurredOn     time.Time       `json:"incurred_on"`
	Currency       string          `json:"currency"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     uuid.UUID       `json:"category_id"`
	SpendingMenuID *uuid.UUID      `json:"spending_menu_id,omitempty"`
	Note           string          `json:"note,omitempty"`
	ReceiptURL     string          `json:"receipt_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts the aggregate into the API shape
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:             e.ID,
		IncurredOn:     e.IncurredOn,
		Currency:       e.Currency.String(),
		Amount:         e.Amount,
		CategoryID:     e.CategoryID,
		SpendingMenuID: e.SpendingMenuID,
		Note:           e.Note,
		ReceiptURL:     e.ReceiptURL,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// CategoryRequest creates or renames an expense category
type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse is the category in API responses
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SpendingMenuRequest creates a spending menu under a category
type SpendingMenuRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
}

// SpendingMenuResponse is the spending menu in API responses
type SpendingMenuResponse struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}
