package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/stitchpos/backend/internal/application/finance"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// maxReceiptBytes caps receipt uploads at 5 MiB
const maxReceiptBytes = 5 << 20

// ExpenseHandler handles expense, category and spending menu endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *financeapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *financeapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// Create records a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// List returns a paginated page of the shop's expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.expenseService.List(c.Request.Context(), shopID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one expense by ID
func (h *ExpenseHandler) Get(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}

	expense, err := h.expenseService.GetByID(c.Request.Context(), uuid.MustParse(uri.ID), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Update rewrites an expense's fields
func (h *ExpenseHandler) Update(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}
	var req financeapp.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}

	if err := h.expenseService.Delete(c.Request.Context(), uuid.MustParse(uri.ID), shopID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AttachReceipt uploads a receipt image and links it to the expense.
// The file is sent as multipart form data under the "receipt" field.
func (h *ExpenseHandler) AttachReceipt(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid expense ID")
		return
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		h.BadRequest(c, "receipt file is required")
		return
	}
	if fileHeader.Size > maxReceiptBytes {
		h.BadRequest(c, "receipt file exceeds the 5 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(data) > maxReceiptBytes {
		h.BadRequest(c, "receipt file exceeds the 5 MiB limit")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	expense, err := h.expenseService.AttachReceipt(
		c.Request.Context(), uuid.MustParse(uri.ID), shopID,
		fileHeader.Filename, contentType, data,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// ExportCSV streams the shop's expenses as a CSV download
func (h *ExpenseHandler) ExportCSV(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	data, err := h.expenseService.ExportCSV(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, "text/csv; charset=utf-8", "expenses.csv", data)
}

// CreateCategory registers a new expense category
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req financeapp.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.expenseService.CreateCategory(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories returns the shop's expense categories
func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	categories, err := h.expenseService.ListCategories(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateSpendingMenu registers a reusable expense preset under a category
func (h *ExpenseHandler) CreateSpendingMenu(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req financeapp.SpendingMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	menu, err := h.expenseService.CreateSpendingMenu(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, menu)
}

// ListSpendingMenus returns the presets of one category
func (h *ExpenseHandler) ListSpendingMenus(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid category ID")
		return
	}

	menus, err := h.expenseService.ListSpendingMenus(c.Request.Context(), uuid.MustParse(uri.ID), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, menus)
}

// RegisterRoutes registers expense endpoints
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.List)
		expenses.POST("", h.Create)
		expenses.GET("/export", h.ExportCSV)
		expenses.GET("/:id", h.Get)
		expenses.PUT("/:id", h.Update)
		expenses.DELETE("/:id", h.Delete)
		expenses.POST("/:id/receipt", h.AttachReceipt)
	}

	categories := rg.Group("/expense-categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.GET("/:id/spending-menus", h.ListSpendingMenus)
	}

	rg.POST("/spending-menus", h.CreateSpendingMenu)
}
