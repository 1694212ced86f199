package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/stitchpos/backend/internal/application/checkout"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// TransactionHandler handles checkout and transaction lifecycle endpoints
type TransactionHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(checkoutService *checkoutapp.CheckoutService) *TransactionHandler {
	return &TransactionHandler{checkoutService: checkoutService}
}

// Checkout converts the session's cart into a completed transaction
func (h *TransactionHandler) Checkout(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID := getSessionID(c)
	if sessionID == "" {
		h.BadRequest(c, "X-Session-ID header is required")
		return
	}
	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txn, err := h.checkoutService.Checkout(c.Request.Context(), sessionID, shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, txn)
}

// List returns a paginated page of the shop's transactions
func (h *TransactionHandler) List(c *gin.Context) {
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

	page, err := h.checkoutService.ListTransactions(c.Request.Context(), shopID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one transaction with its lines and refunds
func (h *TransactionHandler) Get(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid transaction ID")
		return
	}

	txn, err := h.checkoutService.GetTransaction(c.Request.Context(), uuid.MustParse(uri.ID), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// Cancel voids a pending transaction and restocks its lines
func (h *TransactionHandler) Cancel(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid transaction ID")
		return
	}
	var req checkoutapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txn, err := h.checkoutService.Cancel(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// Refund refunds one or more lines of a completed transaction
func (h *TransactionHandler) Refund(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid transaction ID")
		return
	}
	var req checkoutapp.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	txn, err := h.checkoutService.Refund(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// RegisterRoutes registers checkout and transaction endpoints
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)

	txns := rg.Group("/transactions")
	{
		txns.GET("", h.List)
		txns.GET("/:id", h.Get)
		txns.POST("/:id/cancel", h.Cancel)
		txns.POST("/:id/refund", h.Refund)
	}
}
