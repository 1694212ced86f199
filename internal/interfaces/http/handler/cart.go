package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/stitchpos/backend/internal/application/cart"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// CartHandler handles session cart endpoints. The session is identified by
// the X-Session-ID header, one cart per POS terminal session.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) sessionID(c *gin.Context) (string, bool) {
	sessionID := getSessionID(c)
	if sessionID == "" {
		h.BadRequest(c, "X-Session-ID header is required")
		return "", false
	}
	return sessionID, true
}

// Get returns the session's cart, creating it if needed
func (h *CartHandler) Get(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(sessionID, shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem reserves stock and adds a line to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), sessionID, shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity changes a cart line's quantity, adjusting the reservation
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid cart item ID")
		return
	}
	var req cartapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, shopID, uuid.MustParse(uri.ID), req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem removes a line and releases its stock reservation
func (h *CartHandler) RemoveItem(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid cart item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), sessionID, shopID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ApplyGroupDiscount applies a percentage discount to one stock group's lines
func (h *CartHandler) ApplyGroupDiscount(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req cartapp.GroupDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.ApplyGroupDiscount(sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ApplyVariantDiscount applies a percentage discount to one color's lines
func (h *CartHandler) ApplyVariantDiscount(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req cartapp.VariantDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.ApplyVariantDiscount(sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ApplyCartDiscount applies a cart-wide discount by percent or amount
func (h *CartHandler) ApplyCartDiscount(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req cartapp.CartDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.ApplyCartDiscount(sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// ClearDiscounts removes every discount from the cart
func (h *CartHandler) ClearDiscounts(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.ClearDiscounts(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Totals returns the cart's computed totals without the line detail
func (h *CartHandler) Totals(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	totals, err := h.cartService.Totals(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Abandon discards the cart and returns all reserved stock
func (h *CartHandler) Abandon(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	if err := h.cartService.Abandon(c.Request.Context(), sessionID, shopID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers cart endpoints
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Get)
		cart.DELETE("", h.Abandon)
		cart.GET("/totals", h.Totals)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:id", h.UpdateQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.POST("/discounts/group", h.ApplyGroupDiscount)
		cart.POST("/discounts/variant", h.ApplyVariantDiscount)
		cart.POST("/discounts/cart", h.ApplyCartDiscount)
		cart.DELETE("/discounts", h.ClearDiscounts)
	}
}
