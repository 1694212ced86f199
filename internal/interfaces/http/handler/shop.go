package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stitchpos/backend/internal/application/catalog"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// ShopHandler handles shop management endpoints
type ShopHandler struct {
	BaseHandler
	shopService *catalogapp.ShopService
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService *catalogapp.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// Create registers a new shop
func (h *ShopHandler) Create(c *gin.Context) {
	var req catalogapp.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shop, err := h.shopService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shop)
}

// Get returns one shop by ID
func (h *ShopHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid shop ID")
		return
	}

	shop, err := h.shopService.GetByID(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// List returns all shops
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.shopService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shops)
}

// RenameShopRequest changes a shop's display name
type RenameShopRequest struct {
	Name string `json:"name" binding:"required"`
}

// Rename changes a shop's name
func (h *ShopHandler) Rename(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid shop ID")
		return
	}
	var req RenameShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	shop, err := h.shopService.Rename(c.Request.Context(), uuid.MustParse(uri.ID), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shop)
}

// RegisterRoutes registers shop endpoints
func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shops := rg.Group("/shops")
	{
		shops.GET("", h.List)
		shops.POST("", h.Create)
		shops.GET("/:id", h.Get)
		shops.PUT("/:id", h.Rename)
	}
}
