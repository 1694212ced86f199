package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stitchpos/backend/internal/application/catalog"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// StockGroupHandler handles stock group and variant endpoints
type StockGroupHandler struct {
	BaseHandler
	stockService *catalogapp.StockGroupService
}

// NewStockGroupHandler creates a new StockGroupHandler
func NewStockGroupHandler(stockService *catalogapp.StockGroupService) *StockGroupHandler {
	return &StockGroupHandler{stockService: stockService}
}

// List returns a paginated page of the shop's stock groups
func (h *StockGroupHandler) List(c *gin.Context) {
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

	page, err := h.stockService.List(c.Request.Context(), shopID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Create registers a new stock group with its initial variants
func (h *StockGroupHandler) Create(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req catalogapp.CreateStockGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.stockService.Create(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// Get returns one stock group by ID
func (h *StockGroupHandler) Get(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}

	group, err := h.stockService.GetByID(c.Request.Context(), uuid.MustParse(uri.ID), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// Update changes a stock group's name or prices
func (h *StockGroupHandler) Update(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}
	var req catalogapp.UpdateStockGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.stockService.Update(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// Delete removes a stock group and its variants
func (h *StockGroupHandler) Delete(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}

	if err := h.stockService.Delete(c.Request.Context(), uuid.MustParse(uri.ID), shopID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddVariant adds a color with its size quantities to a stock group
func (h *StockGroupHandler) AddVariant(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}
	var req catalogapp.VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.stockService.AddVariant(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// SetQuantity sets the on-hand count for one color and size
func (h *StockGroupHandler) SetQuantity(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}
	var req catalogapp.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.stockService.SetQuantity(c.Request.Context(), uuid.MustParse(uri.ID), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// SetTiers replaces a stock group's wholesale price tiers
func (h *StockGroupHandler) SetTiers(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "invalid stock group ID")
		return
	}
	var reqs []catalogapp.WholesaleTierRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.stockService.SetTiers(c.Request.Context(), uuid.MustParse(uri.ID), shopID, reqs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// ExportCSV streams the shop's inventory as a CSV download
func (h *StockGroupHandler) ExportCSV(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	data, err := h.stockService.ExportCSV(c.Request.Context(), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, "text/csv; charset=utf-8", "inventory.csv", data)
}

// RegisterRoutes registers stock group endpoints
func (h *StockGroupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stocks := rg.Group("/stock-groups")
	{
		stocks.GET("", h.List)
		stocks.POST("", h.Create)
		stocks.GET("/export", h.ExportCSV)
		stocks.GET("/:id", h.Get)
		stocks.PUT("/:id", h.Update)
		stocks.DELETE("/:id", h.Delete)
		stocks.POST("/:id/variants", h.AddVariant)
		stocks.PUT("/:id/quantity", h.SetQuantity)
		stocks.PUT("/:id/tiers", h.SetTiers)
	}
}
