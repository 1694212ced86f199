package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stitchpos/backend/internal/application/catalog"
	labelsapp "github.com/stitchpos/backend/internal/application/labels"
	"github.com/stitchpos/backend/internal/interfaces/http/dto"
)

// LabelHandler handles barcode allocation and price tag printing endpoints
type LabelHandler struct {
	BaseHandler
	labelService *labelsapp.LabelService
	contentType  string
	filename     string
}

// NewLabelHandler creates a new LabelHandler. The content type and filename
// describe what the configured renderer produces, PDF or raw HTML.
func NewLabelHandler(labelService *labelsapp.LabelService, contentType, filename string) *LabelHandler {
	if contentType == "" {
		contentType = "application/pdf"
	}
	if filename == "" {
		filename = "labels.pdf"
	}
	return &LabelHandler{labelService: labelService, contentType: contentType, filename: filename}
}

// EnsureBarcodes allocates EAN-13 barcodes for every variant of a stock
// group that does not have one yet
func (h *LabelHandler) EnsureBarcodes(c *gin.Context) {
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

	group, err := h.labelService.EnsureBarcodes(c.Request.Context(), uuid.MustParse(uri.ID), shopID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, catalogapp.ToStockGroupResponse(group))
}

// BuildSheet returns the label sheet as structured data, one entry per copy
func (h *LabelHandler) BuildSheet(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req labelsapp.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sheet, err := h.labelService.BuildSheet(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheet)
}

// Print renders the label sheet through the configured renderer and
// streams the result as a download
func (h *LabelHandler) Print(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req labelsapp.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data, err := h.labelService.RenderPDF(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, h.contentType, h.filename, data)
}

// RegisterRoutes registers label endpoints
func (h *LabelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	labels := rg.Group("/labels")
	{
		labels.POST("/barcodes/:id", h.EnsureBarcodes)
		labels.POST("/sheet", h.BuildSheet)
		labels.POST("/print", h.Print)
	}
}
