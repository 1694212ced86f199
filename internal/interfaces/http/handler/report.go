package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	reportapp "github.com/stitchpos/backend/internal/application/report"
)

// ReportHandler handles sales and profit reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales returns per-day, per-currency revenue and expense figures
func (h *ReportHandler) Sales(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req reportapp.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.SalesReport(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// TopGroups returns the best selling stock groups in the window
func (h *ReportHandler) TopGroups(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req reportapp.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	groups, err := h.reportService.TopGroups(c.Request.Context(), shopID, req, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// ExportCSV streams the report window as a CSV download
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	shopID, err := getShopID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	var req reportapp.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	data, err := h.reportService.ExportCSV(c.Request.Context(), shopID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.File(c, "text/csv; charset=utf-8", "sales-report.csv", data)
}

// RegisterRoutes registers report endpoints
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/sales", h.Sales)
		reports.GET("/top-groups", h.TopGroups)
		reports.GET("/export", h.ExportCSV)
	}
}
