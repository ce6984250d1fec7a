package handlers

import (
	"net/http"
	"strconv"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the reporting aggregator.
type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetDailySummary reports today's revenue, profit and payment split.
func (h *ReportHandler) GetDailySummary(c *gin.Context) {
	summary, err := h.reportService.DailySummary(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetDailySummary: Error from reportService.DailySummary")
		utils.RespondInternalError(c, "Failed to build daily summary.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) GetStockBalance(c *gin.Context) {
	groups, err := h.reportService.StockBalance(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetStockBalance: Error from reportService.StockBalance")
		utils.RespondInternalError(c, "Failed to build stock balance.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": groups})
}

func (h *ReportHandler) GetVendorCosts(c *gin.Context) {
	costs, err := h.reportService.VendorCosts(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetVendorCosts: Error from reportService.VendorCosts")
		utils.RespondInternalError(c, "Failed to build vendor cost report.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": costs})
}

// GetCashFlow returns ?days= daily buckets ending today (default 7).
func (h *ReportHandler) GetCashFlow(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(services.DefaultCashFlowDays)))
	if err != nil {
		utils.RespondValidationFailed(c, "days must be a whole number")
		return
	}

	points, err := h.reportService.CashFlow(c.Request.Context(), days)
	if err != nil {
		utils.LogError(err, "GetCashFlow: Error from reportService.CashFlow")
		utils.RespondInternalError(c, "Failed to build cash flow.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

func (h *ReportHandler) GetDayClosing(c *gin.Context) {
	closing, err := h.reportService.DayClosing(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetDayClosing: Error from reportService.DayClosing")
		utils.RespondInternalError(c, "Failed to build day closing.")
		return
	}
	c.JSON(http.StatusOK, closing)
}

// SearchReceipts matches ?q= against sale ids and item names.
func (h *ReportHandler) SearchReceipts(c *gin.Context) {
	sales, err := h.reportService.SearchReceipts(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.LogError(err, "SearchReceipts: Error from reportService.SearchReceipts")
		utils.RespondInternalError(c, "Failed to search receipts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales, "total": len(sales)})
}
