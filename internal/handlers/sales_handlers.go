package handlers

import (
	"net/http"
	"strconv"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SalesHandler serves the sales log.
type SalesHandler struct {
	salesService services.SalesService
	loc          *time.Location
}

func NewSalesHandler(ss services.SalesService, loc *time.Location) *SalesHandler {
	return &SalesHandler{salesService: ss, loc: loc}
}

// parseSince accepts YYYY-MM-DD (local midnight) or RFC 3339.
func (h *SalesHandler) parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, h.loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetSales lists sales newest first.
func (h *SalesHandler) GetSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	pageSize = utils.ClampPageSize(pageSize, 20)

	since, err := h.parseSince(c.Query("since"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid since format. Use YYYY-MM-DD or RFC 3339.", err.Error()))
		return
	}

	sales, total, err := h.salesService.ListSales(c.Request.Context(), models.SaleFilters{Since: since, Page: page, PageSize: pageSize})
	if err != nil {
		utils.LogError(err, "GetSales: Error from salesService.ListSales")
		utils.RespondInternalError(c, "Failed to fetch sales.")
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      sales,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *SalesHandler) GetSaleByID(c *gin.Context) {
	id := c.Param("id")
	sale, err := h.salesService.GetSale(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetSaleByID: Error for ID "+id)
		respondServiceError(c, err, "Failed to fetch sale.")
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetReceipt returns the printable receipt as plain text.
func (h *SalesHandler) GetReceipt(c *gin.Context) {
	id := c.Param("id")
	receipt, err := h.salesService.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetReceipt: Error for ID "+id)
		respondServiceError(c, err, "Failed to render receipt.")
		return
	}
	c.String(http.StatusOK, receipt)
}
