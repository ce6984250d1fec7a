package handlers

import (
	"net/http"
	"strconv"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockMovementHandler exposes the stock movement audit log.
type StockMovementHandler struct {
	menuItemService services.MenuItemService
}

func NewStockMovementHandler(ms services.MenuItemService) *StockMovementHandler {
	return &StockMovementHandler{menuItemService: ms}
}

// GetStockMovements lists movements newest first, filtered by item_id and type.
func (h *StockMovementHandler) GetStockMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page <= 0 {
		page = 1
	}
	pageSize = utils.ClampPageSize(pageSize, 50)

	movementType := c.Query("type")
	switch movementType {
	case "", models.MovementTypeSale, models.MovementTypeAdjustment, models.MovementTypeRestock, models.MovementTypeImport:
	default:
		utils.RespondValidationFailed(c, "unknown movement type "+strconv.Quote(movementType))
		return
	}

	filters := models.StockMovementFilters{
		ItemID:       c.Query("item_id"),
		MovementType: movementType,
		Page:         page,
		PageSize:     pageSize,
	}
	movements, total, err := h.menuItemService.ListStockMovements(c.Request.Context(), filters)
	if err != nil {
		utils.LogError(err, "GetStockMovements: Error from menuItemService.ListStockMovements")
		utils.RespondInternalError(c, "Failed to fetch stock movements.")
		return
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      movements,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
