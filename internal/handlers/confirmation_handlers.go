package handlers

import (
	"net/http"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ConfirmationHandler resolves pending destructive actions.
type ConfirmationHandler struct {
	confirmationService services.ConfirmationService
}

func NewConfirmationHandler(cs services.ConfirmationService) *ConfirmationHandler {
	return &ConfirmationHandler{confirmationService: cs}
}

func (h *ConfirmationHandler) GetPendingAction(c *gin.Context) {
	id := c.Param("id")
	action, err := h.confirmationService.Get(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch pending action.")
		return
	}
	c.JSON(http.StatusOK, action)
}

func (h *ConfirmationHandler) Confirm(c *gin.Context) {
	id := c.Param("id")
	action, err := h.confirmationService.Confirm(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "Confirm: Error applying action "+id)
		respondServiceError(c, err, "Failed to apply action.")
		return
	}
	c.JSON(http.StatusOK, action)
}

func (h *ConfirmationHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	action, err := h.confirmationService.Cancel(id)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel action.")
		return
	}
	c.JSON(http.StatusOK, action)
}
