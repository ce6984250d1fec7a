package handlers

import (
	"errors"
	"net/http"
	"strings"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps domain errors shared by several handlers to API errors.
// Anything unrecognised becomes a 500 with fallback as the message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var stockErr *services.StockError
	var importErr *services.ImportError

	switch {
	case errors.As(err, &stockErr):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeInsufficientStock, stockErr.Error(), stockErr.ItemID))
	case errors.As(err, &importErr):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed,
			importErr.Error(), strings.Join(importErr.Messages(), "\n")))
	case errors.Is(err, services.ErrEmptyCart):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeEmptyCart, "Cart is empty.", err.Error()))
	case errors.Is(err, services.ErrInsufficientPayment):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeInsufficientPayment, "Amount received is less than the total.", err.Error()))
	case errors.Is(err, services.ErrNoSalesToday):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeNoSales, "No sales recorded today.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrSaleNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrPendingActionNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found.", err.Error()))
	case errors.Is(err, services.ErrPendingActionExpired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Confirmation expired, request the action again.", err.Error()))
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid PIN.", ""))
	default:
		utils.RespondInternalError(c, fallback)
	}
}

func respondBindError(c *gin.Context, err error, handler string) {
	utils.LogError(err, handler+": Failed to bind JSON")
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
}
