package handlers

import (
	"net/http"

	"kedai_pos_backend/internal/middleware"
	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login exchanges the operator PIN for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Login")
		return
	}

	authResp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Login failed.")
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// ChangePIN replaces the operator PIN after checking the current one.
func (h *AuthHandler) ChangePIN(c *gin.Context) {
	var req models.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "ChangePIN")
		return
	}

	if err := h.authService.ChangePIN(c.Request.Context(), req); err != nil {
		respondServiceError(c, err, "Failed to change PIN.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "PIN changed"})
}

// GetCurrentOperator echoes the identity carried by the token.
func (h *AuthHandler) GetCurrentOperator(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"operator_id": c.GetString(middleware.ContextOperatorID),
		"role":        c.GetString(middleware.ContextRole),
	})
}
