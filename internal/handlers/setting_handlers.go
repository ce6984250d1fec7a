package handlers

import (
	"net/http"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler serves theme, brand name and data reset.
type SettingHandler struct {
	settingService services.SettingService
}

func NewSettingHandler(ss services.SettingService) *SettingHandler {
	return &SettingHandler{settingService: ss}
}

type brandNameRequest struct {
	BrandName string `json:"brand_name" binding:"required"`
}

type themeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingService.GetSettings(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetSettings: Error from settingService.GetSettings")
		utils.RespondInternalError(c, "Failed to fetch settings.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingHandler) UpdateBrandName(c *gin.Context) {
	var req brandNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateBrandName")
		return
	}

	settings, err := h.settingService.SetBrandName(c.Request.Context(), req.BrandName)
	if err != nil {
		utils.LogError(err, "UpdateBrandName: Error from settingService.SetBrandName")
		respondServiceError(c, err, "Failed to update brand name.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingHandler) UpdateTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateTheme")
		return
	}

	settings, err := h.settingService.SetTheme(c.Request.Context(), req.Theme)
	if err != nil {
		utils.LogError(err, "UpdateTheme: Error from settingService.SetTheme")
		respondServiceError(c, err, "Failed to update theme.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingHandler) ToggleTheme(c *gin.Context) {
	settings, err := h.settingService.ToggleTheme(c.Request.Context())
	if err != nil {
		utils.LogError(err, "ToggleTheme: Error from settingService.ToggleTheme")
		utils.RespondInternalError(c, "Failed to toggle theme.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// RequestReset registers a wipe of inventory, sales and stock movements.
func (h *SettingHandler) RequestReset(c *gin.Context) {
	c.JSON(http.StatusAccepted, h.settingService.RequestReset(c.Request.Context()))
}
