package handlers

import (
	"net/http"
	"strings"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuItemHandler serves the menu item store.
type MenuItemHandler struct {
	menuItemService services.MenuItemService
}

// NewMenuItemHandler creates a new MenuItemHandler.
func NewMenuItemHandler(ms services.MenuItemService) *MenuItemHandler {
	return &MenuItemHandler{menuItemService: ms}
}

// GetMenuItems lists the inventory. ?search= filters by name or vendor.
func (h *MenuItemHandler) GetMenuItems(c *gin.Context) {
	items, err := h.menuItemService.ListMenuItems(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuItemService.ListMenuItems")
		utils.RespondInternalError(c, "Failed to fetch menu items.")
		return
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filtered := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			if utils.ContainsFold(item.Name, search) || utils.ContainsFold(item.VendorName(), search) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": len(items),
	})
}

func (h *MenuItemHandler) GetMenuItemByID(c *gin.Context) {
	id := c.Param("id")
	item, err := h.menuItemService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error for ID "+id)
		respondServiceError(c, err, "Failed to fetch menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuItemHandler) CreateMenuItem(c *gin.Context) {
	var req models.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateMenuItem")
		return
	}

	item, err := h.menuItemService.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuItemService.CreateMenuItem")
		respondServiceError(c, err, "Failed to create menu item.")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *MenuItemHandler) UpdateMenuItem(c *gin.Context) {
	id := c.Param("id")
	var req models.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateMenuItem")
		return
	}

	item, err := h.menuItemService.UpdateMenuItem(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "UpdateMenuItem: Error for ID "+id)
		respondServiceError(c, err, "Failed to update menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateStock sets an absolute stock count or applies a signed delta.
func (h *MenuItemHandler) UpdateStock(c *gin.Context) {
	id := c.Param("id")
	var req services.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "UpdateStock")
		return
	}

	item, err := h.menuItemService.UpdateStock(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "UpdateStock: Error for ID "+id)
		respondServiceError(c, err, "Failed to update stock.")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuItemHandler) Restock(c *gin.Context) {
	id := c.Param("id")
	var req services.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Restock")
		return
	}

	item, err := h.menuItemService.Restock(c.Request.Context(), id, req)
	if err != nil {
		utils.LogError(err, "Restock: Error for ID "+id)
		respondServiceError(c, err, "Failed to restock menu item.")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem only registers the deletion; it is applied through the confirmations endpoint.
func (h *MenuItemHandler) DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	action, err := h.menuItemService.RequestDelete(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "DeleteMenuItem: Error for ID "+id)
		respondServiceError(c, err, "Failed to request deletion.")
		return
	}
	c.JSON(http.StatusAccepted, action)
}

// GetShareLink returns a public link to the item. ?base_url= overrides the default /menu page of this host.
func (h *MenuItemHandler) GetShareLink(c *gin.Context) {
	id := c.Param("id")
	baseURL := c.Query("base_url")
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		baseURL = scheme + "://" + c.Request.Host + "/menu"
	}

	link, err := h.menuItemService.ShareLink(c.Request.Context(), id, baseURL)
	if err != nil {
		utils.LogError(err, "GetShareLink: Error for ID "+id)
		respondServiceError(c, err, "Failed to build share link.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}
