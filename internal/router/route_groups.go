package router

import (
	"kedai_pos_backend/internal/handlers"
	"kedai_pos_backend/internal/middleware"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentOperator)
}

// SetupVendorPortalRoutes exposes the rate limited public submission endpoint.
func SetupVendorPortalRoutes(group *gin.RouterGroup, submissionHandler *handlers.SubmissionHandler, limit gin.HandlerFunc) {
	group.POST("/submissions", limit, submissionHandler.SubmitVendorItem)
}

// SetupMenuItemRoutes sets up the menu item routes.
func SetupMenuItemRoutes(authenticatedGroup *gin.RouterGroup, menuItemHandler *handlers.MenuItemHandler) {
	menuItemRoutes := authenticatedGroup.Group("/menu-items")
	menuItemRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		menuItemRoutes.POST("", menuItemHandler.CreateMenuItem)
		menuItemRoutes.GET("", menuItemHandler.GetMenuItems)
		menuItemRoutes.GET("/:id", menuItemHandler.GetMenuItemByID)
		menuItemRoutes.PUT("/:id", menuItemHandler.UpdateMenuItem)
		menuItemRoutes.DELETE("/:id", menuItemHandler.DeleteMenuItem)
		menuItemRoutes.PATCH("/:id/stock", menuItemHandler.UpdateStock)
		menuItemRoutes.POST("/:id/restock", menuItemHandler.Restock)
		menuItemRoutes.GET("/:id/share-link", menuItemHandler.GetShareLink)
	}
}

// SetupInventoryRoutes sets up CSV import and export.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, ioHandler *handlers.InventoryIOHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	inventoryRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		inventoryRoutes.POST("/bulk", ioHandler.BulkAdd)
		inventoryRoutes.POST("/import", ioHandler.Import)
		inventoryRoutes.GET("/export", ioHandler.Export)
	}
}

func SetupStockMovementRoutes(authenticatedGroup *gin.RouterGroup, movementHandler *handlers.StockMovementHandler) {
	movementRoutes := authenticatedGroup.Group("/stock-movements")
	movementRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		movementRoutes.GET("", movementHandler.GetStockMovements)
	}
}

// SetupCartRoutes sets up the till routes.
func SetupCartRoutes(authenticatedGroup *gin.RouterGroup, cartHandler *handlers.CartHandler) {
	cartRoutes := authenticatedGroup.Group("/carts")
	cartRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		cartRoutes.POST("", cartHandler.CreateCart)
		cartRoutes.GET("/:id", cartHandler.GetCart)
		cartRoutes.DELETE("/:id", cartHandler.DiscardCart)
		cartRoutes.POST("/:id/items", cartHandler.AddItem)
		cartRoutes.PUT("/:id/items/:itemId", cartHandler.SetQuantity)
		cartRoutes.DELETE("/:id/items/:itemId", cartHandler.RemoveItem)
		cartRoutes.POST("/:id/checkout", cartHandler.Checkout)
	}
}

func SetupSalesRoutes(authenticatedGroup *gin.RouterGroup, salesHandler *handlers.SalesHandler) {
	salesRoutes := authenticatedGroup.Group("/sales")
	salesRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		salesRoutes.GET("", salesHandler.GetSales)
		salesRoutes.GET("/:id", salesHandler.GetSaleByID)
		salesRoutes.GET("/:id/receipt", salesHandler.GetReceipt)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler, ioHandler *handlers.InventoryIOHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		reportRoutes.GET("/daily", reportHandler.GetDailySummary)
		reportRoutes.GET("/daily/export", ioHandler.ExportDailySales)
		reportRoutes.GET("/stock-balance", reportHandler.GetStockBalance)
		reportRoutes.GET("/vendor-cost", reportHandler.GetVendorCosts)
		reportRoutes.GET("/cash-flow", reportHandler.GetCashFlow)
		reportRoutes.GET("/day-closing", reportHandler.GetDayClosing)
		reportRoutes.GET("/receipts", reportHandler.SearchReceipts)
	}
}

func SetupSubmissionRoutes(authenticatedGroup *gin.RouterGroup, submissionHandler *handlers.SubmissionHandler) {
	submissionRoutes := authenticatedGroup.Group("/submissions")
	submissionRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		submissionRoutes.GET("", submissionHandler.GetSubmissions)
		submissionRoutes.POST("/:id/approve", submissionHandler.ApproveSubmission)
		submissionRoutes.DELETE("/:id", submissionHandler.DeleteSubmission)
	}
}

// SetupConfirmationRoutes resolves actions returned with 202 by delete, import and reset.
func SetupConfirmationRoutes(authenticatedGroup *gin.RouterGroup, confirmationHandler *handlers.ConfirmationHandler) {
	confirmationRoutes := authenticatedGroup.Group("/confirmations")
	confirmationRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		confirmationRoutes.GET("/:id", confirmationHandler.GetPendingAction)
		confirmationRoutes.POST("/:id/confirm", confirmationHandler.Confirm)
		confirmationRoutes.POST("/:id/cancel", confirmationHandler.Cancel)
	}
}

// SetupSettingsRoutes sets up the settings routes.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler, authHandler *handlers.AuthHandler) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware(utils.RoleOperator))
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.PUT("/brand-name", settingHandler.UpdateBrandName)
		settingsRoutes.PUT("/theme", settingHandler.UpdateTheme)
		settingsRoutes.POST("/theme/toggle", settingHandler.ToggleTheme)
		settingsRoutes.POST("/reset", settingHandler.RequestReset)
		settingsRoutes.PUT("/pin", authHandler.ChangePIN)
	}
}
