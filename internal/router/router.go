package router

import (
	"time"

	"kedai_pos_backend/internal/config"
	"kedai_pos_backend/internal/handlers"
	"kedai_pos_backend/internal/middleware"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived objects built by main.
type Dependencies struct {
	Config    config.Config
	Store     *repositories.Store
	JWT       *utils.JWTManager
	Publisher services.EventPublisher
	// Now defaults to time.Now.
	Now func() time.Time
}

// Services is the wired service layer, returned so main can run startup tasks.
type Services struct {
	Auth          services.AuthService
	MenuItems     services.MenuItemService
	Carts         services.CartService
	Sales         services.SalesService
	Reports       services.ReportService
	InventoryIO   services.InventoryIOService
	Submissions   services.SubmissionService
	Settings      services.SettingService
	Confirmations services.ConfirmationService
}

// NewServices builds repositories and services over deps.Store.
func NewServices(deps Dependencies) *Services {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Config.Location
	if loc == nil {
		loc = time.Local
	}
	ttl := deps.Config.ConfirmationTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = services.NewNoopEventPublisher()
	}

	// Initialize Repositories
	menuRepo := repositories.NewMenuItemRepository()
	salesRepo := repositories.NewSalesLogRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	movementRepo := repositories.NewStockMovementRepository()
	settingRepo := repositories.NewSettingRepository()

	// Initialize Services
	confirmations := services.NewConfirmationService(ttl, now)
	menuItems := services.NewMenuItemService(deps.Store, menuRepo, movementRepo, confirmations, now)
	checkout := services.NewCheckoutEngine(deps.Store, menuRepo, salesRepo, movementRepo, publisher, now)
	reports := services.NewReportService(deps.Store, menuRepo, salesRepo, loc, now)

	return &Services{
		Auth:          services.NewAuthService(deps.Store, settingRepo, deps.JWT),
		MenuItems:     menuItems,
		Carts:         services.NewCartService(deps.Store, menuRepo, checkout, now),
		Sales:         services.NewSalesService(deps.Store, salesRepo, settingRepo, loc),
		Reports:       reports,
		InventoryIO:   services.NewInventoryIOService(menuItems, reports, confirmations, loc, now),
		Submissions:   services.NewSubmissionService(deps.Store, submissionRepo, menuRepo, movementRepo, now),
		Settings:      services.NewSettingService(deps.Store, settingRepo, menuRepo, salesRepo, movementRepo, confirmations),
		Confirmations: confirmations,
	}
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies, svc *Services) error {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := deps.Config.Location
	if loc == nil {
		loc = time.Local
	}

	vendorLimit, err := middleware.RateLimit(deps.Config.VendorRateLimit)
	if err != nil {
		return err
	}

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	menuItemHandler := handlers.NewMenuItemHandler(svc.MenuItems)
	movementHandler := handlers.NewStockMovementHandler(svc.MenuItems)
	inventoryIOHandler := handlers.NewInventoryIOHandler(svc.InventoryIO, loc, now)
	cartHandler := handlers.NewCartHandler(svc.Carts)
	salesHandler := handlers.NewSalesHandler(svc.Sales, loc)
	reportHandler := handlers.NewReportHandler(svc.Reports)
	submissionHandler := handlers.NewSubmissionHandler(svc.Submissions)
	confirmationHandler := handlers.NewConfirmationHandler(svc.Confirmations)
	settingHandler := handlers.NewSettingHandler(svc.Settings)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	apiV1 := engine.Group("/api/v1")

	// Public routes
	apiV1.GET("/health", healthHandler.GetHealth)
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
	SetupVendorPortalRoutes(apiV1.Group("/vendor"), submissionHandler, vendorLimit)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.JWT))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupMenuItemRoutes(authenticated, menuItemHandler)
		SetupInventoryRoutes(authenticated, inventoryIOHandler)
		SetupStockMovementRoutes(authenticated, movementHandler)
		SetupCartRoutes(authenticated, cartHandler)
		SetupSalesRoutes(authenticated, salesHandler)
		SetupReportRoutes(authenticated, reportHandler, inventoryIOHandler)
		SetupSubmissionRoutes(authenticated, submissionHandler)
		SetupConfirmationRoutes(authenticated, confirmationHandler)
		SetupSettingsRoutes(authenticated, settingHandler, authHandler)
	}
	return nil
}
