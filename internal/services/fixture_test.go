package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// shopZone is UTC+8, so local midnight differs from UTC midnight.
var shopZone = time.FixedZone("MYT", 8*60*60)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []SaleEvent
}

func (p *recordingPublisher) PublishSale(ctx context.Context, event SaleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	store        *repositories.Store
	menuRepo     repositories.MenuItemRepository
	salesRepo    repositories.SalesLogRepository
	movementRepo repositories.StockMovementRepository
	subRepo      repositories.SubmissionRepository
	settingRepo  repositories.SettingRepository

	clock     *fakeClock
	publisher *recordingPublisher

	confirmations ConfirmationService
	menu          MenuItemService
	checkout      CheckoutEngine
	carts         CartService
	reports       ReportService
	inventoryIO   InventoryIOService
	submissions   SubmissionService
	settings      SettingService
	sales         SalesService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewStore(repositories.NewMemoryBackend())
	require.NoError(t, store.Load(context.Background()))

	f := &fixture{
		store:        store,
		menuRepo:     repositories.NewMenuItemRepository(),
		salesRepo:    repositories.NewSalesLogRepository(),
		movementRepo: repositories.NewStockMovementRepository(),
		subRepo:      repositories.NewSubmissionRepository(),
		settingRepo:  repositories.NewSettingRepository(),
		clock:        &fakeClock{now: time.Date(2026, 10, 18, 14, 30, 0, 0, shopZone)},
		publisher:    &recordingPublisher{},
	}
	now := f.clock.Now
	f.confirmations = NewConfirmationService(5*time.Minute, now)
	f.menu = NewMenuItemService(store, f.menuRepo, f.movementRepo, f.confirmations, now)
	f.checkout = NewCheckoutEngine(store, f.menuRepo, f.salesRepo, f.movementRepo, f.publisher, now)
	f.carts = NewCartService(store, f.menuRepo, f.checkout, now)
	f.reports = NewReportService(store, f.menuRepo, f.salesRepo, shopZone, now)
	f.inventoryIO = NewInventoryIOService(f.menu, f.reports, f.confirmations, shopZone, now)
	f.submissions = NewSubmissionService(store, f.subRepo, f.menuRepo, f.movementRepo, now)
	f.settings = NewSettingService(store, f.settingRepo, f.menuRepo, f.salesRepo, f.movementRepo, f.confirmations)
	f.sales = NewSalesService(store, f.salesRepo, f.settingRepo, shopZone)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func (f *fixture) seedItem(t *testing.T, name, vendor, cost, price string, stock int) models.MenuItem {
	t.Helper()
	in := models.MenuItemInput{
		Name:         name,
		CostPrice:    dec(cost),
		SellingPrice: dec(price),
		Stock:        stock,
	}
	if vendor != "" {
		in.Vendor = strPtr(vendor)
	}
	item, err := f.menu.CreateMenuItem(context.Background(), in)
	require.NoError(t, err)
	return *item
}

func (f *fixture) stockOf(t *testing.T, id string) int {
	t.Helper()
	item, err := f.menu.GetMenuItem(context.Background(), id)
	require.NoError(t, err)
	return item.Stock
}

// sell rings up qty of item and pays by e-wallet at the fixture's current time.
func (f *fixture) sell(t *testing.T, item models.MenuItem, qty int) models.Sale {
	t.Helper()
	ctx := context.Background()
	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: qty})
	require.NoError(t, err)
	sale, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "E-Wallet"})
	require.NoError(t, err)
	return *sale
}

// sellCash rings up qty of item and pays cash at the fixture's current time.
func (f *fixture) sellCash(t *testing.T, item models.MenuItem, qty int, received string) models.Sale {
	t.Helper()
	ctx := context.Background()
	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: qty})
	require.NoError(t, err)
	sale, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "Cash", AmountReceived: decPtr(received)})
	require.NoError(t, err)
	return *sale
}

// at moves the fixture clock to the given local time on day.
func (f *fixture) at(day, hour, minute int) {
	f.clock.Set(time.Date(2026, 10, day, hour, minute, 0, 0, shopZone))
}
