package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrValidation       = errors.New("validation error")
)

// StockUpdateRequest sets the stock to an absolute count or moves it by a delta.
// Exactly one of Stock and Delta must be given.
type StockUpdateRequest struct {
	Stock  *int   `json:"stock"`
	Delta  *int   `json:"delta"`
	Reason string `json:"reason"`
}

// RestockRequest adds received units to an item.
type RestockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// MenuItemService manages the inventory of menu items.
type MenuItemService interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	CreateMenuItem(ctx context.Context, in models.MenuItemInput) (*models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, in models.MenuItemInput) (*models.MenuItem, error)
	UpdateStock(ctx context.Context, id string, req StockUpdateRequest) (*models.MenuItem, error)
	Restock(ctx context.Context, id string, req RestockRequest) (*models.MenuItem, error)
	// RequestDelete registers a pending deletion that takes effect on confirmation.
	RequestDelete(ctx context.Context, id string) (*models.PendingAction, error)
	DeleteMenuItem(ctx context.Context, id string) error
	AppendItems(ctx context.Context, inputs []models.MenuItemInput) ([]models.MenuItem, error)
	ReplaceInventory(ctx context.Context, items []models.MenuItem) error
	ListStockMovements(ctx context.Context, filters models.StockMovementFilters) ([]models.StockMovement, int, error)
	ShareLink(ctx context.Context, id string, baseURL string) (string, error)
}

type menuItemService struct {
	store         *repositories.Store
	menuRepo      repositories.MenuItemRepository
	movementRepo  repositories.StockMovementRepository
	confirmations ConfirmationService
	now           func() time.Time
}

// NewMenuItemService creates a new instance of MenuItemService.
func NewMenuItemService(
	store *repositories.Store,
	mr repositories.MenuItemRepository,
	smr repositories.StockMovementRepository,
	confirmations ConfirmationService,
	now func() time.Time,
) MenuItemService {
	return &menuItemService{
		store:         store,
		menuRepo:      mr,
		movementRepo:  smr,
		confirmations: confirmations,
		now:           now,
	}
}

// ValidateMenuItemInput checks the fields every create or edit must satisfy.
func ValidateMenuItemInput(in models.MenuItemInput) error {
	var problems []string
	if utils.IsEmpty(in.Name) {
		problems = append(problems, "name is required")
	}
	if in.CostPrice.IsNegative() {
		problems = append(problems, "cost price must not be negative")
	}
	if in.SellingPrice.IsNegative() {
		problems = append(problems, "selling price must not be negative")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if in.CostPrice.GreaterThan(in.SellingPrice) {
		problems = append(problems, "cost price must not be higher than selling price")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func newMenuItem(id string, in models.MenuItemInput) models.MenuItem {
	return models.MenuItem{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Vendor:       utils.NewNullString(utils.StringValue(in.Vendor)),
		ImageURL:     utils.NewNullString(utils.StringValue(in.ImageURL)),
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		Stock:        in.Stock,
	}
}

func newMovement(item models.MenuItem, movementType string, delta int, reason string, at time.Time) models.StockMovement {
	return models.StockMovement{
		ID:              utils.NewID(utils.IDPrefixMovement),
		ItemID:          item.ID,
		ItemName:        item.Name,
		MovementType:    movementType,
		QuantityChanged: delta,
		StockAfter:      item.Stock,
		Reason:          utils.NewNullString(reason),
		CreatedAt:       at,
	}
}

func mapItemErr(err error, id string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
	}
	return err
}

func (s *menuItemService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.menuRepo.List(s.store)
}

func (s *menuItemService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(s.store, id)
	if err != nil {
		return nil, mapItemErr(err, id)
	}
	return item, nil
}

func (s *menuItemService) CreateMenuItem(ctx context.Context, in models.MenuItemInput) (*models.MenuItem, error) {
	if err := ValidateMenuItemInput(in); err != nil {
		return nil, err
	}
	item := newMenuItem(utils.NewID(utils.IDPrefixMenuItem), in)

	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	if err := s.menuRepo.Create(tx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	if item.Stock > 0 {
		mv := newMovement(item, models.MovementTypeRestock, item.Stock, "Opening stock", s.now())
		if err := s.movementRepo.Append(tx, mv); err != nil {
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	utils.LogInfo("Menu item created", map[string]interface{}{"item_id": item.ID, "name": item.Name})
	return &item, nil
}

func (s *menuItemService) UpdateMenuItem(ctx context.Context, id string, in models.MenuItemInput) (*models.MenuItem, error) {
	if err := ValidateMenuItemInput(in); err != nil {
		return nil, err
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	previous, err := s.menuRepo.GetByID(tx, id)
	if err != nil {
		return nil, mapItemErr(err, id)
	}

	item := newMenuItem(id, in)
	found, err := s.menuRepo.Update(tx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to update menu item %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
	}
	if delta := item.Stock - previous.Stock; delta != 0 {
		mv := newMovement(item, models.MovementTypeAdjustment, delta, "Edited", s.now())
		if err := s.movementRepo.Append(tx, mv); err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *menuItemService) UpdateStock(ctx context.Context, id string, req StockUpdateRequest) (*models.MenuItem, error) {
	if (req.Stock == nil) == (req.Delta == nil) {
		return nil, fmt.Errorf("%w: exactly one of stock or delta is required", ErrValidation)
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	previous, err := s.menuRepo.GetByID(tx, id)
	if err != nil {
		return nil, mapItemErr(err, id)
	}

	var updated *models.MenuItem
	if req.Stock != nil {
		updated, err = s.menuRepo.SetStock(tx, id, *req.Stock)
	} else {
		updated, err = s.menuRepo.AdjustStock(tx, id, *req.Delta)
	}
	if err != nil {
		return nil, mapItemErr(err, id)
	}

	if applied := updated.Stock - previous.Stock; applied != 0 {
		mv := newMovement(*updated, models.MovementTypeAdjustment, applied, req.Reason, s.now())
		if err := s.movementRepo.Append(tx, mv); err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *menuItemService) Restock(ctx context.Context, id string, req RestockRequest) (*models.MenuItem, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", ErrValidation)
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	updated, err := s.menuRepo.AdjustStock(tx, id, req.Quantity)
	if err != nil {
		return nil, mapItemErr(err, id)
	}
	reason := req.Reason
	if reason == "" {
		reason = "Stock received"
	}
	if err := s.movementRepo.Append(tx, newMovement(*updated, models.MovementTypeRestock, req.Quantity, reason, s.now())); err != nil {
		return nil, fmt.Errorf("failed to record stock movement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *menuItemService) RequestDelete(ctx context.Context, id string) (*models.PendingAction, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	action := s.confirmations.Request(models.ActionDeleteItem,
		fmt.Sprintf("Delete %q from the menu", item.Name),
		func(ctx context.Context) error { return s.DeleteMenuItem(ctx, id) })
	return &action, nil
}

func (s *menuItemService) DeleteMenuItem(ctx context.Context, id string) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	removed, err := s.menuRepo.Delete(tx, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item %s: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrMenuItemNotFound, id)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	utils.LogInfo("Menu item deleted", map[string]interface{}{"item_id": id})
	return nil
}

// AppendItems validates every input first; nothing is stored unless all are valid.
func (s *menuItemService) AppendItems(ctx context.Context, inputs []models.MenuItemInput) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(inputs))
	for i, in := range inputs {
		if err := ValidateMenuItemInput(in); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, newMenuItem(utils.NewID(utils.IDPrefixMenuItem), in))
	}
	if len(items) == 0 {
		return items, nil
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	if err := s.menuRepo.AppendAll(tx, items); err != nil {
		return nil, fmt.Errorf("failed to append menu items: %w", err)
	}
	now := s.now()
	var movements []models.StockMovement
	for _, item := range items {
		if item.Stock > 0 {
			movements = append(movements, newMovement(item, models.MovementTypeImport, item.Stock, "Bulk add", now))
		}
	}
	if err := s.movementRepo.Append(tx, movements...); err != nil {
		return nil, fmt.Errorf("failed to record stock movements: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	utils.LogInfo("Menu items appended", map[string]interface{}{"count": len(items)})
	return items, nil
}

func (s *menuItemService) ReplaceInventory(ctx context.Context, items []models.MenuItem) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	if err := s.menuRepo.ReplaceAll(tx, items); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return fmt.Errorf("failed to replace inventory: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	utils.LogInfo("Inventory replaced", map[string]interface{}{"count": len(items)})
	return nil
}

func (s *menuItemService) ListStockMovements(ctx context.Context, filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	return s.movementRepo.List(s.store, filters)
}

// ShareLink builds the public link that opens the menu on this item.
func (s *menuItemService) ShareLink(ctx context.Context, id string, baseURL string) (string, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base url: %v", ErrValidation, err)
	}
	q := u.Query()
	q.Set("item", item.Name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
