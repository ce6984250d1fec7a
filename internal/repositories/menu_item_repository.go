package repositories

import (
	"fmt"

	"kedai_pos_backend/internal/models"
)

// MenuItemRepository defines the operations on the inventory collection.
type MenuItemRepository interface {
	List(ex Executor) ([]models.MenuItem, error)
	GetByID(ex Executor, id string) (*models.MenuItem, error)
	Create(tx Writer, item models.MenuItem) error
	// Update replaces the item with the same id. It reports false, and changes nothing, when the id is unknown.
	Update(tx Writer, item models.MenuItem) (bool, error)
	// AdjustStock applies delta and clamps the result at zero.
	AdjustStock(tx Writer, id string, delta int) (*models.MenuItem, error)
	// SetStock overwrites the stock, clamping negative values to zero.
	SetStock(tx Writer, id string, stock int) (*models.MenuItem, error)
	Delete(tx Writer, id string) (bool, error)
	ReplaceAll(tx Writer, items []models.MenuItem) error
	AppendAll(tx Writer, items []models.MenuItem) error
	DeleteAll(tx Writer) error
}

type menuItemRepository struct{}

// NewMenuItemRepository creates a new instance of MenuItemRepository.
func NewMenuItemRepository() MenuItemRepository {
	return &menuItemRepository{}
}

func (r *menuItemRepository) List(ex Executor) ([]models.MenuItem, error) {
	return getList[models.MenuItem](ex, KeyInventory)
}

func (r *menuItemRepository) GetByID(ex Executor, id string) (*models.MenuItem, error) {
	items, err := r.List(ex)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: menu item %s", ErrNotFound, id)
}

func (r *menuItemRepository) Create(tx Writer, item models.MenuItem) error {
	items, err := r.List(tx)
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.ID == item.ID {
			return fmt.Errorf("%w: menu item %s", ErrDuplicateKey, item.ID)
		}
	}
	return tx.Put(KeyInventory, append(items, item))
}

func (r *menuItemRepository) Update(tx Writer, item models.MenuItem) (bool, error) {
	items, err := r.List(tx)
	if err != nil {
		return false, err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return true, tx.Put(KeyInventory, items)
		}
	}
	return false, nil
}

func (r *menuItemRepository) AdjustStock(tx Writer, id string, delta int) (*models.MenuItem, error) {
	return r.mutateStock(tx, id, func(current int) int { return current + delta })
}

func (r *menuItemRepository) SetStock(tx Writer, id string, stock int) (*models.MenuItem, error) {
	return r.mutateStock(tx, id, func(int) int { return stock })
}

func (r *menuItemRepository) mutateStock(tx Writer, id string, next func(current int) int) (*models.MenuItem, error) {
	items, err := r.List(tx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		stock := next(items[i].Stock)
		if stock < 0 {
			stock = 0
		}
		items[i].Stock = stock
		if err := tx.Put(KeyInventory, items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("%w: menu item %s", ErrNotFound, id)
}

func (r *menuItemRepository) Delete(tx Writer, id string) (bool, error) {
	items, err := r.List(tx)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	removed := false
	for _, item := range items {
		if item.ID == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false, nil
	}
	return true, tx.Put(KeyInventory, kept)
}

func (r *menuItemRepository) ReplaceAll(tx Writer, items []models.MenuItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: menu item %s appears more than once", ErrDuplicateKey, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return tx.Put(KeyInventory, items)
}

func (r *menuItemRepository) AppendAll(tx Writer, items []models.MenuItem) error {
	existing, err := r.List(tx)
	if err != nil {
		return err
	}
	return r.ReplaceAll(tx, append(existing, items...))
}

func (r *menuItemRepository) DeleteAll(tx Writer) error {
	return tx.Delete(KeyInventory)
}
