package repositories

import (
	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/pkg/utils"
)

// StockMovementRepository defines the operations on the stock movement audit log.
type StockMovementRepository interface {
	Append(tx Writer, movements ...models.StockMovement) error
	// List returns matching movements newest first, along with the total match count.
	List(ex Executor, filters models.StockMovementFilters) ([]models.StockMovement, int, error)
	DeleteAll(tx Writer) error
}

type stockMovementRepository struct{}

// NewStockMovementRepository creates a new instance of StockMovementRepository.
func NewStockMovementRepository() StockMovementRepository {
	return &stockMovementRepository{}
}

func (r *stockMovementRepository) Append(tx Writer, movements ...models.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	existing, err := getList[models.StockMovement](tx, KeyStockMovements)
	if err != nil {
		return err
	}
	return tx.Put(KeyStockMovements, append(existing, movements...))
}

func (r *stockMovementRepository) List(ex Executor, filters models.StockMovementFilters) ([]models.StockMovement, int, error) {
	all, err := getList[models.StockMovement](ex, KeyStockMovements)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]models.StockMovement, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if filters.ItemID != "" && m.ItemID != filters.ItemID {
			continue
		}
		if filters.MovementType != "" && m.MovementType != filters.MovementType {
			continue
		}
		matched = append(matched, m)
	}
	return utils.Paginate(matched, filters.Page, filters.PageSize), len(matched), nil
}

func (r *stockMovementRepository) DeleteAll(tx Writer) error {
	return tx.Delete(KeyStockMovements)
}
