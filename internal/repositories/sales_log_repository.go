package repositories

import (
	"fmt"
	"time"

	"kedai_pos_backend/internal/models"
)

// SalesLogRepository is the append-only log of completed sales.
type SalesLogRepository interface {
	Append(tx Writer, sale models.Sale) error
	// List returns sales in the order they were recorded.
	List(ex Executor) ([]models.Sale, error)
	ListSince(ex Executor, since time.Time) ([]models.Sale, error)
	GetByID(ex Executor, id string) (*models.Sale, error)
	DeleteAll(tx Writer) error
}

type salesLogRepository struct{}

func NewSalesLogRepository() SalesLogRepository {
	return &salesLogRepository{}
}

func (r *salesLogRepository) Append(tx Writer, sale models.Sale) error {
	sales, err := r.List(tx)
	if err != nil {
		return err
	}
	for _, existing := range sales {
		if existing.ID == sale.ID {
			return fmt.Errorf("%w: sale %s", ErrDuplicateKey, sale.ID)
		}
	}
	return tx.Put(KeySales, append(sales, sale))
}

func (r *salesLogRepository) List(ex Executor) ([]models.Sale, error) {
	return getList[models.Sale](ex, KeySales)
}

func (r *salesLogRepository) ListSince(ex Executor, since time.Time) ([]models.Sale, error) {
	sales, err := r.List(ex)
	if err != nil {
		return nil, err
	}
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *salesLogRepository) GetByID(ex Executor, id string) (*models.Sale, error) {
	sales, err := r.List(ex)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if sales[i].ID == id {
			return &sales[i], nil
		}
	}
	return nil, fmt.Errorf("%w: sale %s", ErrNotFound, id)
}

func (r *salesLogRepository) DeleteAll(tx Writer) error {
	return tx.Delete(KeySales)
}
