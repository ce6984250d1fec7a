package repositories

import (
	"fmt"

	"kedai_pos_backend/internal/models"
)

// SubmissionRepository defines the operations on the vendor submission queue.
type SubmissionRepository interface {
	List(ex Executor) ([]models.VendorSubmission, error)
	GetByID(ex Executor, id string) (*models.VendorSubmission, error)
	Create(tx Writer, sub models.VendorSubmission) error
	Delete(tx Writer, id string) (bool, error)
}

type submissionRepository struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &submissionRepository{}
}

func (r *submissionRepository) List(ex Executor) ([]models.VendorSubmission, error) {
	return getList[models.VendorSubmission](ex, KeyVendorSubmissions)
}

func (r *submissionRepository) GetByID(ex Executor, id string) (*models.VendorSubmission, error) {
	subs, err := r.List(ex)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: submission %s", ErrNotFound, id)
}

func (r *submissionRepository) Create(tx Writer, sub models.VendorSubmission) error {
	subs, err := r.List(tx)
	if err != nil {
		return err
	}
	return tx.Put(KeyVendorSubmissions, append(subs, sub))
}

func (r *submissionRepository) Delete(tx Writer, id string) (bool, error) {
	subs, err := r.List(tx)
	if err != nil {
		return false, err
	}
	kept := subs[:0]
	removed := false
	for _, s := range subs {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return false, nil
	}
	return true, tx.Put(KeyVendorSubmissions, kept)
}
