package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var ErrSubmissionNotFound = errors.New("vendor submission not found")

// SubmitVendorItemRequest is what a vendor sends from the public portal.
type SubmitVendorItemRequest struct {
	Vendor    string          `json:"vendor" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// ApproveSubmissionRequest completes a submission into a menu item.
// SellingPrice defaults to the submitted cost price and Stock to zero.
type ApproveSubmissionRequest struct {
	Name         *string          `json:"name"`
	Vendor       *string          `json:"vendor"`
	ImageURL     *string          `json:"image_url"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Stock        *int             `json:"stock"`
}

type SubmissionService interface {
	Submit(ctx context.Context, req SubmitVendorItemRequest) (*models.VendorSubmission, error)
	// ListSubmissions returns the queue newest first.
	ListSubmissions(ctx context.Context) ([]models.VendorSubmission, error)
	Approve(ctx context.Context, id string, req ApproveSubmissionRequest) (*models.MenuItem, error)
	DeleteSubmission(ctx context.Context, id string) error
}

type submissionService struct {
	store        *repositories.Store
	subRepo      repositories.SubmissionRepository
	menuRepo     repositories.MenuItemRepository
	movementRepo repositories.StockMovementRepository
	now          func() time.Time
}

func NewSubmissionService(
	store *repositories.Store,
	sr repositories.SubmissionRepository,
	mr repositories.MenuItemRepository,
	smr repositories.StockMovementRepository,
	now func() time.Time,
) SubmissionService {
	return &submissionService{store: store, subRepo: sr, menuRepo: mr, movementRepo: smr, now: now}
}

func (s *submissionService) Submit(ctx context.Context, req SubmitVendorItemRequest) (*models.VendorSubmission, error) {
	vendor, name := strings.TrimSpace(req.Vendor), strings.TrimSpace(req.Name)
	if vendor == "" || name == "" {
		return nil, fmt.Errorf("%w: vendor and name are required", ErrValidation)
	}
	if req.CostPrice.IsNegative() {
		return nil, fmt.Errorf("%w: cost price must not be negative", ErrValidation)
	}

	sub := models.VendorSubmission{
		ID:          utils.NewID(utils.IDPrefixSubmission),
		Vendor:      vendor,
		Name:        name,
		CostPrice:   req.CostPrice,
		SubmittedAt: s.now(),
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()
	if err := s.subRepo.Create(tx, sub); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	utils.LogInfo("Vendor submission received", map[string]interface{}{"submission_id": sub.ID, "vendor": vendor})
	return &sub, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context) ([]models.VendorSubmission, error) {
	subs, err := s.subRepo.List(s.store)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs, nil
}

func (s *submissionService) Approve(ctx context.Context, id string, req ApproveSubmissionRequest) (*models.MenuItem, error) {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	sub, err := s.subRepo.GetByID(tx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
		}
		return nil, err
	}

	in := models.MenuItemInput{
		Name:         sub.Name,
		Vendor:       &sub.Vendor,
		ImageURL:     req.ImageURL,
		CostPrice:    sub.CostPrice,
		SellingPrice: sub.CostPrice,
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Vendor != nil {
		in.Vendor = req.Vendor
	}
	if req.SellingPrice != nil {
		in.SellingPrice = *req.SellingPrice
	}
	if req.Stock != nil {
		in.Stock = *req.Stock
	}
	if err := ValidateMenuItemInput(in); err != nil {
		return nil, err
	}

	item := newMenuItem(utils.NewID(utils.IDPrefixMenuItem), in)
	if err := s.menuRepo.AppendAll(tx, []models.MenuItem{item}); err != nil {
		return nil, fmt.Errorf("failed to add approved item: %w", err)
	}
	if _, err := s.subRepo.Delete(tx, id); err != nil {
		return nil, fmt.Errorf("failed to remove submission %s: %w", id, err)
	}
	if item.Stock > 0 {
		mv := newMovement(item, models.MovementTypeRestock, item.Stock, "Approved vendor submission", s.now())
		if err := s.movementRepo.Append(tx, mv); err != nil {
			return nil, fmt.Errorf("failed to record stock movement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	utils.LogInfo("Vendor submission approved", map[string]interface{}{"submission_id": id, "item_id": item.ID})
	return &item, nil
}

func (s *submissionService) DeleteSubmission(ctx context.Context, id string) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	removed, err := s.subRepo.Delete(tx, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission %s: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	return tx.Commit()
}
