package services

import (
	"context"
	"fmt"
	"strings"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"
)

const maxBrandNameLength = 60

type SettingService interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
	SetBrandName(ctx context.Context, name string) (*models.Settings, error)
	SetTheme(ctx context.Context, theme string) (*models.Settings, error)
	ToggleTheme(ctx context.Context) (*models.Settings, error)
	// RequestReset registers a pending wipe of inventory, sales and stock movements.
	RequestReset(ctx context.Context) *models.PendingAction
	ResetData(ctx context.Context) error
}

type settingService struct {
	store         *repositories.Store
	settingRepo   repositories.SettingRepository
	menuRepo      repositories.MenuItemRepository
	salesRepo     repositories.SalesLogRepository
	movementRepo  repositories.StockMovementRepository
	confirmations ConfirmationService
}

func NewSettingService(
	store *repositories.Store,
	str repositories.SettingRepository,
	mr repositories.MenuItemRepository,
	sr repositories.SalesLogRepository,
	smr repositories.StockMovementRepository,
	confirmations ConfirmationService,
) SettingService {
	return &settingService{
		store:         store,
		settingRepo:   str,
		menuRepo:      mr,
		salesRepo:     sr,
		movementRepo:  smr,
		confirmations: confirmations,
	}
}

func (s *settingService) read(ex repositories.Executor) (*models.Settings, error) {
	theme, err := s.settingRepo.GetTheme(ex)
	if err != nil {
		return nil, err
	}
	brand, err := s.settingRepo.GetBrandName(ex)
	if err != nil {
		return nil, err
	}
	return &models.Settings{Theme: theme, BrandName: brand}, nil
}

func (s *settingService) GetSettings(ctx context.Context) (*models.Settings, error) {
	return s.read(s.store)
}

func (s *settingService) SetBrandName(ctx context.Context, name string) (*models.Settings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrValidation)
	}
	if len([]rune(name)) > maxBrandNameLength {
		return nil, fmt.Errorf("%w: brand name must be at most %d characters", ErrValidation, maxBrandNameLength)
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()
	if err := s.settingRepo.SetBrandName(tx, name); err != nil {
		return nil, err
	}
	settings, err := s.read(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingService) SetTheme(ctx context.Context, theme string) (*models.Settings, error) {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return nil, fmt.Errorf("%w: theme must be %q or %q", ErrValidation, models.ThemeLight, models.ThemeDark)
	}

	tx := s.store.Begin(ctx)
	defer tx.Rollback()
	if err := s.settingRepo.SetTheme(tx, theme); err != nil {
		return nil, err
	}
	settings, err := s.read(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingService) ToggleTheme(ctx context.Context) (*models.Settings, error) {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	current, err := s.settingRepo.GetTheme(tx)
	if err != nil {
		return nil, err
	}
	next := models.ThemeDark
	if current == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := s.settingRepo.SetTheme(tx, next); err != nil {
		return nil, err
	}
	settings, err := s.read(tx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingService) RequestReset(ctx context.Context) *models.PendingAction {
	action := s.confirmations.Request(models.ActionResetData,
		"Delete all menu items, sales and stock movements",
		s.ResetData)
	return &action
}

func (s *settingService) ResetData(ctx context.Context) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	if err := s.menuRepo.DeleteAll(tx); err != nil {
		return err
	}
	if err := s.salesRepo.DeleteAll(tx); err != nil {
		return err
	}
	if err := s.movementRepo.DeleteAll(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	utils.LogWarn(nil, "All inventory and sales data reset")
	return nil
}
