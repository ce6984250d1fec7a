package services

import (
	"context"
	"errors"
	"fmt"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid PIN")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

const (
	minPINLength = 4
	maxPINLength = 12
)

// AuthService authenticates the till operator by PIN.
type AuthService interface {
	// EnsureOperatorPIN stores defaultPIN when no PIN has been set yet.
	EnsureOperatorPIN(ctx context.Context, defaultPIN string) error
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	ChangePIN(ctx context.Context, req models.ChangePINRequest) error
}

type authService struct {
	store       *repositories.Store
	settingRepo repositories.SettingRepository
	jwt         *utils.JWTManager
}

func NewAuthService(store *repositories.Store, sr repositories.SettingRepository, jwt *utils.JWTManager) AuthService {
	return &authService{store: store, settingRepo: sr, jwt: jwt}
}

func hashPIN(pin string) (string, error) {
	if !utils.IsValidPINLength(pin, minPINLength, maxPINLength) {
		return "", fmt.Errorf("%w: PIN must be %d to %d characters", ErrValidation, minPINLength, maxPINLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hashed), nil
}

func (s *authService) EnsureOperatorPIN(ctx context.Context, defaultPIN string) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	existing, err := s.settingRepo.GetPINHash(tx)
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}
	if defaultPIN == "" {
		utils.LogWarn(nil, "No operator PIN configured; set OPERATOR_PIN to enable operator login")
		return nil
	}
	hashed, err := hashPIN(defaultPIN)
	if err != nil {
		return err
	}
	if err := s.settingRepo.SetPINHash(tx, hashed); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	utils.LogInfo("Operator PIN initialised from configuration")
	return nil
}

func (s *authService) checkPIN(ex repositories.Executor, pin string) error {
	hashed, err := s.settingRepo.GetPINHash(ex)
	if err != nil {
		return err
	}
	if hashed == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pin)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.checkPIN(s.store, req.PIN); err != nil {
		return nil, err
	}
	token, expiresAt, err := s.jwt.GenerateAccessToken(models.OperatorID, utils.RoleOperator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.AuthResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

func (s *authService) ChangePIN(ctx context.Context, req models.ChangePINRequest) error {
	tx := s.store.Begin(ctx)
	defer tx.Rollback()

	if err := s.checkPIN(tx, req.CurrentPIN); err != nil {
		return err
	}
	hashed, err := hashPIN(req.NewPIN)
	if err != nil {
		return err
	}
	if err := s.settingRepo.SetPINHash(tx, hashed); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	utils.LogInfo("Operator PIN changed")
	return nil
}
