package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/pkg/utils"
)

var (
	ErrPendingActionNotFound = errors.New("pending action not found")
	ErrPendingActionExpired  = errors.New("pending action expired")
)

// ApplyFunc performs a confirmed destructive action.
type ApplyFunc func(ctx context.Context) error

// ConfirmationService holds destructive actions until the operator confirms them.
//
// An action moves from AwaitingConfirmation to Applied on Confirm, or back to
// Idle on Cancel or expiry. A failed apply leaves it awaiting confirmation.
type ConfirmationService interface {
	Request(kind models.PendingActionKind, description string, apply ApplyFunc) models.PendingAction
	Get(id string) (*models.PendingAction, error)
	Confirm(ctx context.Context, id string) (*models.PendingAction, error)
	Cancel(id string) (*models.PendingAction, error)
}

type pendingEntry struct {
	action models.PendingAction
	apply  ApplyFunc
}

type confirmationService struct {
	mu      sync.Mutex
	pending map[string]*pendingEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewConfirmationService creates a ConfirmationService whose actions expire after ttl.
func NewConfirmationService(ttl time.Duration, now func() time.Time) ConfirmationService {
	return &confirmationService{
		pending: make(map[string]*pendingEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (s *confirmationService) Request(kind models.PendingActionKind, description string, apply ApplyFunc) models.PendingAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	now := s.now()
	action := models.PendingAction{
		ID:          utils.NewID(utils.IDPrefixPending),
		Kind:        kind,
		State:       models.StateAwaitingConfirmation,
		Description: description,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	s.pending[action.ID] = &pendingEntry{action: action, apply: apply}
	utils.LogInfo("Action awaiting confirmation", map[string]interface{}{"action_id": action.ID, "kind": kind})
	return action
}

func (s *confirmationService) Get(id string) (*models.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	action := entry.action
	return &action, nil
}

// Confirm claims the action before applying it, so it runs at most once.
func (s *confirmationService) Confirm(ctx context.Context, id string) (*models.PendingAction, error) {
	s.mu.Lock()
	entry, err := s.lookupLocked(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	delete(s.pending, id)
	s.mu.Unlock()

	if err := entry.apply(ctx); err != nil {
		s.mu.Lock()
		s.pending[id] = entry
		s.mu.Unlock()
		return nil, err
	}

	action := entry.action
	action.State = models.StateApplied
	utils.LogInfo("Action applied", map[string]interface{}{"action_id": id, "kind": action.Kind})
	return &action, nil
}

func (s *confirmationService) Cancel(id string) (*models.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	delete(s.pending, id)
	action := entry.action
	action.State = models.StateIdle
	return &action, nil
}

func (s *confirmationService) lookupLocked(id string) (*pendingEntry, error) {
	entry, ok := s.pending[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPendingActionNotFound, id)
	}
	if s.now().After(entry.action.ExpiresAt) {
		delete(s.pending, id)
		return nil, fmt.Errorf("%w: %s", ErrPendingActionExpired, id)
	}
	return entry, nil
}

func (s *confirmationService) pruneLocked() {
	now := s.now()
	for id, entry := range s.pending {
		if now.After(entry.action.ExpiresAt) {
			delete(s.pending, id)
		}
	}
}
