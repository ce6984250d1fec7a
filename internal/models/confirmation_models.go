package models

import "time"

// PendingActionKind names a destructive operation that needs confirming.
type PendingActionKind string

const (
	ActionDeleteItem       PendingActionKind = "delete_item"
	ActionReplaceInventory PendingActionKind = "replace_inventory"
	ActionResetData        PendingActionKind = "reset_data"
)

// PendingActionState is the confirmation state machine position.
type PendingActionState string

const (
	StateIdle                 PendingActionState = "idle"
	StateAwaitingConfirmation PendingActionState = "awaiting_confirmation"
	StateApplied              PendingActionState = "applied"
)

// PendingAction is a requested destructive action.
type PendingAction struct {
	ID          string             `json:"id"`
	Kind        PendingActionKind  `json:"kind"`
	State       PendingActionState `json:"state"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	ExpiresAt   time.Time          `json:"expires_at"`
}
