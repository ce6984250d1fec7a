package models

import "time"

// OperatorID identifies the single till operator in tokens and logs.
const OperatorID = "operator"

// LoginRequest is the operator PIN login payload.
type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// ChangePINRequest replaces the operator PIN.
type ChangePINRequest struct {
	CurrentPIN string `json:"current_pin" binding:"required"`
	NewPIN     string `json:"new_pin" binding:"required"`
}

// AuthResponse carries an issued access token.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
