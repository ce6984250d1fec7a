package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorSubmission is a vendor's proposed menu item awaiting operator approval.
type VendorSubmission struct {
	ID          string          `json:"id"`
	Vendor      string          `json:"vendor"`
	Name        string          `json:"name"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
