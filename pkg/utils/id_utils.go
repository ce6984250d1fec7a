package utils

import "github.com/google/uuid"

// Identifier prefixes keep ids readable in receipts and logs.
const (
	IDPrefixMenuItem   = "item"
	IDPrefixSale       = "sale"
	IDPrefixSubmission = "sub"
	IDPrefixMovement   = "mv"
	IDPrefixCart       = "cart"
	IDPrefixPending    = "act"
)

// NewID returns prefix-<uuid v4>.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
