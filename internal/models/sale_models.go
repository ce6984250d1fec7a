package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was settled.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentEWallet PaymentMethod = "E-Wallet"
)

// ParsePaymentMethod accepts the canonical names and the Malay "Tunai" for cash.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "tunai":
		return PaymentCash, true
	case "e-wallet", "ewallet":
		return PaymentEWallet, true
	}
	return "", false
}

// Label is the name printed on receipts and exports.
func (p PaymentMethod) Label() string {
	if p == PaymentCash {
		return "Tunai"
	}
	return string(p)
}

// CartLine is a menu item snapshot plus the quantity being bought.
type CartLine struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// LineTotal is sellingPrice x quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.SellingPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineCost is costPrice x quantity.
func (l CartLine) LineCost() decimal.Decimal {
	return l.CostPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is an immutable record of a completed checkout.
type Sale struct {
	ID             string           `json:"id"`
	Timestamp      time.Time        `json:"timestamp"`
	Items          []CartLine       `json:"items"`
	Total          decimal.Decimal  `json:"total"`
	Profit         decimal.Decimal  `json:"profit"`
	PaymentMethod  PaymentMethod    `json:"payment_method"`
	AmountReceived *decimal.Decimal `json:"amount_received,omitempty"`
	Change         *decimal.Decimal `json:"change,omitempty"`
}

// SaleFilters narrows a sales listing.
type SaleFilters struct {
	Since    *time.Time
	Page     int
	PageSize int
}

// CartView is the API shape of an open cart.
type CartView struct {
	ID              string            `json:"id"`
	Items           []CartLine        `json:"items"`
	Total           decimal.Decimal   `json:"total"`
	ItemCount       int               `json:"item_count"`
	CashSuggestions []decimal.Decimal `json:"cash_suggestions"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Warning         string            `json:"warning,omitempty"`
}
