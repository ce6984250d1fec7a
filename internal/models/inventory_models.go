package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is one sellable product together with its stock on hand.
type MenuItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Vendor       *string         `json:"vendor,omitempty"`
	ImageURL     *string         `json:"image_url,omitempty"` // opaque, may be a data URI
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Stock        int             `json:"stock"`
}

// VendorName returns the vendor or "" when the item has none.
func (m MenuItem) VendorName() string {
	if m.Vendor == nil {
		return ""
	}
	return *m.Vendor
}

// MenuItemInput is the caller-supplied part of a MenuItem.
type MenuItemInput struct {
	Name         string          `json:"name" binding:"required"`
	Vendor       *string         `json:"vendor"`
	ImageURL     *string         `json:"image_url"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Stock        int             `json:"stock"`
}

// Movement types recorded in the stock movement log.
const (
	MovementTypeSale       = "sale"
	MovementTypeAdjustment = "adjustment"
	MovementTypeRestock    = "restock"
	MovementTypeImport     = "import"
)

// StockMovement is an append-only record of a change to an item's stock.
type StockMovement struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	MovementType    string    `json:"movement_type"`
	QuantityChanged int       `json:"quantity_changed"`
	StockAfter      int       `json:"stock_after"`
	Reason          *string   `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// StockMovementFilters narrows a movement listing.
type StockMovementFilters struct {
	ItemID       string
	MovementType string
	Page         int
	PageSize     int
}
