package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoVendorLabel groups items that have no vendor set.
const NoVendorLabel = "Tiada Vendor"

// PaymentMethodTotal is the revenue share of one payment method.
type PaymentMethodTotal struct {
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Revenue       decimal.Decimal `json:"revenue"`
	Transactions  int             `json:"transactions"`
	Percentage    decimal.Decimal `json:"percentage"`
}

// DailySummary aggregates sales since the start of the local day.
type DailySummary struct {
	Date             string               `json:"date"` // YYYY-MM-DD
	Revenue          decimal.Decimal      `json:"revenue"`
	Profit           decimal.Decimal      `json:"profit"`
	Cost             decimal.Decimal      `json:"cost"`
	TransactionCount int                  `json:"transaction_count"`
	ByPaymentMethod  []PaymentMethodTotal `json:"by_payment_method"`
	Sales            []Sale               `json:"sales"`
}

// StockBalanceItem reconciles one item's stock for the day.
type StockBalanceItem struct {
	ItemID       string `json:"item_id"`
	Name         string `json:"name"`
	OpeningStock int    `json:"opening_stock"`
	Sold         int    `json:"sold"`
	Balance      int    `json:"balance"`
}

// VendorStockBalance groups stock reconciliation rows by vendor.
type VendorStockBalance struct {
	Vendor string             `json:"vendor"`
	Items  []StockBalanceItem `json:"items"`
}

// VendorCostItem is one product line of the vendor cost report.
type VendorCostItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// VendorCost is what is owed to one vendor for today's sold units.
type VendorCost struct {
	Vendor    string           `json:"vendor"`
	TotalCost decimal.Decimal  `json:"total_cost"`
	Items     []VendorCostItem `json:"items"`
}

// CashFlowPoint is one day of the cash-flow series.
type CashFlowPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// DayClosing is the end-of-day document: totals plus stock reconciliation.
type DayClosing struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	Summary      DailySummary         `json:"summary"`
	StockBalance []VendorStockBalance `json:"stock_balance"`
}
