package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"kedai_pos_backend/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// StockError reports a quantity request above the stock on hand. It matches ErrInsufficientStock.
type StockError struct {
	ItemID    string
	ItemName  string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	if e.OutOfStock() {
		return fmt.Sprintf("%s is out of stock", e.ItemName)
	}
	return fmt.Sprintf("not enough stock for %s: requested %d, only %d left", e.ItemName, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// OutOfStock is true when nothing at all is left.
func (e *StockError) OutOfStock() bool { return e.Available <= 0 }

// Cart is the transient list of lines being rung up. It is not safe for concurrent use.
// Quantities are checked against the stock of the item passed in, which callers
// read fresh from the menu item store.
type Cart struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	lines []models.CartLine
	clock func() time.Time
}

// NewCart creates an empty cart. clock stamps UpdatedAt; nil means time.Now.
func NewCart(id string, clock func() time.Time) *Cart {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	return &Cart{ID: id, CreatedAt: now, UpdatedAt: now, clock: clock}
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.lines {
		if c.lines[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Quantity is the current quantity of itemID, 0 when absent.
func (c *Cart) Quantity(itemID string) int {
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// AddItem adds one unit of item.
func (c *Cart) AddItem(item models.MenuItem) error {
	return c.AddQuantity(item, 1)
}

// AddQuantity raises the line for item by n. The cart is unchanged when the
// resulting quantity would exceed item.Stock.
func (c *Cart) AddQuantity(item models.MenuItem, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: quantity to add must be positive", ErrValidation)
	}
	requested := c.Quantity(item.ID) + n
	if requested > item.Stock {
		return &StockError{ItemID: item.ID, ItemName: item.Name, Requested: requested, Available: item.Stock}
	}
	c.put(item, requested)
	return nil
}

// SetQuantity sets the line for item to qty. qty <= 0 removes the line.
// A qty above item.Stock is clamped to the stock and a *StockError is returned
// alongside the clamped cart; callers should surface it but keep the cart.
func (c *Cart) SetQuantity(item models.MenuItem, qty int) error {
	if qty <= 0 {
		c.RemoveItem(item.ID)
		return nil
	}
	var stockErr error
	if qty > item.Stock {
		stockErr = &StockError{ItemID: item.ID, ItemName: item.Name, Requested: qty, Available: item.Stock}
		qty = item.Stock
	}
	if qty <= 0 {
		c.RemoveItem(item.ID)
	} else {
		c.put(item, qty)
	}
	return stockErr
}

// RemoveItem drops the line for itemID if present.
func (c *Cart) RemoveItem(itemID string) {
	if i := c.indexOf(itemID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		c.touch()
	}
}

func (c *Cart) put(item models.MenuItem, qty int) {
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i] = models.CartLine{MenuItem: item, Quantity: qty}
	} else {
		c.lines = append(c.lines, models.CartLine{MenuItem: item, Quantity: qty})
	}
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = c.clock()
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is the sum of sellingPrice x quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
	c.touch()
}

// View is the JSON representation of the cart.
func (c *Cart) View() *models.CartView {
	total := c.Total()
	return &models.CartView{
		ID:              c.ID,
		Items:           c.Lines(),
		Total:           total,
		ItemCount:       c.ItemCount(),
		CashSuggestions: SuggestCashNotes(total),
		UpdatedAt:       c.UpdatedAt,
	}
}

var commonNotes = []int64{10, 20, 50, 100}

// nextSensibleNote is the smallest convenient note amount covering total.
func nextSensibleNote(total decimal.Decimal) decimal.Decimal {
	for _, note := range []int64{5, 10, 20, 50, 100} {
		n := decimal.NewFromInt(note)
		if total.LessThanOrEqual(n) {
			return n
		}
	}
	ten := decimal.NewFromInt(10)
	return total.Div(ten).Ceil().Mul(ten)
}

// SuggestCashNotes proposes up to four tender amounts for a cash payment.
func SuggestCashNotes(total decimal.Decimal) []decimal.Decimal {
	if !total.IsPositive() {
		return []decimal.Decimal{}
	}
	candidates := []decimal.Decimal{nextSensibleNote(total)}
	for _, note := range commonNotes {
		n := decimal.NewFromInt(note)
		if n.GreaterThan(total) {
			candidates = append(candidates, n)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].LessThan(candidates[j]) })

	out := make([]decimal.Decimal, 0, 4)
	for _, c := range candidates {
		if len(out) > 0 && out[len(out)-1].Equal(c) {
			continue
		}
		out = append(out, c)
		if len(out) == 4 {
			break
		}
	}
	return out
}
