package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("amount received is less than the total")
)

const publishTimeout = 3 * time.Second

// CheckoutRequest settles a cart.
type CheckoutRequest struct {
	PaymentMethod  string           `json:"payment_method" binding:"required"`
	AmountReceived *decimal.Decimal `json:"amount_received"`
}

// CheckoutEngine turns a cart into a recorded sale.
type CheckoutEngine interface {
	// Checkout validates the cart against current stock and, in one transaction,
	// decrements stock, appends the sale and clears the cart. On any error
	// nothing is changed, the cart included.
	Checkout(ctx context.Context, cart *Cart, method models.PaymentMethod, amountReceived *decimal.Decimal) (*models.Sale, error)
	// Record is Checkout without the sale event. Callers holding locks publish afterwards.
	Record(ctx context.Context, cart *Cart, method models.PaymentMethod, amountReceived *decimal.Decimal) (*models.Sale, error)
	// Publish announces a recorded sale. Failures are logged, never returned.
	Publish(ctx context.Context, sale models.Sale)
}

type checkoutEngine struct {
	store        *repositories.Store
	menuRepo     repositories.MenuItemRepository
	salesRepo    repositories.SalesLogRepository
	movementRepo repositories.StockMovementRepository
	publisher    EventPublisher
	now          func() time.Time
}

func NewCheckoutEngine(
	store *repositories.Store,
	mr repositories.MenuItemRepository,
	sr repositories.SalesLogRepository,
	smr repositories.StockMovementRepository,
	publisher EventPublisher,
	now func() time.Time,
) CheckoutEngine {
	return &checkoutEngine{
		store:        store,
		menuRepo:     mr,
		salesRepo:    sr,
		movementRepo: smr,
		publisher:    publisher,
		now:          now,
	}
}

func (e *checkoutEngine) Checkout(ctx context.Context, cart *Cart, method models.PaymentMethod, amountReceived *decimal.Decimal) (*models.Sale, error) {
	sale, err := e.Record(ctx, cart, method, amountReceived)
	if err != nil {
		return nil, err
	}
	e.Publish(ctx, *sale)
	return sale, nil
}

func (e *checkoutEngine) Record(ctx context.Context, cart *Cart, method models.PaymentMethod, amountReceived *decimal.Decimal) (*models.Sale, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	switch method {
	case models.PaymentCash:
		if amountReceived == nil {
			return nil, fmt.Errorf("%w: amount received is required for cash payments", ErrValidation)
		}
		if amountReceived.IsNegative() {
			return nil, fmt.Errorf("%w: amount received must not be negative", ErrValidation)
		}
	case models.PaymentEWallet:
	default:
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, method)
	}

	tx := e.store.Begin(ctx)
	defer tx.Rollback()

	lines := cart.Lines()
	saleLines := make([]models.CartLine, 0, len(lines))
	total, profit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		item, err := e.menuRepo.GetByID(tx, line.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s is no longer on the menu", ErrValidation, line.Name)
			}
			return nil, fmt.Errorf("failed to load menu item %s: %w", line.ID, err)
		}
		if line.Quantity > item.Stock {
			return nil, &StockError{ItemID: item.ID, ItemName: item.Name, Requested: line.Quantity, Available: item.Stock}
		}
		snapshot := models.CartLine{MenuItem: *item, Quantity: line.Quantity}
		saleLines = append(saleLines, snapshot)
		total = total.Add(snapshot.LineTotal())
		profit = profit.Add(snapshot.LineTotal().Sub(snapshot.LineCost()))
	}

	now := e.now()
	sale := models.Sale{
		ID:            utils.NewID(utils.IDPrefixSale),
		Timestamp:     now,
		Items:         saleLines,
		Total:         total,
		Profit:        profit,
		PaymentMethod: method,
	}
	if method == models.PaymentCash {
		if amountReceived.LessThan(total) {
			return nil, fmt.Errorf("%w: received %s, total %s", ErrInsufficientPayment,
				utils.FormatMoney(*amountReceived), utils.FormatMoney(total))
		}
		received := *amountReceived
		change := received.Sub(total)
		sale.AmountReceived = &received
		sale.Change = &change
	}

	movements := make([]models.StockMovement, 0, len(saleLines))
	for _, line := range saleLines {
		updated, err := e.menuRepo.AdjustStock(tx, line.ID, -line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to update stock for %s: %w", line.Name, err)
		}
		movements = append(movements, newMovement(*updated, models.MovementTypeSale, -line.Quantity, "Sale "+sale.ID, now))
	}
	if err := e.salesRepo.Append(tx, sale); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}
	if err := e.movementRepo.Append(tx, movements...); err != nil {
		return nil, fmt.Errorf("failed to record stock movements: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	cart.Clear()

	utils.LogInfo("Sale completed", map[string]interface{}{
		"sale_id":        sale.ID,
		"total":          utils.FormatMoney(sale.Total),
		"profit":         utils.FormatMoney(sale.Profit),
		"payment_method": sale.PaymentMethod,
		"lines":          len(sale.Items),
	})
	return &sale, nil
}

func (e *checkoutEngine) Publish(ctx context.Context, sale models.Sale) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := e.publisher.PublishSale(pubCtx, newSaleEvent(sale)); err != nil {
		utils.LogWarn(err, "Failed to publish sale event", map[string]interface{}{"sale_id": sale.ID})
	}
}
