package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var ErrCartNotFound = errors.New("cart not found")

// idleCartTTL is how long an untouched cart survives before it is dropped.
const idleCartTTL = 24 * time.Hour

// AddCartItemRequest adds units of a menu item. Quantity defaults to 1.
type AddCartItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// SetCartQuantityRequest sets a line's quantity; zero or less removes it.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartService keeps the open carts of the till in memory.
type CartService interface {
	CreateCart(ctx context.Context) *models.CartView
	GetCart(ctx context.Context, cartID string) (*models.CartView, error)
	AddItem(ctx context.Context, cartID string, req AddCartItemRequest) (*models.CartView, error)
	// SetQuantity may return a clamped cart together with a *StockError.
	SetQuantity(ctx context.Context, cartID, itemID string, qty int) (*models.CartView, error)
	RemoveItem(ctx context.Context, cartID, itemID string) (*models.CartView, error)
	DiscardCart(ctx context.Context, cartID string) error
	Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*models.Sale, error)
}

type cartService struct {
	mu    sync.Mutex
	carts map[string]*Cart

	store    *repositories.Store
	menuRepo repositories.MenuItemRepository
	checkout CheckoutEngine
	now      func() time.Time
}

func NewCartService(store *repositories.Store, mr repositories.MenuItemRepository, checkout CheckoutEngine, now func() time.Time) CartService {
	return &cartService{
		carts:    make(map[string]*Cart),
		store:    store,
		menuRepo: mr,
		checkout: checkout,
		now:      now,
	}
}

func (s *cartService) CreateCart(ctx context.Context) *models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, c := range s.carts {
		if now.Sub(c.UpdatedAt) > idleCartTTL {
			delete(s.carts, id)
		}
	}

	cart := NewCart(utils.NewID(utils.IDPrefixCart), s.now)
	s.carts[cart.ID] = cart
	return cart.View()
}

func (s *cartService) cartLocked(cartID string) (*Cart, error) {
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCartNotFound, cartID)
	}
	return cart, nil
}

func (s *cartService) currentItem(itemID string) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetByID(s.store, itemID)
	if err != nil {
		return nil, mapItemErr(err, itemID)
	}
	return item, nil
}

func (s *cartService) GetCart(ctx context.Context, cartID string) (*models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	return cart.View(), nil
}

func (s *cartService) AddItem(ctx context.Context, cartID string, req AddCartItemRequest) (*models.CartView, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	item, err := s.currentItem(req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddQuantity(*item, qty); err != nil {
		return nil, err
	}
	return cart.View(), nil
}

func (s *cartService) SetQuantity(ctx context.Context, cartID, itemID string, qty int) (*models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}

	if qty <= 0 {
		cart.RemoveItem(itemID)
		return cart.View(), nil
	}
	item, err := s.currentItem(itemID)
	if err != nil {
		return nil, err
	}
	stockErr := cart.SetQuantity(*item, qty)
	view := cart.View()
	if stockErr != nil {
		view.Warning = stockErr.Error()
	}
	return view, stockErr
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID string) (*models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(itemID)
	return cart.View(), nil
}

func (s *cartService) DiscardCart(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.cartLocked(cartID); err != nil {
		return err
	}
	delete(s.carts, cartID)
	return nil
}

// Checkout holds the cart lock while the sale is recorded so the cart cannot change
// underneath it. The sale event goes out after the lock is released.
func (s *cartService) Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*models.Sale, error) {
	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrValidation, req.PaymentMethod)
	}

	sale, err := s.record(ctx, cartID, method, req.AmountReceived)
	if err != nil {
		return nil, err
	}
	s.checkout.Publish(ctx, *sale)
	return sale, nil
}

func (s *cartService) record(ctx context.Context, cartID string, method models.PaymentMethod, amountReceived *decimal.Decimal) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, err := s.cartLocked(cartID)
	if err != nil {
		return nil, err
	}
	return s.checkout.Record(ctx, cart, method, amountReceived)
}
