package services

import (
	"context"
	"testing"
	"time"

	"kedai_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCashSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Nasi Lemak", "Mak Cik Ros", "2.00", "5.00", 10)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 3})
	require.NoError(t, err)

	sale, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "cash", AmountReceived: decPtr("20.00")})
	require.NoError(t, err)

	assert.True(t, dec("15").Equal(sale.Total), "total %s", sale.Total)
	assert.True(t, dec("9").Equal(sale.Profit), "profit %s", sale.Profit)
	assert.Equal(t, models.PaymentCash, sale.PaymentMethod)
	require.NotNil(t, sale.Change)
	assert.True(t, dec("5").Equal(*sale.Change))
	assert.True(t, dec("20").Equal(*sale.AmountReceived))
	assert.Equal(t, f.clock.Now(), sale.Timestamp)

	assert.Equal(t, 7, f.stockOf(t, item.ID))

	view, err := f.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	sales, total, err := f.sales.ListSales(ctx, models.SaleFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, sale.ID, sales[0].ID)

	movements, _, err := f.menu.ListStockMovements(ctx, models.StockMovementFilters{ItemID: item.ID})
	require.NoError(t, err)
	require.NotEmpty(t, movements)
	assert.Equal(t, models.MovementTypeSale, movements[0].MovementType)
	assert.Equal(t, -3, movements[0].QuantityChanged)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, sale.ID, f.publisher.events[0].SaleID)
	assert.Equal(t, "15.00", f.publisher.events[0].Total)
}

func TestCheckoutEWalletHasNoChange(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(t, "Teh Tarik", "", "1.00", "2.50", 5)

	sale := f.sell(t, item, 2)

	assert.Equal(t, models.PaymentEWallet, sale.PaymentMethod)
	assert.Nil(t, sale.AmountReceived)
	assert.Nil(t, sale.Change)
	assert.True(t, dec("5").Equal(sale.Total))
	assert.True(t, dec("3").Equal(sale.Profit))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cart := f.carts.CreateCart(ctx)

	_, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "Cash", AmountReceived: decPtr("10")})
	assert.ErrorIs(t, err, ErrEmptyCart)

	sales, _, err := f.sales.ListSales(ctx, models.SaleFilters{})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Empty(t, f.publisher.events)
}

func TestCheckoutInsufficientPaymentChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Kuih", "", "0.50", "1.00", 10)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 4})
	require.NoError(t, err)

	_, err = f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "Cash", AmountReceived: decPtr("3.99")})
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	assert.Equal(t, 10, f.stockOf(t, item.ID))
	view, err := f.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity)

	sales, _, err := f.sales.ListSales(ctx, models.SaleFilters{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCheckoutExactCashGivesZeroChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Kuih", "", "0.50", "1.00", 10)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 4})
	require.NoError(t, err)

	sale, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "Tunai", AmountReceived: decPtr("4")})
	require.NoError(t, err)
	require.NotNil(t, sale.Change)
	assert.True(t, sale.Change.IsZero())
}

func TestCheckoutCashRequiresAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Kuih", "", "0.50", "1.00", 10)
	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID})
	require.NoError(t, err)

	_, err = f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "Cash"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutRevalidatesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Roti", "", "1.00", "2.00", 5)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 4})
	require.NoError(t, err)

	_, err = f.menu.UpdateStock(ctx, item.ID, StockUpdateRequest{Stock: intPtr(2)})
	require.NoError(t, err)

	_, err = f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "E-Wallet"})
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 2, f.stockOf(t, item.ID))

	view, err := f.carts.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
}

func TestCheckoutUsesCurrentPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Roti", "", "1.00", "2.00", 5)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = f.menu.UpdateMenuItem(ctx, item.ID, models.MenuItemInput{
		Name: "Roti", CostPrice: dec("1.00"), SellingPrice: dec("2.50"), Stock: 5,
	})
	require.NoError(t, err)

	sale, err := f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "E-Wallet"})
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(sale.Total))
	assert.True(t, dec("2.50").Equal(sale.Items[0].SellingPrice))
}

func TestCheckoutRejectsDeletedItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Roti", "", "1.00", "2.00", 5)

	cart := f.carts.CreateCart(ctx)
	_, err := f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID})
	require.NoError(t, err)
	require.NoError(t, f.menu.DeleteMenuItem(ctx, item.ID))

	_, err = f.carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "E-Wallet"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCartServiceSetQuantityWarns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Roti", "", "1.00", "2.00", 3)
	cart := f.carts.CreateCart(ctx)

	view, err := f.carts.SetQuantity(ctx, cart.ID, item.ID, 8)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	require.NotNil(t, view)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.NotEmpty(t, view.Warning)

	view, err = f.carts.SetQuantity(ctx, cart.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.carts.GetCart(ctx, "cart-missing")
	assert.ErrorIs(t, err, ErrCartNotFound)

	_, err = f.carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: "item-missing"})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)

	require.NoError(t, f.carts.DiscardCart(ctx, cart.ID))
	assert.ErrorIs(t, f.carts.DiscardCart(ctx, cart.ID), ErrCartNotFound)
}

// blockingPublisher holds PublishSale until release is closed.
type blockingPublisher struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPublisher) PublishSale(ctx context.Context, event SaleEvent) error {
	close(p.entered)
	<-p.release
	return nil
}

func TestCartServicePublishesOutsideCartLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.seedItem(t, "Nasi Lemak", "", "2.00", "5.00", 10)

	pub := &blockingPublisher{entered: make(chan struct{}), release: make(chan struct{})}
	engine := NewCheckoutEngine(f.store, f.menuRepo, f.salesRepo, f.movementRepo, pub, f.clock.Now)
	carts := NewCartService(f.store, f.menuRepo, engine, f.clock.Now)

	cart := carts.CreateCart(ctx)
	_, err := carts.AddItem(ctx, cart.ID, AddCartItemRequest{ItemID: item.ID, Quantity: 1})
	require.NoError(t, err)

	checkoutErr := make(chan error, 1)
	go func() {
		_, err := carts.Checkout(ctx, cart.ID, CheckoutRequest{PaymentMethod: "E-Wallet"})
		checkoutErr <- err
	}()
	<-pub.entered

	other := make(chan struct{})
	go func() {
		next := carts.CreateCart(ctx)
		_, _ = carts.AddItem(ctx, next.ID, AddCartItemRequest{ItemID: item.ID})
		close(other)
	}()

	select {
	case <-other:
	case <-time.After(2 * time.Second):
		t.Fatal("cart operations blocked while the sale event was being published")
	}

	close(pub.release)
	require.NoError(t, <-checkoutErr)
	assert.Equal(t, 9, f.stockOf(t, item.ID))
}
