package handlers

import (
	"errors"
	"net/http"

	"kedai_pos_backend/internal/services"
	"kedai_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CartHandler serves the till: open carts and checkout.
type CartHandler struct {
	cartService services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cs services.CartService) *CartHandler {
	return &CartHandler{cartService: cs}
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	c.JSON(http.StatusCreated, h.cartService.CreateCart(c.Request.Context()))
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.Param("id")
	cart, err := h.cartService.GetCart(c.Request.Context(), cartID)
	if err != nil {
		utils.LogError(err, "GetCart: Error for ID "+cartID)
		respondServiceError(c, err, "Failed to fetch cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := c.Param("id")
	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "AddItem")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), cartID, req)
	if err != nil {
		utils.LogError(err, "AddItem: Error for cart "+cartID)
		respondServiceError(c, err, "Failed to add item to cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SetQuantity answers 200 with the clamped cart and a warning when stock ran short.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	cartID, itemID := c.Param("id"), c.Param("itemId")
	var req services.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "SetQuantity")
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), cartID, itemID, req.Quantity)
	if err != nil && !(errors.Is(err, services.ErrInsufficientStock) && cart != nil) {
		utils.LogError(err, "SetQuantity: Error for cart "+cartID)
		respondServiceError(c, err, "Failed to update cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID, itemID := c.Param("id"), c.Param("itemId")
	cart, err := h.cartService.RemoveItem(c.Request.Context(), cartID, itemID)
	if err != nil {
		utils.LogError(err, "RemoveItem: Error for cart "+cartID)
		respondServiceError(c, err, "Failed to update cart.")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) DiscardCart(c *gin.Context) {
	cartID := c.Param("id")
	if err := h.cartService.DiscardCart(c.Request.Context(), cartID); err != nil {
		utils.LogError(err, "DiscardCart: Error for cart "+cartID)
		respondServiceError(c, err, "Failed to discard cart.")
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout settles the cart and returns the recorded sale.
func (h *CartHandler) Checkout(c *gin.Context) {
	cartID := c.Param("id")
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Checkout")
		return
	}

	sale, err := h.cartService.Checkout(c.Request.Context(), cartID, req)
	if err != nil {
		utils.LogError(err, "Checkout: Error for cart "+cartID)
		respondServiceError(c, err, "Failed to complete checkout.")
		return
	}
	c.JSON(http.StatusCreated, sale)
}
