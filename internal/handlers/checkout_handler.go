package handlers

import (
	"context"
	"net/http"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	momoService     *services.MoMoService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService, momoService *services.MoMoService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		momoService:     momoService,
	}
}

// RegisterRoutes registers the routes for checkout and payment callbacks
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	checkout := router.Group("/checkout")
	{
		// Price the cart against a delivery address
		checkout.GET("/:addressId", authMiddleware.AuthRequired(), h.GetQuote)
		// Place the order
		checkout.POST("/order", authMiddleware.AuthRequired(), h.PlaceOrder)
		// MoMo IPN callback (signed, no auth)
		checkout.POST("/momo/ipn", h.MoMoIPN)
	}
}

// GetQuote godoc
// @Summary Quote checkout totals for an address
// @Description Price the user's cart for delivery to the given address: subtotal, shipping fee, total
// @Tags checkout
// @Accept json
// @Produce json
// @Param addressId path string true "Address ID"
// @Success 200 {object} services.CheckoutQuote
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /checkout/{addressId} [get]
func (h *CheckoutHandler) GetQuote(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "User ID not found",
		})
		return
	}

	uid := userID.(string)
	addressID := c.Param("addressId")
	ctx := context.Background()

	quote, err := h.checkoutService.Quote(ctx, uid, addressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to quote checkout",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// PlaceOrder godoc
// @Summary Place an order
// @Description Turn the active cart into an order; MoMo orders return a payment redirect URL
// @Tags checkout
// @Accept json
// @Produce json
// @Param order body services.PlaceOrderRequest true "Recipient, address and payment method"
// @Success 201 {object} services.PlaceOrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /checkout/order [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Unauthorized",
			Message: "User ID not found",
		})
		return
	}

	uid := userID.(string)
	ctx := context.Background()

	resp, err := h.checkoutService.PlaceOrder(ctx, uid, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to place order",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// MoMoIPN godoc
// @Summary MoMo payment notification
// @Description Signed server-to-server callback from MoMo settling a pending payment
// @Tags checkout
// @Accept json
// @Produce json
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Router /checkout/momo/ipn [post]
func (h *CheckoutHandler) MoMoIPN(c *gin.Context) {
	var payload services.IPNPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid IPN payload",
			Message: err.Error(),
		})
		return
	}

	ctx := context.Background()

	if err := h.momoService.HandleIPN(ctx, &payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to process IPN",
			Message: err.Error(),
		})
		return
	}

	// MoMo expects 204 when the notification is accepted.
	c.Status(http.StatusNoContent)
}
