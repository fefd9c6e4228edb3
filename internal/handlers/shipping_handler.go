package handlers

import (
	"context"
	"net/http"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shippingService *services.ShippingService
}

func NewShippingHandler(shippingService *services.ShippingService) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
	}
}

// RegisterRoutes registers the routes for shipping fee administration
func (h *ShippingHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	admin := router.Group("/admin/shipping-fees", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	{
		admin.GET("", h.ListFees)
		admin.POST("", h.CreateFee)
		admin.PATCH("/:feeId", h.UpdateFee)
		admin.DELETE("/:feeId", h.DeleteFee)
	}
}

// ListFees godoc
// @Summary List shipping fees
// @Description List the per-city shipping fee table (admin only)
// @Tags shipping
// @Accept json
// @Produce json
// @Success 200 {array} models.ShippingFee
// @Failure 403 {object} ErrorResponse
// @Router /admin/shipping-fees [get]
func (h *ShippingHandler) ListFees(c *gin.Context) {
	ctx := context.Background()

	fees, err := h.shippingService.ListFees(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list shipping fees",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, fees)
}

// CreateFee godoc
// @Summary Create a shipping fee
// @Description Add a per-city shipping fee row; use city "*" for the fallback (admin only)
// @Tags shipping
// @Accept json
// @Produce json
// @Param fee body services.CreateShippingFeeRequest true "Fee details"
// @Success 201 {object} models.ShippingFee
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/shipping-fees [post]
func (h *ShippingHandler) CreateFee(c *gin.Context) {
	var req services.CreateShippingFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	ctx := context.Background()

	fee, err := h.shippingService.CreateFee(ctx, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to create shipping fee",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, fee)
}

// UpdateFee godoc
// @Summary Update a shipping fee
// @Description Update a shipping fee row (admin only)
// @Tags shipping
// @Accept json
// @Produce json
// @Param feeId path string true "Fee ID"
// @Param fee body services.UpdateShippingFeeRequest true "Fields to update"
// @Success 200 {object} models.ShippingFee
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/shipping-fees/{feeId} [patch]
func (h *ShippingHandler) UpdateFee(c *gin.Context) {
	var req services.UpdateShippingFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	feeID := c.Param("feeId")
	ctx := context.Background()

	fee, err := h.shippingService.UpdateFee(ctx, feeID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to update shipping fee",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, fee)
}

// DeleteFee godoc
// @Summary Delete a shipping fee
// @Description Remove a shipping fee row (admin only)
// @Tags shipping
// @Accept json
// @Produce json
// @Param feeId path string true "Fee ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/shipping-fees/{feeId} [delete]
func (h *ShippingHandler) DeleteFee(c *gin.Context) {
	feeID := c.Param("feeId")
	ctx := context.Background()

	if err := h.shippingService.DeleteFee(ctx, feeID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to delete shipping fee",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
