package handlers

import (
	"context"
	"net/http"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// RegisterRoutes registers the routes for address book management
func (h *AddressHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	addresses := router.Group("/addresses", authMiddleware.AuthRequired())
	{
		addresses.GET("", h.GetAddresses)
		addresses.POST("", h.CreateAddress)
		addresses.PATCH("/:addressId", h.UpdateAddress)
		addresses.DELETE("/:addressId", h.DeleteAddress)
		addresses.PATCH("/:addressId/default", h.SetDefaultAddress)
	}
}

// GetAddresses godoc
// @Summary List saved addresses
// @Description Return the user's saved addresses, default first
// @Tags addresses
// @Accept json
// @Produce json
// @Success 200 {array} services.AddressResponse
// @Failure 401 {object} ErrorResponse
// @Router /addresses [get]
func (h *AddressHandler) GetAddresses(c *gin.Context) {
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

	addresses, err := h.addressService.GetAddresses(ctx, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to get addresses",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, addresses)
}

// CreateAddress godoc
// @Summary Add an address
// @Description Save a new delivery address; the first address becomes the default
// @Tags addresses
// @Accept json
// @Produce json
// @Param address body services.CreateAddressRequest true "Address details"
// @Success 201 {object} services.AddressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /addresses [post]
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req services.CreateAddressRequest
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

	address, err := h.addressService.CreateAddress(ctx, uid, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to create address",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, address)
}

// UpdateAddress godoc
// @Summary Update an address
// @Description Update fields of a saved address
// @Tags addresses
// @Accept json
// @Produce json
// @Param addressId path string true "Address ID"
// @Param address body services.UpdateAddressRequest true "Fields to update"
// @Success 200 {object} services.AddressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /addresses/{addressId} [patch]
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var req services.UpdateAddressRequest
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
	addressID := c.Param("addressId")
	ctx := context.Background()

	address, err := h.addressService.UpdateAddress(ctx, uid, addressID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to update address",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, address)
}

// DeleteAddress godoc
// @Summary Delete an address
// @Description Remove a saved address from the address book
// @Tags addresses
// @Accept json
// @Produce json
// @Param addressId path string true "Address ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /addresses/{addressId} [delete]
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
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

	if err := h.addressService.DeleteAddress(ctx, uid, addressID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to delete address",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// SetDefaultAddress godoc
// @Summary Set default address
// @Description Mark an address as the default for checkout
// @Tags addresses
// @Accept json
// @Produce json
// @Param addressId path string true "Address ID"
// @Success 200 {object} services.AddressResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /addresses/{addressId}/default [patch]
func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
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

	address, err := h.addressService.SetDefaultAddress(ctx, uid, addressID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to set default address",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, address)
}
