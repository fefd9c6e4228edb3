package handlers

import (
	"context"
	"net/http"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// RegisterRoutes registers the routes for product categories
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:slug", h.GetCategoryBySlug)
	}

	admin := router.Group("/admin/categories", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	{
		admin.POST("", h.CreateCategory)
		admin.DELETE("/:categoryId", h.DeleteCategory)
	}
}

// ListCategories godoc
// @Summary List categories
// @Description List all product categories for the catalog navigation
// @Tags categories
// @Accept json
// @Produce json
// @Success 200 {array} models.ProductCategory
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ctx := context.Background()

	categories, err := h.categoryService.ListCategories(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list categories",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategoryBySlug godoc
// @Summary Get category
// @Description Get a single category by its slug
// @Tags categories
// @Accept json
// @Produce json
// @Param slug path string true "Category slug"
// @Success 200 {object} models.ProductCategory
// @Failure 404 {object} ErrorResponse
// @Router /categories/{slug} [get]
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	ctx := context.Background()

	category, err := h.categoryService.GetCategoryBySlug(ctx, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Category not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Description Add a product category (admin only)
// @Tags categories
// @Accept json
// @Produce json
// @Param category body services.CreateCategoryRequest true "Category details"
// @Success 201 {object} models.ProductCategory
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	ctx := context.Background()

	category, err := h.categoryService.CreateCategory(ctx, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to create category",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Remove an empty category (admin only); refused while products reference it
// @Tags categories
// @Accept json
// @Produce json
// @Param categoryId path string true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/categories/{categoryId} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID := c.Param("categoryId")
	ctx := context.Background()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to delete category",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
