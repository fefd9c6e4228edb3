package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/middleware"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService *services.ArticleService
}

func NewArticleHandler(articleService *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
	}
}

// RegisterRoutes registers the routes for blog articles
func (h *ArticleHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	articles := router.Group("/articles")
	{
		articles.GET("", h.ListArticles)
		articles.GET("/:slug", h.GetArticleBySlug)
	}

	admin := router.Group("/admin/articles", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	{
		admin.POST("", h.CreateArticle)
		admin.PATCH("/:articleId", h.UpdateArticle)
		admin.DELETE("/:articleId", h.DeleteArticle)
	}
}

// ListArticles godoc
// @Summary List published articles
// @Description Paginated list of published blog articles, newest first
// @Tags articles
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} services.ArticleListResponse
// @Router /articles [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	ctx := context.Background()

	articles, err := h.articleService.ListArticles(ctx, true, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to list articles",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetArticleBySlug godoc
// @Summary Get an article
// @Description Get a single article by its slug; increments the view counter
// @Tags articles
// @Accept json
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} models.Article
// @Failure 404 {object} ErrorResponse
// @Router /articles/{slug} [get]
func (h *ArticleHandler) GetArticleBySlug(c *gin.Context) {
	slug := c.Param("slug")
	ctx := context.Background()

	article, err := h.articleService.GetArticleBySlug(ctx, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Article not found",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, article)
}

// CreateArticle godoc
// @Summary Create an article
// @Description Add a blog article (admin only)
// @Tags articles
// @Accept json
// @Produce json
// @Param article body services.CreateArticleRequest true "Article details"
// @Success 201 {object} models.Article
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req services.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	ctx := context.Background()

	article, err := h.articleService.CreateArticle(ctx, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to create article",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, article)
}

// UpdateArticle godoc
// @Summary Update an article
// @Description Update article fields or publish state (admin only)
// @Tags articles
// @Accept json
// @Produce json
// @Param articleId path string true "Article ID"
// @Param article body services.UpdateArticleRequest true "Fields to update"
// @Success 200 {object} models.Article
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/articles/{articleId} [patch]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req services.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	articleID := c.Param("articleId")
	ctx := context.Background()

	article, err := h.articleService.UpdateArticle(ctx, articleID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to update article",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, article)
}

// DeleteArticle godoc
// @Summary Delete an article
// @Description Remove a blog article (admin only)
// @Tags articles
// @Accept json
// @Produce json
// @Param articleId path string true "Article ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/articles/{articleId} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	articleID := c.Param("articleId")
	ctx := context.Background()

	if err := h.articleService.DeleteArticle(ctx, articleID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Failed to delete article",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
