package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categoryRepo repositories.ProductCategoryRepository
	productRepo  repositories.ProductRepository
	cache        cache.Store
}

func NewCategoryService(
	categoryRepo repositories.ProductCategoryRepository,
	productRepo repositories.ProductRepository,
	cache cache.Store,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	ImageUrl    string `json:"image_url"`
	ParentID    string `json:"parent_id"`
	SortOrder   int    `json:"sort_order"`
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.ProductCategory, error) {
	cacheKey := "categories:all"
	var cached []models.ProductCategory
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, categories, time.Minute*15)

	return categories, nil
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.ProductCategory, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.New("category not found")
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*models.ProductCategory, error) {
	category := &models.ProductCategory{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ImageUrl:    req.ImageUrl,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}

	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return nil, errors.New("invalid parent category ID")
		}
		if _, err := s.categoryRepo.GetByID(ctx, parentID); err != nil {
			return nil, errors.New("parent category not found")
		}
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return errors.New("invalid category ID")
	}

	// Refuse to delete a category that still has products.
	products, _, err := s.productRepo.List(ctx, &id, 0, 1)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return errors.New("category still has products")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, "categories:all"); err != nil {
		log.Printf("Failed to invalidate category cache: %v", err)
	}
}
