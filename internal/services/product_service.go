package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/cache"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductService struct {
	productRepo   repositories.ProductRepository
	categoryRepo  repositories.ProductCategoryRepository
	cache         cache.Store
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
}

func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.ProductCategoryRepository,
	cache cache.Store,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
	}
}

type CreateProductRequest struct {
	Name          string                 `json:"name" binding:"required"`
	Slug          string                 `json:"slug" binding:"required"`
	Description   string                 `json:"description"`
	CategoryID    string                 `json:"category_id" binding:"required"`
	Price         float64                `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64               `json:"discount_price,omitempty"`
	ImageUrls     []string               `json:"image_urls"`
	Material      string                 `json:"material"`
	Dimensions    map[string]interface{} `json:"dimensions,omitempty"`
	Tags          []string               `json:"tags"`
}

type UpdateProductRequest struct {
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Price         *float64               `json:"price"`
	DiscountPrice *float64               `json:"discount_price"`
	ImageUrls     []string               `json:"image_urls"`
	Material      string                 `json:"material"`
	Dimensions    map[string]interface{} `json:"dimensions,omitempty"`
	Tags          []string               `json:"tags"`
	IsAvailable   *bool                  `json:"is_available"`
}

type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	categoryID, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return nil, errors.New("invalid category ID")
	}

	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, errors.New("category not found")
	}

	if req.DiscountPrice != nil && *req.DiscountPrice >= req.Price {
		return nil, errors.New("discount price must be below the list price")
	}

	product := &models.Product{
		CategoryID:    categoryID,
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		ImageUrls:     req.ImageUrls,
		IsAvailable:   true,
		Material:      req.Material,
		Dimensions:    req.Dimensions,
		Tags:          req.Tags,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	s.publishCatalogEvent("product.created", product.ID.Hex(), product.Slug)

	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, errors.New("invalid product ID")
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	return product, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, categorySlug string, page, limit int) (*ProductListResponse, error) {
	cacheKey := fmt.Sprintf("products:%s:%d:%d", categorySlug, page, limit)
	var cached ProductListResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var categoryID *primitive.ObjectID
	if categorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
		if err != nil {
			return nil, errors.New("category not found")
		}
		categoryID = &category.ID
	}

	offset := (page - 1) * limit
	products, total, err := s.productRepo.List(ctx, categoryID, offset, limit)
	if err != nil {
		return nil, err
	}

	response := &ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}

	s.cache.Set(ctx, cacheKey, response, time.Minute*5)

	return response, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string, page, limit int) (*ProductListResponse, error) {
	offset := (page - 1) * limit
	products, total, err := s.productRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ProductListResponse{
		Products:   products,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, productID string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.ImageUrls != nil {
		product.ImageUrls = req.ImageUrls
	}
	if req.Material != "" {
		product.Material = req.Material
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if product.DiscountPrice != nil && *product.DiscountPrice >= product.Price {
		return nil, errors.New("discount price must be below the list price")
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	s.publishCatalogEvent("product.updated", product.ID.Hex(), product.Slug)

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, productID string) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	s.publishCatalogEvent("product.deleted", product.ID.Hex(), product.Slug)

	return nil
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "products:*"); err != nil {
		log.Printf("Failed to invalidate product listing cache: %v", err)
	}
}

func (s *ProductService) publishCatalogEvent(eventType, entityID, slug string) {
	event := messaging.CatalogEvent{
		Type:     eventType,
		EntityID: entityID,
		Slug:     slug,
	}
	if err := s.kafkaProducer.SendMessage("catalog", s.kafkaBrokers, entityID, event); err != nil {
		log.Printf("Failed to publish catalog event %s for %s: %v", eventType, entityID, err)
	}
}
