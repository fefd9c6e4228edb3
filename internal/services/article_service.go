package services

import (
	"context"
	"errors"
	"log"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ArticleService struct {
	articleRepo   repositories.ArticleRepository
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
) *ArticleService {
	return &ArticleService{
		articleRepo:   articleRepo,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
	}
}

type CreateArticleRequest struct {
	Title      string   `json:"title" binding:"required"`
	Slug       string   `json:"slug" binding:"required"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content" binding:"required"`
	CoverImage string   `json:"cover_image"`
	Author     string   `json:"author"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

type UpdateArticleRequest struct {
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Published  *bool    `json:"published"`
}

type ArticleListResponse struct {
	Articles   []models.Article `json:"articles"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

func (s *ArticleService) ListArticles(ctx context.Context, publishedOnly bool, page, limit int) (*ArticleListResponse, error) {
	offset := (page - 1) * limit

	articles, total, err := s.articleRepo.List(ctx, publishedOnly, offset, limit)
	if err != nil {
		return nil, err
	}

	return &ArticleListResponse{
		Articles:   articles,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetArticleBySlug also counts the view; the counter is best effort.
func (s *ArticleService) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.New("article not found")
	}

	if err := s.articleRepo.IncrementViewCount(ctx, article.ID); err != nil {
		log.Printf("Failed to count view for article %s: %v", article.ID.Hex(), err)
	}

	return article, nil
}

func (s *ArticleService) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*models.Article, error) {
	article := &models.Article{
		Title:      req.Title,
		Slug:       req.Slug,
		Summary:    req.Summary,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Author:     req.Author,
		Tags:       req.Tags,
		Published:  req.Published,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	if article.Published {
		s.publishEvent("article.published", article)
	}

	return article, nil
}

func (s *ArticleService) UpdateArticle(ctx context.Context, articleID string, req *UpdateArticleRequest) (*models.Article, error) {
	id, err := primitive.ObjectIDFromHex(articleID)
	if err != nil {
		return nil, errors.New("invalid article ID")
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("article not found")
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Summary != "" {
		article.Summary = req.Summary
	}
	if req.Content != "" {
		article.Content = req.Content
	}
	if req.CoverImage != "" {
		article.CoverImage = req.CoverImage
	}
	if req.Tags != nil {
		article.Tags = req.Tags
	}

	wasPublished := article.Published
	if req.Published != nil {
		article.Published = *req.Published
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	if !wasPublished && article.Published {
		s.publishEvent("article.published", article)
	}

	return article, nil
}

func (s *ArticleService) DeleteArticle(ctx context.Context, articleID string) error {
	id, err := primitive.ObjectIDFromHex(articleID)
	if err != nil {
		return errors.New("invalid article ID")
	}

	return s.articleRepo.Delete(ctx, id)
}

func (s *ArticleService) publishEvent(eventType string, article *models.Article) {
	event := messaging.CatalogEvent{
		Type:     eventType,
		EntityID: article.ID.Hex(),
		Slug:     article.Slug,
	}
	if err := s.kafkaProducer.SendMessage("catalog", s.kafkaBrokers, article.ID.Hex(), event); err != nil {
		log.Printf("Failed to publish article event for %s: %v", article.ID.Hex(), err)
	}
}
