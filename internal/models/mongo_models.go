package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product model - MongoDB (flexible catalog data)
type Product struct {
	ID            primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	CategoryID    primitive.ObjectID     `bson:"category_id" json:"category_id"`
	Name          string                 `bson:"name" json:"name"`
	Slug          string                 `bson:"slug" json:"slug"`
	Description   string                 `bson:"description" json:"description"`
	Price         float64                `bson:"price" json:"price"`
	DiscountPrice *float64               `bson:"discount_price,omitempty" json:"discount_price"`
	ImageUrls     []string               `bson:"image_urls" json:"image_urls"`
	IsAvailable   bool                   `bson:"is_available" json:"is_available"`
	Material      string                 `bson:"material,omitempty" json:"material"`
	Dimensions    map[string]interface{} `bson:"dimensions,omitempty" json:"dimensions"` // width/depth/height in cm
	Tags          []string               `bson:"tags" json:"tags"`
	SoldCount     int                    `bson:"sold_count" json:"sold_count"`
	CreatedAt     time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `bson:"updated_at" json:"updated_at"`
}

// EffectivePrice is the unit price the storefront charges: the discount
// price when one is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

// ProductCategory model - MongoDB
type ProductCategory struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Slug        string              `bson:"slug" json:"slug"`
	Description string              `bson:"description" json:"description"`
	ImageUrl    string              `bson:"image_url,omitempty" json:"image_url"`
	ParentID    *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id"`
	SortOrder   int                 `bson:"sort_order" json:"sort_order"`
	IsActive    bool                `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// Article model - MongoDB (blog / interior design content)
type Article struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Summary    string             `bson:"summary" json:"summary"`
	Content    string             `bson:"content" json:"content"`
	CoverImage string             `bson:"cover_image,omitempty" json:"cover_image"`
	Author     string             `bson:"author" json:"author"`
	Tags       []string           `bson:"tags" json:"tags"`
	Published  bool               `bson:"published" json:"published"`
	ViewCount  int                `bson:"view_count" json:"view_count"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
