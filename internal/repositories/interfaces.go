package repositories

import (
	"context"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository interface for PostgreSQL user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
}

// AddressRepository interface for PostgreSQL address operations
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	UnsetDefaultAddresses(ctx context.Context, userID uuid.UUID) error
}

// CartRepository interface for PostgreSQL cart operations
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Update(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository interface for PostgreSQL order operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error)
	GetByStatus(ctx context.Context, status string, offset, limit int) ([]models.Order, int64, error)
	GetStalePendingPayment(ctx context.Context, olderThanMinutes int) ([]models.Order, error)
}

// PaymentRepository interface for PostgreSQL payment operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
}

// ShippingFeeRepository interface for PostgreSQL shipping fee operations
type ShippingFeeRepository interface {
	Create(ctx context.Context, fee *models.ShippingFee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShippingFee, error)
	GetByCity(ctx context.Context, city string) (*models.ShippingFee, error)
	List(ctx context.Context) ([]models.ShippingFee, error)
	Update(ctx context.Context, fee *models.ShippingFee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository interface for MongoDB product operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, categoryID *primitive.ObjectID, offset, limit int) ([]models.Product, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error)
	IncrementSoldCount(ctx context.Context, id primitive.ObjectID, delta int) error
}

// ProductCategoryRepository interface for MongoDB category operations
type ProductCategoryRepository interface {
	Create(ctx context.Context, category *models.ProductCategory) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProductCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProductCategory, error)
	Update(ctx context.Context, category *models.ProductCategory) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.ProductCategory, error)
}

// ArticleRepository interface for MongoDB article operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, publishedOnly bool, offset, limit int) ([]models.Article, int64, error)
	IncrementViewCount(ctx context.Context, id primitive.ObjectID) error
}
