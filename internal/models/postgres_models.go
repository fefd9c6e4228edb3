package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, j)
}

// StringArray type for PostgreSQL arrays
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, s)
}

// User model - PostgreSQL (strict, consistent data)
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone            string     `json:"phone"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Role             string     `gorm:"default:customer" json:"role"` // customer, admin
	Status           string     `gorm:"default:active" json:"status"` // active, inactive, suspended
	DefaultAddressID *uuid.UUID `gorm:"type:uuid" json:"default_address_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Address model - PostgreSQL (user delivery addresses).
// At most one address per user may have IsDefault set; the set-default
// operation clears the flag on all others first.
type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Recipient   string    `json:"recipient"`
	Phone       string    `json:"phone"`
	AddressLine string    `gorm:"not null" json:"address_line"`
	Ward        string    `json:"ward"`
	District    string    `json:"district"`
	City        string    `gorm:"not null" json:"city"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress renders the address the way the storefront displays it.
func (a *Address) FullAddress() string {
	parts := a.AddressLine
	if a.Ward != "" {
		parts += ", " + a.Ward
	}
	if a.District != "" {
		parts += ", " + a.District
	}
	return parts + ", " + a.City
}

// Cart model - PostgreSQL (transactional data).
// Items are held in the JSONB column under the "items" key as an array
// of CartItem; prices are not stored on
// the cart, they are resolved from the catalog when the cart is read.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items      JSONB     `gorm:"type:jsonb" json:"items"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `gorm:"default:active" json:"status"` // active, ordered, abandoned
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Order model - PostgreSQL (critical transactional data)
type Order struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	User           User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CartID         uuid.UUID  `gorm:"type:uuid;not null" json:"cart_id"`
	Cart           Cart       `gorm:"foreignKey:CartID" json:"cart,omitempty"`
	AddressID      *uuid.UUID `gorm:"type:uuid" json:"address_id"`
	RecipientName  string     `gorm:"not null" json:"recipient_name"`
	RecipientEmail string     `gorm:"not null" json:"recipient_email"`
	RecipientPhone string     `gorm:"not null" json:"recipient_phone"`
	ShippingAddr   string     `json:"shipping_address"`
	PaymentMethod  string     `gorm:"not null" json:"payment_method"`    // cod, momo
	Status         string     `gorm:"default:pending" json:"status"`     // pending_payment, pending, confirmed, shipping, delivered, cancelled
	Subtotal       float64    `json:"subtotal"`
	ShippingFee    float64    `json:"shipping_fee"`
	TotalPrice     float64    `json:"total_price"`
	PaymentID      *uuid.UUID `gorm:"type:uuid" json:"payment_id"`
	Snapshot       JSONB      `gorm:"type:jsonb" json:"snapshot"` // priced line items at placement time
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Payment model - PostgreSQL (critical financial data)
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null" json:"order_id"`
	Order         Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	UserID        uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Method        string    `gorm:"not null" json:"method"`        // momo, cod
	Status        string    `gorm:"default:pending" json:"status"` // pending, success, failed, expired
	TransactionID string    `json:"transaction_id"`
	PayURL        string    `json:"pay_url,omitempty"`
	Metadata      JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ShippingFee model - PostgreSQL. One row per city; City "*" is the
// fallback used for cities with no explicit row. FreeShipOver of 0
// means no free-shipping threshold.
type ShippingFee struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	City         string    `gorm:"uniqueIndex;not null" json:"city"`
	Fee          float64   `gorm:"not null" json:"fee"`
	FreeShipOver float64   `gorm:"default:0" json:"free_ship_over"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
