package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/cache"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentGateway creates a redirect-based payment for an order and
// returns the URL the buyer is sent to.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, order *models.Order) (payURL string, err error)
}

type CheckoutService struct {
	cartService   *CartService
	shippingSvc   *ShippingService
	addressRepo   repositories.AddressRepository
	orderRepo     repositories.OrderRepository
	paymentRepo   repositories.PaymentRepository
	productRepo   repositories.ProductRepository
	gateway       PaymentGateway
	cache         cache.Store
	kafkaProducer *messaging.KafkaProducer
	kafkaBrokers  []string
}

func NewCheckoutService(
	cartService *CartService,
	shippingSvc *ShippingService,
	addressRepo repositories.AddressRepository,
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentRepository,
	productRepo repositories.ProductRepository,
	gateway PaymentGateway,
	cache cache.Store,
	kafkaProducer *messaging.KafkaProducer,
	kafkaBrokers []string,
) *CheckoutService {
	return &CheckoutService{
		cartService:   cartService,
		shippingSvc:   shippingSvc,
		addressRepo:   addressRepo,
		orderRepo:     orderRepo,
		paymentRepo:   paymentRepo,
		productRepo:   productRepo,
		gateway:       gateway,
		cache:         cache,
		kafkaProducer: kafkaProducer,
		kafkaBrokers:  kafkaBrokers,
	}
}

const (
	PaymentMethodCOD  = "cod"
	PaymentMethodMoMo = "momo"
)

type CheckoutQuote struct {
	Items       []CartItemResponse `json:"items"`
	Subtotal    float64            `json:"subtotal"`
	ShippingFee float64            `json:"shippingFee"`
	TotalPrice  float64            `json:"totalPrice"`
	AddressID   string             `json:"address_id"`
}

type PlaceOrderRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	AddressID     string `json:"addressId" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required,oneof=cod momo"`
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	PayURL  string `json:"payUrl,omitempty"`
	Message string `json:"message,omitempty"`
}

// Quote prices the user's current cart against a delivery address:
// subtotal from catalog prices, shipping fee from the fee table for the
// address's city. Quotes are cached per user and address with a short
// TTL so repeated address switches stay cheap.
func (s *CheckoutService) Quote(ctx context.Context, userID, addressID string) (*CheckoutQuote, error) {
	cacheKey := "quote:" + userID + ":" + addressID
	var cached CheckoutQuote
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	address, err := s.userAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartService.ActiveCart(ctx, userID)
	if err != nil {
		return nil, errors.New("cart not found")
	}

	items, subtotal, err := s.cartService.PricedItems(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	fee, err := s.shippingSvc.FeeFor(ctx, address.City, subtotal)
	if err != nil {
		return nil, err
	}

	quote := &CheckoutQuote{
		Items:       items,
		Subtotal:    subtotal,
		ShippingFee: fee,
		TotalPrice:  subtotal + fee,
		AddressID:   addressID,
	}

	s.cache.Set(ctx, cacheKey, quote, time.Minute*2)

	return quote, nil
}

// PlaceOrder turns the active cart into an order. COD orders are
// accepted immediately; MoMo orders are created in pending_payment and
// the caller is handed the gateway redirect URL. There is no automatic
// retry on gateway failure: a failed placement leaves no dangling
// payment and the client may resubmit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	address, err := s.userAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartService.ActiveCart(ctx, userID)
	if err != nil {
		return nil, errors.New("cart not found")
	}

	items, subtotal, err := s.cartService.PricedItems(ctx, cart)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	fee, err := s.shippingSvc.FeeFor(ctx, address.City, subtotal)
	if err != nil {
		return nil, err
	}

	status := "pending"
	if req.PaymentMethod == PaymentMethodMoMo {
		status = "pending_payment"
	}

	order := &models.Order{
		UserID:         userUUID,
		CartID:         cart.ID,
		AddressID:      &address.ID,
		RecipientName:  req.Name,
		RecipientEmail: req.Email,
		RecipientPhone: req.Phone,
		ShippingAddr:   address.FullAddress(),
		PaymentMethod:  req.PaymentMethod,
		Status:         status,
		Subtotal:       subtotal,
		ShippingFee:    fee,
		TotalPrice:     subtotal + fee,
		Snapshot:       models.JSONB{"items": items},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		OrderID:   order.ID,
		UserID:    userUUID,
		Amount:    order.TotalPrice,
		Method:    req.PaymentMethod,
		Status:    "pending",
		Metadata:  models.JSONB{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	var payURL string
	if req.PaymentMethod == PaymentMethodMoMo {
		payURL, err = s.gateway.CreatePayment(ctx, order)
		if err != nil {
			// No payment row was written; cancel the order so it does
			// not linger half-placed.
			order.Status = "cancelled"
			if cancelErr := s.orderRepo.Update(ctx, order); cancelErr != nil {
				log.Printf("Failed to cancel order %s after gateway failure: %v", order.ID, cancelErr)
			}
			return nil, err
		}
		payment.PayURL = payURL
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	order.PaymentID = &payment.ID
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cartService.RetireCart(ctx, userID, cart); err != nil {
		return nil, err
	}

	s.recordSales(ctx, items)

	event := messaging.OrderEvent{
		Type:          "order.created",
		OrderID:       order.ID.String(),
		UserID:        userID,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.kafkaProducer.SendMessage("orders", s.kafkaBrokers, order.ID.String(), event); err != nil {
		log.Printf("Failed to publish order event for %s: %v", order.ID, err)
	}

	return &PlaceOrderResponse{
		Success: true,
		OrderID: order.ID.String(),
		PayURL:  payURL,
	}, nil
}

func (s *CheckoutService) userAddress(ctx context.Context, userID, addressID string) (*models.Address, error) {
	addressUUID, err := uuid.Parse(addressID)
	if err != nil {
		return nil, errors.New("invalid address ID")
	}

	address, err := s.addressRepo.GetByID(ctx, addressUUID)
	if err != nil {
		return nil, errors.New("address not found")
	}
	if address.UserID.String() != userID {
		return nil, errors.New("address does not belong to user")
	}

	return address, nil
}

func (s *CheckoutService) recordSales(ctx context.Context, items []CartItemResponse) {
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue
		}
		if err := s.productRepo.IncrementSoldCount(ctx, id, item.Quantity); err != nil {
			log.Printf("Failed to record sale for product %s: %v", item.ProductID, err)
		}
	}
}
