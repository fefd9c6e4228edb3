package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/repositories"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/cache"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	cache       cache.Store
}

func NewCartService(
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	cache cache.Store,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cache:       cache,
	}
}

type AddToCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity"`
	PriceNew   float64 `json:"priceNew"`
	TotalPrice float64 `json:"totalPrice"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalPrice float64            `json:"totalPrice"`
	ItemCount  int                `json:"itemCount"`
}

// GetCart returns the user's active cart priced against the current
// catalog. An empty cart is a valid response with zero items, not an
// error.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartResponse, error) {
	cacheKey := "cart:" + userID
	var cached CartResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	cart, err := s.getOrCreateCart(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	response, err := s.buildCartResponse(ctx, cart)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, response, time.Minute*10)

	return response, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID string, req *AddToCartRequest) (*CartResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	productObjectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, errors.New("invalid product ID")
	}

	product, err := s.productRepo.GetByID(ctx, productObjectID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	if !product.IsAvailable {
		return nil, errors.New("product is not available")
	}

	cart, err := s.getOrCreateCart(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	items := cartItems(cart)
	found := false
	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{ProductID: productID, Quantity: req.Quantity})
	}

	return s.saveCartItems(ctx, userID, cart, items)
}

// UpdateItemQuantity replaces the quantity of an existing cart line.
// Quantities below 1 are rejected at binding; removing a line goes
// through RemoveFromCart.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, req *UpdateCartItemRequest) (*CartResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	cart, err := s.cartRepo.GetActiveByUserID(ctx, userUUID)
	if err != nil {
		return nil, errors.New("cart not found")
	}

	items := cartItems(cart)
	found := false
	for i, item := range items {
		if item.ProductID == productID {
			items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		return nil, errors.New("item not in cart")
	}

	return s.saveCartItems(ctx, userID, cart, items)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) (*CartResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	cart, err := s.cartRepo.GetActiveByUserID(ctx, userUUID)
	if err != nil {
		return nil, errors.New("cart not found")
	}

	items := cartItems(cart)
	found := false
	for i, item := range items {
		if item.ProductID == productID {
			items = append(items[:i], items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, errors.New("item not in cart")
	}

	return s.saveCartItems(ctx, userID, cart, items)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return errors.New("invalid user ID")
	}

	cart, err := s.cartRepo.GetActiveByUserID(ctx, userUUID)
	if err != nil {
		return errors.New("cart not found")
	}

	cart.Items = itemsToJSONB(nil)
	cart.TotalPrice = 0
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return err
	}

	s.clearCartCache(userID)

	return nil
}

// ActiveCart exposes the raw cart row for checkout to snapshot and
// retire once an order is placed.
func (s *CartService) ActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}
	return s.cartRepo.GetActiveByUserID(ctx, userUUID)
}

// PricedItems resolves the cart's lines against the catalog. Lines whose
// product has been removed from the catalog are dropped rather than
// failing the whole cart.
func (s *CartService) PricedItems(ctx context.Context, cart *models.Cart) ([]CartItemResponse, float64, error) {
	var itemResponses []CartItemResponse
	var total float64

	for _, item := range cartItems(cart) {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue
		}

		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			continue
		}

		unit := product.EffectivePrice()
		image := ""
		if len(product.ImageUrls) > 0 {
			image = product.ImageUrls[0]
		}

		itemResponses = append(itemResponses, CartItemResponse{
			ProductID:  item.ProductID,
			Name:       product.Name,
			Image:      image,
			Quantity:   item.Quantity,
			PriceNew:   unit,
			TotalPrice: unit * float64(item.Quantity),
		})
		total += unit * float64(item.Quantity)
	}

	return itemResponses, total, nil
}

// RetireCart marks a cart as ordered so the next GetCart starts fresh.
func (s *CartService) RetireCart(ctx context.Context, userID string, cart *models.Cart) error {
	cart.Status = "ordered"
	cart.UpdatedAt = time.Now()
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return err
	}
	s.clearCartCache(userID)
	return nil
}

func (s *CartService) getOrCreateCart(ctx context.Context, userUUID uuid.UUID) (*models.Cart, error) {
	cart, err := s.cartRepo.GetActiveByUserID(ctx, userUUID)
	if err == nil {
		return cart, nil
	}

	cart = &models.Cart{
		UserID:     userUUID,
		Items:      itemsToJSONB(nil),
		TotalPrice: 0,
		Status:     "active",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *CartService) saveCartItems(ctx context.Context, userID string, cart *models.Cart, items []models.CartItem) (*CartResponse, error) {
	cart.Items = itemsToJSONB(items)
	cart.UpdatedAt = time.Now()

	response, err := s.buildCartResponse(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.TotalPrice = response.TotalPrice

	if err := s.cartRepo.Update(ctx, cart); err != nil {
		return nil, err
	}

	s.clearCartCache(userID)

	return response, nil
}

func (s *CartService) buildCartResponse(ctx context.Context, cart *models.Cart) (*CartResponse, error) {
	items, total, err := s.PricedItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return &CartResponse{
		Items:      items,
		TotalPrice: total,
		ItemCount:  count,
	}, nil
}

func (s *CartService) clearCartCache(userID string) {
	ctx := context.Background()
	s.cache.Delete(ctx, "cart:"+userID)
	s.cache.DeletePattern(ctx, "quote:"+userID+":*")
}

// cartItems decodes the JSONB payload back into typed lines.
func cartItems(cart *models.Cart) []models.CartItem {
	if cart.Items == nil {
		return nil
	}
	raw, ok := cart.Items["items"]
	if !ok {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func itemsToJSONB(items []models.CartItem) models.JSONB {
	if items == nil {
		items = []models.CartItem{}
	}
	return models.JSONB{"items": items}
}
