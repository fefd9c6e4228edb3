package services

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"time"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the gorm/mongo repositories and the redis
// cache, so service logic can be exercised without live backends.

var errNotFound = errors.New("not found")

type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.data[key]
	if !ok {
		return errNotFound
	}
	return json.Unmarshal(data, dest)
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[uuid.UUID]*models.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uuid.UUID]*models.Cart)}
}

func (r *fakeCartRepo) Create(ctx context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	clone := *cart
	r.carts[cart.ID] = &clone
	return nil
}

func (r *fakeCartRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *cart
	return &clone, nil
}

func (r *fakeCartRepo) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cart := range r.carts {
		if cart.UserID == userID && cart.Status == "active" {
			clone := *cart
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeCartRepo) Update(ctx context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[cart.ID]; !ok {
		return errNotFound
	}
	clone := *cart
	r.carts[cart.ID] = &clone
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (r *fakeProductRepo) add(product *models.Product) primitive.ObjectID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = product
	return product.ID
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.add(product)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.Slug == slug {
			clone := *product
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errNotFound
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, categoryID *primitive.ObjectID, offset, limit int) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, product := range r.products {
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		out = append(out, *product)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Search(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	return r.List(ctx, nil, offset, limit)
}

func (r *fakeProductRepo) IncrementSoldCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	product.SoldCount += delta
	return nil
}

type fakeAddressRepo struct {
	mu        sync.Mutex
	addresses map[uuid.UUID]*models.Address
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{addresses: make(map[uuid.UUID]*models.Address)}
}

func (r *fakeAddressRepo) Create(ctx context.Context, address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	clone := *address
	r.addresses[address.ID] = &clone
	return nil
}

func (r *fakeAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	address, ok := r.addresses[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *address
	return &clone, nil
}

func (r *fakeAddressRepo) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Address
	// Default first, matching the SQL ordering.
	for _, address := range r.addresses {
		if address.UserID == userID && address.IsDefault {
			out = append(out, *address)
		}
	}
	for _, address := range r.addresses {
		if address.UserID == userID && !address.IsDefault {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (r *fakeAddressRepo) Update(ctx context.Context, address *models.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.addresses[address.ID]; !ok {
		return errNotFound
	}
	clone := *address
	r.addresses[address.ID] = &clone
	return nil
}

func (r *fakeAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.addresses, id)
	return nil
}

func (r *fakeAddressRepo) UnsetDefaultAddresses(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, address := range r.addresses {
		if address.UserID == userID {
			address.IsDefault = false
		}
	}
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return errNotFound
	}
	clone := *order
	r.orders[order.ID] = &clone
	return nil
}

func (r *fakeOrderRepo) GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) GetByStatus(ctx context.Context, status string, offset, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if status == "" || order.Status == status {
			out = append(out, *order)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) GetStalePendingPayment(ctx context.Context, olderThanMinutes int) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	var out []models.Order
	for _, order := range r.orders {
		if order.Status == "pending_payment" && order.CreatedAt.Before(cutoff) {
			out = append(out, *order)
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *payment
	return &clone, nil
}

func (r *fakePaymentRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.OrderID == orderID {
			clone := *payment
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; !ok {
		return errNotFound
	}
	clone := *payment
	r.payments[payment.ID] = &clone
	return nil
}

type fakeShippingRepo struct {
	mu   sync.Mutex
	fees map[uuid.UUID]*models.ShippingFee
}

func newFakeShippingRepo() *fakeShippingRepo {
	return &fakeShippingRepo{fees: make(map[uuid.UUID]*models.ShippingFee)}
}

func (r *fakeShippingRepo) Create(ctx context.Context, fee *models.ShippingFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fee.ID == uuid.Nil {
		fee.ID = uuid.New()
	}
	clone := *fee
	r.fees[fee.ID] = &clone
	return nil
}

func (r *fakeShippingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShippingFee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fee, ok := r.fees[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *fee
	return &clone, nil
}

func (r *fakeShippingRepo) GetByCity(ctx context.Context, city string) (*models.ShippingFee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fee := range r.fees {
		if fee.City == city && fee.IsActive {
			clone := *fee
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeShippingRepo) List(ctx context.Context) ([]models.ShippingFee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ShippingFee
	for _, fee := range r.fees {
		out = append(out, *fee)
	}
	return out, nil
}

func (r *fakeShippingRepo) Update(ctx context.Context, fee *models.ShippingFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fees[fee.ID]; !ok {
		return errNotFound
	}
	clone := *fee
	r.fees[fee.ID] = &clone
	return nil
}

func (r *fakeShippingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fees, id)
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, user := range r.users {
		out = append(out, *user)
	}
	return out, int64(len(out)), nil
}

// fakeGateway implements PaymentGateway.
type fakeGateway struct {
	payURL string
	err    error
	calls  int
}

func (g *fakeGateway) CreatePayment(ctx context.Context, order *models.Order) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.payURL, nil
}
