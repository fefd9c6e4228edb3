package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"
	"github.com/Cheesenoice/funiture-website-fullstack-sub000/pkg/messaging"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type checkoutEnv struct {
	userID      uuid.UUID
	addressID   uuid.UUID
	cache       *fakeCache
	cartRepo    *fakeCartRepo
	productRepo *fakeProductRepo
	addressRepo *fakeAddressRepo
	orderRepo   *fakeOrderRepo
	paymentRepo *fakePaymentRepo
	gateway     *fakeGateway
	cartSvc     *CartService
	checkout    *CheckoutService
	tableID     primitive.ObjectID
	chairID     primitive.ObjectID
}

func testKafka() (*messaging.KafkaProducer, []string) {
	return messaging.NewKafkaProducer(nil), []string{"127.0.0.1:1"}
}

// newCheckoutEnv seeds a user with one Hanoi address and a cart holding
// one table (1 × 100,000) and three chairs (3 × 50,000).
func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	env := &checkoutEnv{
		userID:      uuid.New(),
		cache:       newFakeCache(),
		cartRepo:    newFakeCartRepo(),
		productRepo: newFakeProductRepo(),
		addressRepo: newFakeAddressRepo(),
		orderRepo:   newFakeOrderRepo(),
		paymentRepo: newFakePaymentRepo(),
		gateway:     &fakeGateway{payURL: "https://pay.example.com/abc"},
	}

	env.tableID = env.productRepo.add(&models.Product{
		Name: "Oak Table", Slug: "oak-table", Price: 100000, IsAvailable: true,
	})
	env.chairID = env.productRepo.add(&models.Product{
		Name: "Fabric Chair", Slug: "fabric-chair", Price: 50000, IsAvailable: true,
	})

	address := &models.Address{
		UserID:      env.userID,
		AddressLine: "1 Elm St",
		City:        "Hanoi",
		IsDefault:   true,
	}
	require.NoError(t, env.addressRepo.Create(context.Background(), address))
	env.addressID = address.ID

	cart := &models.Cart{
		UserID: env.userID,
		Items: itemsToJSONB([]models.CartItem{
			{ProductID: env.tableID.Hex(), Quantity: 1},
			{ProductID: env.chairID.Hex(), Quantity: 3},
		}),
		Status: "active",
	}
	require.NoError(t, env.cartRepo.Create(context.Background(), cart))

	shippingRepo := newFakeShippingRepo()
	require.NoError(t, shippingRepo.Create(context.Background(), &models.ShippingFee{
		City: "Hanoi", Fee: 20000, IsActive: true,
	}))
	require.NoError(t, shippingRepo.Create(context.Background(), &models.ShippingFee{
		City: FallbackCity, Fee: 35000, IsActive: true,
	}))

	producer, brokers := testKafka()
	env.cartSvc = NewCartService(env.cartRepo, env.productRepo, env.cache)
	env.checkout = NewCheckoutService(
		env.cartSvc,
		NewShippingService(shippingRepo),
		env.addressRepo,
		env.orderRepo,
		env.paymentRepo,
		env.productRepo,
		env.gateway,
		env.cache,
		producer,
		brokers,
	)
	return env
}

func TestQuoteTotalsAreServerDerived(t *testing.T) {
	env := newCheckoutEnv(t)

	quote, err := env.checkout.Quote(context.Background(), env.userID.String(), env.addressID.String())
	require.NoError(t, err)

	// 1×100,000 + 3×50,000 plus the Hanoi fee.
	assert.Equal(t, 250000.0, quote.Subtotal)
	assert.Equal(t, 20000.0, quote.ShippingFee)
	assert.Equal(t, quote.Subtotal+quote.ShippingFee, quote.TotalPrice)
	assert.Len(t, quote.Items, 2)
}

func TestQuoteIsCachedPerUserAndAddress(t *testing.T) {
	env := newCheckoutEnv(t)

	_, err := env.checkout.Quote(context.Background(), env.userID.String(), env.addressID.String())
	require.NoError(t, err)

	key := "quote:" + env.userID.String() + ":" + env.addressID.String()
	assert.True(t, env.cache.has(key))

	// Second quote is served from the cache even with the product gone.
	require.NoError(t, env.productRepo.Delete(context.Background(), env.tableID))
	quote, err := env.checkout.Quote(context.Background(), env.userID.String(), env.addressID.String())
	require.NoError(t, err)
	assert.Equal(t, 250000.0, quote.Subtotal)
}

func TestQuoteRejectsEmptyCart(t *testing.T) {
	env := newCheckoutEnv(t)
	require.NoError(t, env.cartSvc.ClearCart(context.Background(), env.userID.String()))

	_, err := env.checkout.Quote(context.Background(), env.userID.String(), env.addressID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestQuoteRejectsForeignAddress(t *testing.T) {
	env := newCheckoutEnv(t)

	other := &models.Address{UserID: uuid.New(), AddressLine: "9 Oak St", City: "Hue"}
	require.NoError(t, env.addressRepo.Create(context.Background(), other))

	_, err := env.checkout.Quote(context.Background(), env.userID.String(), other.ID.String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestPlaceOrderCOD(t *testing.T) {
	env := newCheckoutEnv(t)

	resp, err := env.checkout.PlaceOrder(context.Background(), env.userID.String(), &PlaceOrderRequest{
		Name:          "Binh",
		Email:         "binh@example.com",
		Phone:         "0900000000",
		AddressID:     env.addressID.String(),
		PaymentMethod: PaymentMethodCOD,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.PayURL)

	order, err := env.orderRepo.GetByID(context.Background(), uuid.MustParse(resp.OrderID))
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 270000.0, order.TotalPrice)
	assert.Equal(t, 0, env.gateway.calls, "COD never touches the gateway")

	// The cart is retired; the next read starts a fresh one.
	cart, err := env.cartSvc.GetCart(context.Background(), env.userID.String())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestPlaceOrderMoMoReturnsPayURL(t *testing.T) {
	env := newCheckoutEnv(t)

	resp, err := env.checkout.PlaceOrder(context.Background(), env.userID.String(), &PlaceOrderRequest{
		Name:          "Binh",
		Email:         "binh@example.com",
		Phone:         "0900000000",
		AddressID:     env.addressID.String(),
		PaymentMethod: PaymentMethodMoMo,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/abc", resp.PayURL)

	order, err := env.orderRepo.GetByID(context.Background(), uuid.MustParse(resp.OrderID))
	require.NoError(t, err)
	assert.Equal(t, "pending_payment", order.Status)

	payment, err := env.paymentRepo.GetByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", payment.Status)
	assert.Equal(t, resp.PayURL, payment.PayURL)
}

func TestPlaceOrderGatewayFailureCancelsOrder(t *testing.T) {
	env := newCheckoutEnv(t)
	env.gateway.err = errors.New("gateway down")

	_, err := env.checkout.PlaceOrder(context.Background(), env.userID.String(), &PlaceOrderRequest{
		Name:          "Binh",
		Email:         "binh@example.com",
		Phone:         "0900000000",
		AddressID:     env.addressID.String(),
		PaymentMethod: PaymentMethodMoMo,
	})
	require.Error(t, err)

	// The order is parked as cancelled and the cart survives for a
	// resubmission.
	orders, _, err := env.orderRepo.GetByStatus(context.Background(), "cancelled", 0, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	cart, err := env.cartSvc.ActiveCart(context.Background(), env.userID.String())
	require.NoError(t, err)
	assert.Equal(t, "active", cart.Status)
}

func TestPlaceOrderRecordsSales(t *testing.T) {
	env := newCheckoutEnv(t)

	_, err := env.checkout.PlaceOrder(context.Background(), env.userID.String(), &PlaceOrderRequest{
		Name:          "Binh",
		Email:         "binh@example.com",
		Phone:         "0900000000",
		AddressID:     env.addressID.String(),
		PaymentMethod: PaymentMethodCOD,
	})
	require.NoError(t, err)

	table, err := env.productRepo.GetByID(context.Background(), env.tableID)
	require.NoError(t, err)
	assert.Equal(t, 1, table.SoldCount)

	chair, err := env.productRepo.GetByID(context.Background(), env.chairID)
	require.NoError(t, err)
	assert.Equal(t, 3, chair.SoldCount)
}
