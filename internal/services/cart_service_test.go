package services

import (
	"context"
	"testing"

	"github.com/Cheesenoice/funiture-website-fullstack-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartEnv struct {
	userID  uuid.UUID
	cache   *fakeCache
	repo    *fakeCartRepo
	catalog *fakeProductRepo
	svc     *CartService
	tableID primitive.ObjectID
	chairID primitive.ObjectID
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()
	env := &cartEnv{
		userID:  uuid.New(),
		cache:   newFakeCache(),
		repo:    newFakeCartRepo(),
		catalog: newFakeProductRepo(),
	}
	env.tableID = env.catalog.add(&models.Product{
		Name: "Oak Table", Slug: "oak-table", Price: 100000, IsAvailable: true,
	})
	env.chairID = env.catalog.add(&models.Product{
		Name: "Fabric Chair", Slug: "fabric-chair", Price: 50000, IsAvailable: true,
	})
	env.svc = NewCartService(env.repo, env.catalog, env.cache)
	return env
}

func TestAddToCartTotals(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.tableID.Hex(), &AddToCartRequest{Quantity: 1})
	require.NoError(t, err)

	cart, err := env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 3})
	require.NoError(t, err)

	// 1×100,000 + 3×50,000
	assert.Equal(t, 250000.0, cart.TotalPrice)
	assert.Equal(t, 4, cart.ItemCount)

	sum := 0.0
	for _, item := range cart.Items {
		assert.Equal(t, item.PriceNew*float64(item.Quantity), item.TotalPrice)
		sum += item.TotalPrice
	}
	assert.Equal(t, cart.TotalPrice, sum)
}

func TestAddToCartMergesExistingLine(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 2})
	require.NoError(t, err)

	cart, err := env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 250000.0, cart.TotalPrice)
}

func TestAddToCartRejectsUnavailableProduct(t *testing.T) {
	env := newCartEnv(t)
	sofaID := env.catalog.add(&models.Product{
		Name: "Sofa", Slug: "sofa", Price: 900000, IsAvailable: false,
	})

	_, err := env.svc.AddToCart(context.Background(), env.userID.String(), sofaID.Hex(), &AddToCartRequest{Quantity: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestUpdateItemQuantity(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 3})
	require.NoError(t, err)

	cart, err := env.svc.UpdateItemQuantity(ctx, env.userID.String(), env.chairID.Hex(), &UpdateCartItemRequest{Quantity: 5})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 250000.0, cart.Items[0].TotalPrice)
	assert.Equal(t, 250000.0, cart.TotalPrice)
}

func TestUpdateItemQuantityUnknownLine(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 1})
	require.NoError(t, err)

	_, err = env.svc.UpdateItemQuantity(ctx, env.userID.String(), env.tableID.Hex(), &UpdateCartItemRequest{Quantity: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item not in cart")
}

func TestRemoveLastItemLeavesEmptyCart(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.tableID.Hex(), &AddToCartRequest{Quantity: 2})
	require.NoError(t, err)

	cart, err := env.svc.RemoveFromCart(ctx, env.userID.String(), env.tableID.Hex())
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalPrice)
	assert.Equal(t, 0, cart.ItemCount)
}

func TestCartMutationInvalidatesCaches(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.tableID.Hex(), &AddToCartRequest{Quantity: 1})
	require.NoError(t, err)

	// Prime both the cart cache and a quote cache.
	_, err = env.svc.GetCart(ctx, env.userID.String())
	require.NoError(t, err)
	cartKey := "cart:" + env.userID.String()
	quoteKey := "quote:" + env.userID.String() + ":some-address"
	require.NoError(t, env.cache.Set(ctx, quoteKey, "stale", 0))
	require.True(t, env.cache.has(cartKey))

	_, err = env.svc.UpdateItemQuantity(ctx, env.userID.String(), env.tableID.Hex(), &UpdateCartItemRequest{Quantity: 2})
	require.NoError(t, err)

	assert.False(t, env.cache.has(cartKey))
	assert.False(t, env.cache.has(quoteKey), "stale quotes must be dropped with the cart")
}

func TestGetCartServesFromCache(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.tableID.Hex(), &AddToCartRequest{Quantity: 1})
	require.NoError(t, err)

	first, err := env.svc.GetCart(ctx, env.userID.String())
	require.NoError(t, err)

	// Remove the product from the catalog; the cached response should
	// still be served untouched.
	require.NoError(t, env.catalog.Delete(ctx, env.tableID))

	second, err := env.svc.GetCart(ctx, env.userID.String())
	require.NoError(t, err)
	assert.Equal(t, first.TotalPrice, second.TotalPrice)
	assert.Len(t, second.Items, 1)
}

func TestPricedItemsDropsVanishedProducts(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	_, err := env.svc.AddToCart(ctx, env.userID.String(), env.tableID.Hex(), &AddToCartRequest{Quantity: 1})
	require.NoError(t, err)
	_, err = env.svc.AddToCart(ctx, env.userID.String(), env.chairID.Hex(), &AddToCartRequest{Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, env.catalog.Delete(ctx, env.tableID))

	cart, err := env.svc.ActiveCart(ctx, env.userID.String())
	require.NoError(t, err)
	items, subtotal, err := env.svc.PricedItems(ctx, cart)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, env.chairID.Hex(), items[0].ProductID)
	assert.Equal(t, 150000.0, subtotal)
}

func TestDiscountPriceIsEffectivePrice(t *testing.T) {
	env := newCartEnv(t)
	ctx := context.Background()

	discount := 80000.0
	deskID := env.catalog.add(&models.Product{
		Name: "Desk", Slug: "desk", Price: 120000, DiscountPrice: &discount, IsAvailable: true,
	})

	cart, err := env.svc.AddToCart(ctx, env.userID.String(), deskID.Hex(), &AddToCartRequest{Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 80000.0, cart.Items[0].PriceNew)
	assert.Equal(t, 160000.0, cart.TotalPrice)
}
