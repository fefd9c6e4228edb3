package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// CartView keeps a local mirror of the server-side cart and applies
// optimistic updates to it. After a successful quantity change the item
// and cart totals are recomputed locally from the already-known unit
// price instead of re-fetching; this assumes prices do not change
// mid-session. Failed mutations leave the prior state untouched.
//
// Every successful mutation that changes the item count updates the
// denormalized count and notifies subscribers. That is the view's only
// cross-component coupling and holds on all success paths.
type CartView struct {
	client *Client

	mu          sync.Mutex // held across state changes, never across network calls
	items       []CartItem
	totalPrice  float64
	itemCount   int
	loadErr     error
	loaded      bool
	subscribers map[int]func(itemCount int)
	nextSubID   int
}

func NewCartView(client *Client) *CartView {
	return &CartView{
		client:      client,
		subscribers: make(map[int]func(int)),
	}
}

// Load fetches the current cart. On failure the view enters an explicit
// error state, distinct from an empty cart, so callers can tell "no
// items" apart from "could not reach server".
func (cv *CartView) Load(ctx context.Context) error {
	cart, err := cv.client.GetCart(ctx)
	if err != nil {
		cv.mu.Lock()
		cv.loadErr = err
		cv.loaded = false
		cv.mu.Unlock()
		return err
	}

	cv.mu.Lock()
	cv.items = cart.Items
	cv.totalPrice = cart.TotalPrice
	cv.itemCount = cart.ItemCount
	cv.loadErr = nil
	cv.loaded = true
	subs, count := cv.snapshotSubscribers()
	cv.mu.Unlock()

	notify(subs, count)
	return nil
}

// UpdateQuantity sends the new quantity to the server and, on success,
// recomputes the affected line's total and the cart total locally from
// the known unit price. Quantities below 1 are rejected before any
// request is made.
func (cv *CartView) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	cv.mu.Lock()
	idx := cv.indexOf(productID)
	cv.mu.Unlock()
	if idx < 0 {
		return errors.New("item not in cart")
	}

	if _, err := cv.client.UpdateCartItem(ctx, productID, quantity); err != nil {
		return err
	}

	cv.mu.Lock()
	// Re-resolve: the line may have moved while the request was in flight.
	idx = cv.indexOf(productID)
	if idx < 0 {
		cv.mu.Unlock()
		return errors.New("item not in cart")
	}
	cv.items[idx].Quantity = quantity
	cv.items[idx].TotalPrice = cv.items[idx].PriceNew * float64(quantity)
	cv.recompute()
	subs, count := cv.snapshotSubscribers()
	cv.mu.Unlock()

	notify(subs, count)
	return nil
}

// DeleteItem removes a line after the server confirms the deletion.
func (cv *CartView) DeleteItem(ctx context.Context, productID string) error {
	cv.mu.Lock()
	idx := cv.indexOf(productID)
	cv.mu.Unlock()
	if idx < 0 {
		return errors.New("item not in cart")
	}

	if _, err := cv.client.DeleteCartItem(ctx, productID); err != nil {
		return err
	}

	cv.mu.Lock()
	idx = cv.indexOf(productID)
	if idx >= 0 {
		cv.items = append(cv.items[:idx], cv.items[idx+1:]...)
	}
	cv.recompute()
	subs, count := cv.snapshotSubscribers()
	cv.mu.Unlock()

	notify(subs, count)
	return nil
}

// Subscribe registers a callback invoked with the denormalized item
// count after every successful count-changing mutation. It returns an
// unsubscribe function.
func (cv *CartView) Subscribe(fn func(itemCount int)) func() {
	cv.mu.Lock()
	id := cv.nextSubID
	cv.nextSubID++
	cv.subscribers[id] = fn
	cv.mu.Unlock()

	return func() {
		cv.mu.Lock()
		delete(cv.subscribers, id)
		cv.mu.Unlock()
	}
}

// Items returns a copy of the current cart lines.
func (cv *CartView) Items() []CartItem {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	items := make([]CartItem, len(cv.items))
	copy(items, cv.items)
	return items
}

func (cv *CartView) TotalPrice() float64 {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.totalPrice
}

// ItemCount returns the denormalized item count (sum of quantities).
func (cv *CartView) ItemCount() int {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.itemCount
}

// Err reports the load error state. A nil error with zero items means
// the cart is genuinely empty.
func (cv *CartView) Err() error {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.loadErr
}

func (cv *CartView) indexOf(productID string) int {
	for i, item := range cv.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// recompute rebuilds the aggregate total and item count from the lines.
// Callers must hold the lock.
func (cv *CartView) recompute() {
	total := 0.0
	count := 0
	for _, item := range cv.items {
		total += item.TotalPrice
		count += item.Quantity
	}
	cv.totalPrice = total
	cv.itemCount = count
}

func (cv *CartView) snapshotSubscribers() ([]func(int), int) {
	subs := make([]func(int), 0, len(cv.subscribers))
	for _, fn := range cv.subscribers {
		subs = append(subs, fn)
	}
	return subs, cv.itemCount
}

func notify(subs []func(int), count int) {
	for _, fn := range subs {
		fn(count)
	}
}
