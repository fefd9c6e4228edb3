package client

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Submission states for a checkout session.
type SubmitState string

const (
	StateIdle        SubmitState = "idle"
	StateSubmitting  SubmitState = "submitting"
	StateRedirecting SubmitState = "redirecting-to-payment"
	StateConfirmed   SubmitState = "confirmed"
	StateFailed      SubmitState = "failed"
)

// Payment methods accepted by the order endpoint.
const (
	PaymentCOD  = "cod"
	PaymentMoMo = "momo"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoAddress        = errors.New("no delivery address selected")
	ErrMissingRecipient = errors.New("recipient name, email and phone are required")
	ErrSubmitInFlight   = errors.New("an order submission is already in flight")
	ErrSessionClosed    = errors.New("checkout session is closed")
)

// CheckoutSession drives the checkout page: it loads the user's
// addresses, keeps a per-address cache of server-computed quotes so
// switching between saved addresses is instant, and runs the order
// submission state machine.
//
// Quote prefetching is best-effort: individual prefetch failures are
// tolerated silently and the affected address falls back to a live
// fetch on selection. A quote cached early in the session is not
// reconciled if the fee table changes mid-session.
type CheckoutSession struct {
	client *Client

	mu        sync.Mutex
	addresses []Address
	selected  *Address
	quote     *CheckoutQuote
	cache     map[string]*CheckoutQuote
	state     SubmitState
	closed    bool
}

func NewCheckoutSession(client *Client) *CheckoutSession {
	return &CheckoutSession{
		client: client,
		cache:  make(map[string]*CheckoutQuote),
		state:  StateIdle,
	}
}

// Start loads the user profile, selects the default (or first) address
// and fetches its quote synchronously. Quotes for the remaining
// addresses are then prefetched concurrently; each prefetch outcome is
// merged into the cache independently and failures are dropped.
func (cs *CheckoutSession) Start(ctx context.Context) error {
	profile, err := cs.client.GetProfile(ctx)
	if err != nil {
		return err
	}

	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return ErrSessionClosed
	}
	cs.addresses = profile.Addresses
	cs.mu.Unlock()

	if len(profile.Addresses) == 0 {
		return nil
	}

	initial := profile.Addresses[0]
	for _, addr := range profile.Addresses {
		if addr.IsDefault {
			initial = addr
			break
		}
	}

	// The first quote blocks: the page is not usable without it.
	quote, err := cs.client.GetQuote(ctx, initial.ID)
	if err != nil {
		return err
	}

	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return ErrSessionClosed
	}
	cs.selected = &initial
	cs.quote = quote
	cs.cache[initial.ID] = quote
	cs.mu.Unlock()

	for _, addr := range profile.Addresses {
		if addr.ID == initial.ID {
			continue
		}
		go cs.prefetch(ctx, addr.ID)
	}

	return nil
}

// prefetch fetches one address quote in the background. Failures are
// intentionally silent and results arriving after Close are discarded.
func (cs *CheckoutSession) prefetch(ctx context.Context, addressID string) {
	quote, err := cs.client.GetQuote(ctx, addressID)
	if err != nil {
		return
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.closed {
		return
	}
	cs.cache[addressID] = quote
}

// SelectAddress makes the given address current. A cached quote is
// applied immediately without a network call; otherwise the quote is
// fetched live and cached for future selections.
func (cs *CheckoutSession) SelectAddress(ctx context.Context, addressID string) (*CheckoutQuote, error) {
	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return nil, ErrSessionClosed
	}
	address := cs.addressByID(addressID)
	if address == nil {
		cs.mu.Unlock()
		return nil, errors.New("unknown address")
	}
	if quote, ok := cs.cache[addressID]; ok {
		cs.selected = address
		cs.quote = quote
		cs.mu.Unlock()
		return quote, nil
	}
	cs.mu.Unlock()

	quote, err := cs.client.GetQuote(ctx, addressID)
	if err != nil {
		return nil, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.closed {
		return nil, ErrSessionClosed
	}
	cs.cache[addressID] = quote
	cs.selected = address
	cs.quote = quote
	return quote, nil
}

// AddAddress persists a new address, selects it and fetches its quote
// live. A fresh address is never assumed cached.
func (cs *CheckoutSession) AddAddress(ctx context.Context, req *CreateAddressRequest) (*CheckoutQuote, error) {
	address, err := cs.client.CreateAddress(ctx, req)
	if err != nil {
		return nil, err
	}

	quote, err := cs.client.GetQuote(ctx, address.ID)
	if err != nil {
		return nil, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.closed {
		return nil, ErrSessionClosed
	}
	cs.addresses = append(cs.addresses, *address)
	cs.cache[address.ID] = quote
	cs.selected = address
	cs.quote = quote
	return quote, nil
}

// Submit places the order. Validation failures (empty cart, no address,
// missing recipient fields) are caught before any request is sent and
// leave the state machine where it was. A submission already in flight
// rejects re-entrant calls so a double click cannot create two orders.
// There is no automatic retry: a failed submission parks the session in
// the failed state and the user must resubmit.
func (cs *CheckoutSession) Submit(ctx context.Context, name, email, phone, paymentMethod string) (*OrderResult, error) {
	cs.mu.Lock()
	if cs.closed {
		cs.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if cs.state == StateSubmitting {
		cs.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if cs.state == StateRedirecting || cs.state == StateConfirmed {
		cs.mu.Unlock()
		return nil, errors.New("order already placed")
	}
	if cs.quote == nil || len(cs.quote.Items) == 0 {
		cs.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if cs.selected == nil {
		cs.mu.Unlock()
		return nil, ErrNoAddress
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(phone) == "" {
		cs.mu.Unlock()
		return nil, ErrMissingRecipient
	}
	addressID := cs.selected.ID
	cs.state = StateSubmitting
	cs.mu.Unlock()

	result, err := cs.client.PlaceOrder(ctx, &PlaceOrderRequest{
		Name:          name,
		Email:         email,
		Phone:         phone,
		AddressID:     addressID,
		PaymentMethod: paymentMethod,
	})

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err != nil {
		cs.state = StateFailed
		return nil, err
	}
	if !result.Success {
		cs.state = StateFailed
		if result.Message != "" {
			return nil, errors.New(result.Message)
		}
		return nil, errors.New("order was rejected")
	}

	if paymentMethod == PaymentMoMo && result.PayURL != "" {
		cs.state = StateRedirecting
	} else {
		cs.state = StateConfirmed
	}
	return result, nil
}

// State reports where the submission state machine currently is.
func (cs *CheckoutSession) State() SubmitState {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

// Selected returns the currently selected address, or nil.
func (cs *CheckoutSession) Selected() *Address {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.selected == nil {
		return nil
	}
	addr := *cs.selected
	return &addr
}

// Quote returns the quote for the currently selected address, or nil.
func (cs *CheckoutSession) Quote() *CheckoutQuote {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.quote
}

// Addresses returns the loaded address list.
func (cs *CheckoutSession) Addresses() []Address {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	addresses := make([]Address, len(cs.addresses))
	copy(addresses, cs.addresses)
	return addresses
}

// Close abandons the session. Prefetch results arriving afterwards are
// discarded instead of being applied to stale state.
func (cs *CheckoutSession) Close() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.closed = true
}

func (cs *CheckoutSession) addressByID(id string) *Address {
	for i := range cs.addresses {
		if cs.addresses[i].ID == id {
			return &cs.addresses[i]
		}
	}
	return nil
}
