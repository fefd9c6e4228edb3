// Package client is a typed Go client for the furniture storefront API.
// It mirrors what the web storefront keeps on the page: a cart view with
// optimistic totals and a checkout session with per-address quote
// prefetching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnreachable marks transport failures and unstructured non-2xx
// responses: the server could not be reached or gave no usable answer.
var ErrUnreachable = errors.New("could not reach server")

// APIError is a structured rejection from the server. Its message is
// passed through to the caller verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CartItem is a priced cart line. TotalPrice is always PriceNew times
// Quantity.
type CartItem struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
	Quantity   int     `json:"quantity"`
	PriceNew   float64 `json:"priceNew"`
	TotalPrice float64 `json:"totalPrice"`
}

type Cart struct {
	Items      []CartItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
	ItemCount  int        `json:"itemCount"`
}

type Address struct {
	ID          string `json:"id"`
	FullAddress string `json:"fullAddress"`
	City        string `json:"city"`
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	IsDefault   bool   `json:"isDefault"`
}

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses"`
}

// CheckoutQuote is the server-computed pricing of the cart against one
// delivery address. The shipping fee is never computed client-side.
type CheckoutQuote struct {
	Items       []CartItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	ShippingFee float64    `json:"shippingFee"`
	TotalPrice  float64    `json:"totalPrice"`
	AddressID   string     `json:"address_id"`
}

type CreateAddressRequest struct {
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	Ward        string `json:"ward"`
	District    string `json:"district"`
	City        string `json:"city"`
	IsDefault   bool   `json:"is_default"`
}

type PlaceOrderRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AddressID     string `json:"addressId"`
	PaymentMethod string `json:"paymentMethod"`
}

type OrderResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	PayURL  string `json:"payUrl,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) (*Cart, error) {
	var cart Cart
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPost, "/cart/add/"+productID, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) (*Cart, error) {
	var cart Cart
	body := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPatch, "/cart/update/"+productID, body, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) DeleteCartItem(ctx context.Context, productID string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodDelete, "/cart/delete/"+productID, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) CreateAddress(ctx context.Context, req *CreateAddressRequest) (*Address, error) {
	var address Address
	if err := c.do(ctx, http.MethodPost, "/addresses", req, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

func (c *Client) GetQuote(ctx context.Context, addressID string) (*CheckoutQuote, error) {
	var quote CheckoutQuote
	if err := c.do(ctx, http.MethodGet, "/checkout/"+addressID, nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*OrderResult, error) {
	var result OrderResult
	if err := c.do(ctx, http.MethodPost, "/checkout/order", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// serverError matches the API's uniform error body.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode >= 400 {
		var apiErr serverError
		if err := json.Unmarshal(data, &apiErr); err == nil && (apiErr.Message != "" || apiErr.Error != "") {
			message := apiErr.Message
			if message == "" {
				message = apiErr.Error
			}
			return &APIError{StatusCode: resp.StatusCode, Message: message}
		}
		return fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
