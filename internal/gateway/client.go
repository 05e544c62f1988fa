package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-order-insights/internal/logger"
	"github.com/imrishuroy/go-order-insights/internal/orders"
)

// ErrStatusUpdateNotSupported aliases the orders sentinel for gateway callers.
var ErrStatusUpdateNotSupported = orders.ErrStatusUpdateNotSupported

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the storefront order endpoints. It does not retry.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ orders.Source = (*Client)(nil)

// NewClient returns a Client for baseURL (e.g. "https://shop.example.com/api").
// token, when set, is sent as a bearer token.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateOrderRequest is the POST /orders payload.
type CreateOrderRequest struct {
	Items           []orders.LineItem `json:"items"`
	ShippingAddress *orders.Address   `json:"shippingAddress,omitempty"`
	PaymentMethod   string            `json:"paymentMethod"`
	GrandTotal      float64           `json:"grandTotal"`
}

// CreateOrder places an order. Each call carries a fresh Idempotency-Key.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*orders.OrderRecord, error) {
	var out orders.OrderRecord
	hdr := http.Header{"Idempotency-Key": []string{uuid.NewString()}}
	if _, err := c.do(ctx, http.MethodPost, "/orders", req, hdr, &out, false); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &out, nil
}

// ListMyOrders returns the orders of the account owning the token.
func (c *Client) ListMyOrders(ctx context.Context) ([]orders.OrderRecord, error) {
	out := []orders.OrderRecord{}
	if _, err := c.do(ctx, http.MethodGet, "/orders/myorders", nil, nil, &out, false); err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	return out, nil
}

// ListOrders returns every order (admin).
func (c *Client) ListOrders(ctx context.Context) ([]orders.OrderRecord, error) {
	var out struct {
		Orders []orders.OrderRecord `json:"orders"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out, false); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if out.Orders == nil {
		out.Orders = []orders.OrderRecord{}
	}
	return out.Orders, nil
}

// GetOrder fetches one order with its detail fields. Returns (nil, nil) if
// the backend answers 404.
func (c *Client) GetOrder(ctx context.Context, id string) (*orders.OrderRecord, error) {
	var out orders.OrderRecord
	found, err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &out, true)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// MarkDelivered calls PUT /orders/{id}/deliver. Returns (nil, nil) on 404.
func (c *Client) MarkDelivered(ctx context.Context, id string) (*orders.OrderRecord, error) {
	var out orders.OrderRecord
	found, err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/deliver", nil, nil, &out, true)
	if err != nil {
		return nil, fmt.Errorf("mark order %s delivered: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// UpdateStatus maps a status change onto the endpoints the backend has.
func (c *Client) UpdateStatus(ctx context.Context, id string, status orders.Status) (*orders.OrderRecord, error) {
	if err := orders.CheckTransition(status); err != nil {
		return nil, err
	}
	return c.MarkDelivered(ctx, id)
}

// do performs one request and decodes a JSON body into out. With notFoundOK
// a 404 reports found=false and no error; otherwise it is an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, hdr http.Header, out interface{}, notFoundOK bool) (bool, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	logger.Log.Debug("upstream call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound && notFoundOK {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		return true, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// errorMessage pulls "message" or "error" out of a JSON error body, falling
// back to the raw text.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
