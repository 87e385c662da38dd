package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"checkout-service/logger"
	"checkout-service/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	csrfTokenPath   = "/api/csrf-token"
	csrfTokenHeader = "X-CSRF-Token"

	// The upstream rejects a stale token with a 403 whose body carries
	// this marker. Anything else on a 403 is a plain authorization
	// failure and must not be retried.
	csrfRejectionMarker = "invalid csrf token"
)

var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// StatusError is any non-2xx upstream response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	body := e.Body
	if body == "" {
		body = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%d: %s", e.Status, body)
}

// CommerceClient talks to the commerce API. Reads pass through
// untouched; mutating requests carry the session CSRF token and are
// retried exactly once when the upstream rejects the token as stale.
type CommerceClient struct {
	baseURL string
	client  *http.Client
	session *TokenSession
}

func NewCommerceClient(baseURL string, timeout time.Duration, session *TokenSession) *CommerceClient {
	// Session credentials ride on cookies; the jar keeps them attached
	// to every request.
	jar, _ := cookiejar.New(nil)
	return &CommerceClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout, Jar: jar},
		session: session,
	}
}

// Do sends one request. payload, when non-nil, is marshaled to JSON.
// The returned response always has a 2xx status; every other outcome is
// an error, non-2xx ones a *StatusError.
func (c *CommerceClient) Do(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	if !mutatingMethods[method] {
		resp, err := c.send(ctx, method, path, body, "")
		if err != nil {
			return nil, err
		}
		return c.checkStatus(resp)
	}

	token, err := c.session.Token(ctx, c.fetchToken)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusForbidden {
		text := readBody(resp)
		if !strings.Contains(strings.ToLower(text), csrfRejectionMarker) {
			return nil, &StatusError{Status: resp.StatusCode, Body: text}
		}

		// Stale token: refresh and retry the original request once,
		// regardless of the retry's outcome.
		logger.Log.Warn("csrf token rejected, refreshing",
			zap.String("method", method),
			zap.String("path", path),
		)
		c.session.Clear()
		token, err = c.session.Token(ctx, c.fetchToken)
		if err != nil {
			return nil, err
		}
		resp, err = c.send(ctx, method, path, body, token)
		if err != nil {
			return nil, err
		}
	}

	return c.checkStatus(resp)
}

func (c *CommerceClient) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(csrfTokenHeader, token)
	}

	return c.client.Do(req)
}

func (c *CommerceClient) checkStatus(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	return nil, &StatusError{Status: resp.StatusCode, Body: readBody(resp)}
}

func (c *CommerceClient) fetchToken(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, csrfTokenPath, nil, "")
	if err != nil {
		return "", fmt.Errorf("fetch csrf token: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch csrf token: %s", (&StatusError{Status: resp.StatusCode, Body: readBody(resp)}).Error())
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		resp.Body.Close()
		return "", fmt.Errorf("decode csrf token: %w", err)
	}
	resp.Body.Close()
	if data.Token == "" {
		return "", fmt.Errorf("fetch csrf token: empty token in response")
	}
	return data.Token, nil
}

func readBody(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

// DecodeJSON decodes a 2xx response body and closes it.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchCart reads the cart view and flattens it into a snapshot. The
// wire entries are cart rows enriched with their product; prices arrive
// as decimal strings.
func (c *CommerceClient) FetchCart(ctx context.Context) (models.CartSnapshot, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/cart", nil)
	if err != nil {
		return nil, err
	}

	var items []struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
		Product  struct {
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Price decimal.Decimal `json:"price"`
		} `json:"product"`
	}
	if err := DecodeJSON(resp, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	snapshot := make(models.CartSnapshot, 0, len(items))
	for _, it := range items {
		snapshot = append(snapshot, models.CartLine{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			UnitPrice:   it.Product.Price,
			Quantity:    it.Quantity,
		})
	}
	return snapshot, nil
}

// FetchOrders reads the orders view.
func (c *CommerceClient) FetchOrders(ctx context.Context) ([]models.OrderRecord, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return nil, err
	}

	var orders []models.OrderRecord
	if err := DecodeJSON(resp, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// CreateOrder submits an order draft and returns the authoritative
// record the server assigned.
func (c *CommerceClient) CreateOrder(ctx context.Context, draft *models.OrderDraft) (*models.OrderRecord, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/api/orders", draft)
	if err != nil {
		return nil, err
	}

	var record models.OrderRecord
	if err := DecodeJSON(resp, &record); err != nil {
		return nil, fmt.Errorf("decode order record: %w", err)
	}
	return &record, nil
}
