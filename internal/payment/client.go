// Package payment calls the remote promo validator and payment session
// creator over JSON/HTTP.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/checkout"
	"storefront/internal/domain"
)

const (
	validatePromoPath = "/validate-promo-code"
	createSessionPath = "/create-checkout-session"
	userAgent         = "storefront-api/1.0"
)

// PromoResult is the validator's verdict on a promo code.
type PromoResult struct {
	Valid              bool   `json:"valid"`
	DiscountPercentage int    `json:"discountPercentage"`
	Message            string `json:"message"`
}

// Session is the created payment session; the shopper is redirected to URL.
type Session struct {
	URL string `json:"url"`
}

// Client talks to the payment backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("payment api url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}, nil
}

// ValidatePromoCode asks the backend whether code is valid. Transport and
// server failures wrap domain.ErrRemote; an invalid code is not an error.
func (c *Client) ValidatePromoCode(ctx context.Context, code string) (PromoResult, error) {
	var out PromoResult
	if err := c.post(ctx, validatePromoPath, map[string]string{"code": code}, &out); err != nil {
		return PromoResult{}, err
	}
	return out, nil
}

// CreateCheckoutSession submits an assembled session request.
func (c *Client) CreateCheckoutSession(ctx context.Context, req checkout.SessionRequest) (Session, error) {
	var out Session
	if err := c.post(ctx, createSessionPath, req, &out); err != nil {
		return Session{}, err
	}
	if out.URL == "" {
		return Session{}, fmt.Errorf("create checkout session: empty url: %w", domain.ErrRemote)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("payment call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s: %v: %w", path, err, domain.ErrRemote)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %v: %w", path, err, domain.ErrRemote)
	}
	c.logger.Debug("payment call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: status %d: %s: %w", path, resp.StatusCode, errorMessage(respBody), domain.ErrRemote)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing %s response: %v: %w", path, err, domain.ErrRemote)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.TrimSpace(string(body))
}
