// Package apiclient talks to the inventory backend's REST API.
// Every call except Login sends the session's bearer token.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"retaildash/metrics"
	"retaildash/models"
)

// maxResponseBytes caps how much of a backend response is read.
const maxResponseBytes = 8 << 20

// Error is returned when the backend answers with a non-2xx status.
type Error struct {
	Endpoint   string
	StatusCode int
	Message    string // backend "message" field, may be empty
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Endpoint, e.StatusCode)
}

// MessageOf returns the backend-supplied message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Client is a thin, stateless wrapper around the backend endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Recorder
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithMetrics records every call on the given recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var out models.AuthResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Endpoint: "login", StatusCode: http.StatusOK, Message: "Login response did not contain a token"}
	}
	return &out, nil
}

// Inventory returns the stock snapshot of one store.
func (c *Client) Inventory(ctx context.Context, token string, storeID int64) ([]models.InventoryRecord, error) {
	var out []models.InventoryRecord
	path := "/api/inventory/" + strconv.FormatInt(storeID, 10)
	if err := c.do(ctx, "inventory", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Products returns the product catalog.
func (c *Client) Products(ctx context.Context, token string) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, "products", http.MethodGet, "/api/products", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordSale posts one sale transaction.
func (c *Client) RecordSale(ctx context.Context, token string, in models.SaleInput) (*models.SaleResult, error) {
	var out models.SaleResult
	if err := c.do(ctx, "sales", http.MethodPost, "/api/sales/transaction", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AbcAnalysis runs the revenue classification for a store over the last days.
func (c *Client) AbcAnalysis(ctx context.Context, token string, storeID int64, days int) ([]models.AbcAnalysisRow, error) {
	var out []models.AbcAnalysisRow
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	path := "/api/algorithms/abc-analysis/" + strconv.FormatInt(storeID, 10) + "?" + q.Encode()
	if err := c.do(ctx, "abc-analysis", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReorderRecommendations returns the restocking suggestions for a store.
func (c *Client) ReorderRecommendations(ctx context.Context, token string, storeID int64) ([]models.ReorderRecommendation, error) {
	var out []models.ReorderRecommendation
	path := "/api/algorithms/reorder-recommendations/" + strconv.FormatInt(storeID, 10)
	if err := c.do(ctx, "reorder-recommendations", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			c.log.Warn("backend call failed",
				zap.String("endpoint", endpoint),
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		c.metrics.ObserveBackendCall(endpoint, outcome, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", endpoint, err)
	}
	if len(data) > maxResponseBytes {
		return fmt.Errorf("%s: response exceeds %d bytes", endpoint, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Endpoint: endpoint, StatusCode: resp.StatusCode}
		var envelope models.APIError
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", endpoint, err)
	}
	return nil
}
