package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retaildash/metrics"
	"retaildash/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"error":"Authentication Failed","message":"Invalid username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-1","username":"manager","role":"MANAGER"}`))
	})

	auth, err := c.Login(context.Background(), "manager", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", auth.Token)
	assert.Equal(t, "manager", auth.Username)
	assert.Equal(t, "MANAGER", auth.Role)

	_, err = c.Login(context.Background(), "manager", "wrong")
	require.Error(t, err)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid username or password", MessageOf(err))
}

func TestLoginWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"manager"}`))
	})
	_, err := c.Login(context.Background(), "manager", "secret")
	assert.Error(t, err)
}

func TestInventorySendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inventory/2", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"id":1,"productId":7,"productName":"Laptop","productSku":"LAP-1","productCategory":"Electronics",
			 "currentStock":4,"storeId":2,"storeName":"Mall Store","updatedAt":"2024-05-01T10:30:00"}
		]`))
	})

	records, err := c.Inventory(context.Background(), "tok-1", 2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Laptop", records[0].ProductName)
	assert.Equal(t, 4, records[0].CurrentStock)
	assert.Equal(t, 2024, records[0].UpdatedAt.Year())
	assert.Equal(t, 10, records[0].UpdatedAt.Hour())
}

func TestRecordSaleBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales/transaction", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"id":42}`))
	})

	res, err := c.RecordSale(context.Background(), "tok-1", models.SaleInput{
		ProductID: 7, StoreID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, res.ID)
	assert.Equal(t, map[string]any{
		"productId": 7.0,
		"storeId":   1.0,
		"quantity":  3.0,
		"unitPrice": 10.0,
	}, body)
}

func TestRecordSaleKeepsTypedPrecision(t *testing.T) {
	tests := []struct {
		price string
		want  string
	}{
		{"19.999", `"unitPrice":19.999`},
		{"0.004", `"unitPrice":0.004`},
		{"10.005", `"unitPrice":10.005`},
		{"10.00", `"unitPrice":10`},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			var raw []byte
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				raw, _ = io.ReadAll(r.Body)
				_, _ = w.Write([]byte(`{"id":1}`))
			})
			_, err := c.RecordSale(context.Background(), "tok", models.SaleInput{
				ProductID: 7, StoreID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString(tt.price),
			})
			require.NoError(t, err)
			assert.Contains(t, string(raw), tt.want)
		})
	}
}

func TestOversizedResponseIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("["))
		_, _ = w.Write(bytes.Repeat([]byte(" "), maxResponseBytes))
		_, _ = w.Write([]byte("]"))
	})
	_, err := c.Products(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response exceeds")
}

func TestRecordSaleErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":400,"message":"Insufficient stock"}`))
	})
	_, err := c.RecordSale(context.Background(), "tok", models.SaleInput{ProductID: 1, StoreID: 1, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock", MessageOf(err))
}

func TestNonJSONErrorHasNoMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("Product not found"))
	})
	_, err := c.Products(context.Background(), "tok")
	require.Error(t, err)
	assert.Empty(t, MessageOf(err))
	assert.Contains(t, err.Error(), "404")
}

func TestAbcAnalysisQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/algorithms/abc-analysis/3", r.URL.Path)
		assert.Equal(t, "90", r.URL.Query().Get("days"))
		_, _ = w.Write([]byte(`[{"product":{"name":"Laptop","sku":"LAP-1"},"category":"A",
			"totalRevenue":1200.5,"percentageOfTotal":60.25,"cumulativePercentage":60.25}]`))
	})
	rows, err := c.AbcAnalysis(context.Background(), "tok", 3, 90)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Category)
	assert.Equal(t, "1200.50", rows[0].TotalRevenue.StringFixed(2))
}

func TestReorderRecommendations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/algorithms/reorder-recommendations/1", r.URL.Path)
		_, _ = w.Write([]byte(`[{"productId":7,"productName":"Laptop","productCategory":"Electronics",
			"currentStock":5,"reorderPoint":12,"recommendedQuantity":15,"averageDailySales":1.75,"leadTime":7}]`))
	})
	recs, err := c.ReorderRecommendations(context.Background(), "tok", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 15, recs[0].RecommendedQuantity)
	assert.Equal(t, "1.8", recs[0].AverageDailySales.StringFixed(1))
}

func TestTransportErrorAndMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	rec := metrics.New()
	c := New(srv.URL, time.Second, WithMetrics(rec))
	_, err := c.Products(context.Background(), "tok")
	require.Error(t, err)
	assert.Empty(t, MessageOf(err))

	count, err := testutil.GatherAndCount(rec.Registry(), "retaildash_backend_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
