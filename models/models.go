package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
)

// --- Timestamps ---

// timestampLayouts lists the formats the backend uses for LocalDateTime values.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp decodes backend date-times that may or may not carry a zone offset.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// --- Auth & Session ---

// LoginRequest is the body sent to POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the backend's reply to a successful login.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// User is the identity persisted next to the token.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session is the authenticated state of one browser.
type Session struct {
	ID       string
	Token    string
	Username string
	Role     string
}

// User returns the identity half of the session.
func (s Session) User() User {
	return User{Username: s.Username, Role: s.Role}
}

// SessionClaims is carried by the browser cookie. The registered ID claim is the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// --- Core Models ---

// Store is one retail location shown in the store selectors.
type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DefaultStores is the fixed selector list of the dashboard.
var DefaultStores = []Store{
	{ID: 1, Name: "Store 1 - Downtown"},
	{ID: 2, Name: "Store 2 - Mall"},
	{ID: 3, Name: "Store 3 - Airport"},
}

// Product is a catalog entry from GET /api/products.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Sku         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// InventoryRecord is one stock line of GET /api/inventory/{storeId}.
type InventoryRecord struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"productId"`
	ProductName     string    `json:"productName"`
	ProductSku      string    `json:"productSku"`
	ProductCategory string    `json:"productCategory"`
	CurrentStock    int       `json:"currentStock"`
	StoreID         int64     `json:"storeId"`
	StoreName       string    `json:"storeName"`
	StoreLocation   string    `json:"storeLocation,omitempty"`
	UpdatedAt       Timestamp `json:"updatedAt"`
}

// SaleInput is the body of POST /api/sales/transaction.
type SaleInput struct {
	ProductID int64           `json:"productId" validate:"min=1"`
	StoreID   int64           `json:"storeId" validate:"min=1"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

// MarshalJSON writes unitPrice as a JSON number rather than decimal's quoted string.
// The price is sent exactly as typed, without rounding.
func (s SaleInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID int64       `json:"productId"`
		StoreID   int64       `json:"storeId"`
		Quantity  int         `json:"quantity"`
		UnitPrice json.Number `json:"unitPrice"`
	}{
		ProductID: s.ProductID,
		StoreID:   s.StoreID,
		Quantity:  s.Quantity,
		UnitPrice: json.Number(s.UnitPrice.String()),
	})
}

// SaleResult is the backend's reply to a recorded sale.
type SaleResult struct {
	ID int64 `json:"id"`
}

// APIError is the backend's error envelope. Only Message is shown to users.
type APIError struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Path    string `json:"path"`
}
