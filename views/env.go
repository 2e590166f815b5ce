// Package views holds the per-session state of the dashboard tabs. Every view owns its
// fetched data exclusively, replaces it wholesale on each fetch and drops responses that
// were superseded by a newer request.
package views

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"retaildash/events"
	"retaildash/insights"
	"retaildash/models"
)

var (
	// ErrStaleResponse is returned when a response arrived after a newer request was issued.
	ErrStaleResponse = errors.New("response superseded by a newer request")
	// ErrCatalogLoading is returned by SalesForm.Submit while the product list is loading.
	ErrCatalogLoading = errors.New("product catalog is still loading")
	// ErrInvalidSale wraps local validation failures of the sales form.
	ErrInvalidSale = errors.New("invalid sale")
)

// Backend is the part of the REST API the views consume.
type Backend interface {
	Inventory(ctx context.Context, token string, storeID int64) ([]models.InventoryRecord, error)
	Products(ctx context.Context, token string) ([]models.Product, error)
	RecordSale(ctx context.Context, token string, in models.SaleInput) (*models.SaleResult, error)
	AbcAnalysis(ctx context.Context, token string, storeID int64, days int) ([]models.AbcAnalysisRow, error)
	ReorderRecommendations(ctx context.Context, token string, storeID int64) ([]models.ReorderRecommendation, error)
}

// Env is everything a view needs from the outside.
type Env struct {
	API     Backend
	Session *models.Session
	Bus     *events.Bus
	Log     *zap.Logger
	// Insights is optional; a nil Summarizer hides the reorder narrative.
	Insights insights.Summarizer
}

func (e Env) token() string {
	if e.Session == nil {
		return ""
	}
	return e.Session.Token
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// sequence numbers the requests of one view. Callers hold the view's mutex.
type sequence struct {
	latest uint64
}

func (s *sequence) next() uint64 {
	s.latest++
	return s.latest
}

func (s *sequence) isLatest(n uint64) bool {
	return n == s.latest
}

func storeName(id int64) string {
	for _, s := range models.DefaultStores {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}
