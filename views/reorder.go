package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"retaildash/models"
)

const (
	msgReorderFailed = "Failed to fetch reorder recommendations"
	msgExplainFailed = "Failed to generate the reorder summary"
)

// ErrInsightsDisabled is returned by Explain when no summarizer is configured.
var ErrInsightsDisabled = errors.New("reorder insights are not configured")

// ReorderRow is a recommendation with its derived priority.
type ReorderRow struct {
	models.ReorderRecommendation
	Priority Priority
}

// ReorderSnapshot is a copy of the reorder view's state for rendering.
type ReorderSnapshot struct {
	StoreID         int64
	Rows            []ReorderRow
	UrgentCount     int
	EstimatedValue  decimal.Decimal
	Loading         bool
	Error           string
	Confirmation    string
	Insight         *models.ReorderInsight
	InsightError    string
	InsightsEnabled bool
}

// ReorderView fetches restocking recommendations on demand.
type ReorderView struct {
	env Env

	mu           sync.Mutex
	storeID      int64
	recs         []models.ReorderRecommendation
	prices       map[int64]decimal.Decimal
	loading      bool
	err          string
	confirmation string
	insight      *models.ReorderInsight
	insightErr   string
	seq          sequence
}

// NewReorderView creates an empty view for store 1.
func NewReorderView(env Env) *ReorderView {
	return &ReorderView{env: env, storeID: 1}
}

// Fetch loads the recommendations of storeID together with the catalog prices used
// for the estimated order value. A catalog failure falls back to placeholder prices.
func (v *ReorderView) Fetch(ctx context.Context, storeID int64) error {
	v.mu.Lock()
	seq := v.seq.next()
	v.storeID = storeID
	v.loading = true
	v.err = ""
	v.confirmation = ""
	v.mu.Unlock()

	recs, err := v.env.API.ReorderRecommendations(ctx, v.env.token(), storeID)
	var prices map[int64]decimal.Decimal
	if err == nil && len(recs) > 0 {
		prices = v.catalogPrices(ctx)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.isLatest(seq) {
		return ErrStaleResponse
	}
	v.loading = false
	if err != nil {
		v.err = msgReorderFailed
		v.env.logger().Warn("Error fetching reorder recommendations", zap.Int64("store_id", storeID), zap.Error(err))
		return err
	}
	v.recs = recs
	v.prices = prices
	v.insight = nil
	v.insightErr = ""
	return nil
}

func (v *ReorderView) catalogPrices(ctx context.Context) map[int64]decimal.Decimal {
	products, err := v.env.API.Products(ctx, v.env.token())
	if err != nil {
		v.env.logger().Info("Catalog unavailable, using placeholder prices", zap.Error(err))
		return nil
	}
	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		if p.UnitPrice.IsPositive() {
			prices[p.ID] = p.UnitPrice
		}
	}
	return prices
}

// OrderNow confirms an order without contacting the backend.
func (v *ReorderView) OrderNow(productName string, qty int) string {
	msg := fmt.Sprintf("Order %d units of %s", qty, productName)
	v.mu.Lock()
	v.confirmation = msg
	v.mu.Unlock()
	return msg
}

// Explain asks the summarizer for a narrative of the current recommendations.
func (v *ReorderView) Explain(ctx context.Context) (*models.ReorderInsight, error) {
	if v.env.Insights == nil {
		return nil, ErrInsightsDisabled
	}
	v.mu.Lock()
	recs := append([]models.ReorderRecommendation(nil), v.recs...)
	store := storeName(v.storeID)
	seq := v.seq.latest
	v.mu.Unlock()

	insight, err := v.env.Insights.Explain(ctx, store, recs)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.isLatest(seq) {
		return nil, ErrStaleResponse
	}
	if err != nil {
		v.insightErr = msgExplainFailed
		v.env.logger().Warn("Error explaining reorder recommendations", zap.Error(err))
		return nil, err
	}
	v.insight = insight
	v.insightErr = ""
	return insight, nil
}

// Snapshot returns a copy of the current state with priorities and summary derived.
func (v *ReorderView) Snapshot() ReorderSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]ReorderRow, 0, len(v.recs))
	urgent := 0
	for _, rec := range v.recs {
		p := PriorityOf(rec)
		if p.Urgent() {
			urgent++
		}
		rows = append(rows, ReorderRow{ReorderRecommendation: rec, Priority: p})
	}
	return ReorderSnapshot{
		StoreID:         v.storeID,
		Rows:            rows,
		UrgentCount:     urgent,
		EstimatedValue:  EstimatedValue(v.recs, v.prices),
		Loading:         v.loading,
		Error:           v.err,
		Confirmation:    v.confirmation,
		Insight:         v.insight,
		InsightError:    v.insightErr,
		InsightsEnabled: v.env.Insights != nil,
	}
}
