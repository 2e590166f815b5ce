package views

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"retaildash/models"
)

const msgAbcFailed = "Failed to run ABC analysis"

// AbcPeriods are the analysis windows offered in the form.
var AbcPeriods = []int{7, 30, 90}

// DefaultAbcDays is the preselected analysis window.
const DefaultAbcDays = 30

// AbcSnapshot is a copy of the ABC view's state for rendering.
type AbcSnapshot struct {
	StoreID int64
	Days    int
	Rows    []models.AbcAnalysisRow
	Tally   map[string]int
	Loading bool
	Error   string
}

// AbcView runs the revenue classification report on demand.
type AbcView struct {
	env Env

	mu      sync.Mutex
	storeID int64
	days    int
	rows    []models.AbcAnalysisRow
	loading bool
	err     string
	seq     sequence
}

// NewAbcView creates an empty view for store 1 over the default window.
func NewAbcView(env Env) *AbcView {
	return &AbcView{env: env, storeID: 1, days: DefaultAbcDays}
}

// Run fetches the analysis for storeID over the last days days.
func (v *AbcView) Run(ctx context.Context, storeID int64, days int) error {
	v.mu.Lock()
	seq := v.seq.next()
	v.storeID = storeID
	v.days = days
	v.loading = true
	v.err = ""
	v.mu.Unlock()

	rows, err := v.env.API.AbcAnalysis(ctx, v.env.token(), storeID, days)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.isLatest(seq) {
		return ErrStaleResponse
	}
	v.loading = false
	if err != nil {
		v.err = msgAbcFailed
		v.env.logger().Warn("Error running ABC analysis",
			zap.Int64("store_id", storeID), zap.Int("days", days), zap.Error(err))
		return err
	}
	v.rows = rows
	return nil
}

// Snapshot returns a copy of the current state.
func (v *AbcView) Snapshot() AbcSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	rows := append([]models.AbcAnalysisRow(nil), v.rows...)
	return AbcSnapshot{
		StoreID: v.storeID,
		Days:    v.days,
		Rows:    rows,
		Tally:   Tally(rows),
		Loading: v.loading,
		Error:   v.err,
	}
}

// Tally counts rows per category. A, B and C are always present.
func Tally(rows []models.AbcAnalysisRow) map[string]int {
	counts := map[string]int{"A": 0, "B": 0, "C": 0}
	for _, r := range rows {
		counts[r.Category]++
	}
	return counts
}
