package views

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"retaildash/events"
	"retaildash/models"
)

const msgInventoryFailed = "Failed to fetch inventory data"

// InventorySnapshot is a copy of the inventory view's state for rendering.
type InventorySnapshot struct {
	StoreID   int64
	StoreName string
	Records   []models.InventoryRecord
	Loading   bool
	Error     string
}

// InventoryView lists the stock of one store.
type InventoryView struct {
	env Env

	mu      sync.Mutex
	storeID int64
	records []models.InventoryRecord
	loading bool
	err     string
	seq     sequence

	unsubscribe func()
}

// NewInventoryView creates the view for storeID and subscribes it to tab activations
// of its own session. It does not fetch.
func NewInventoryView(env Env, storeID int64) *InventoryView {
	v := &InventoryView{env: env, storeID: storeID}
	if env.Bus != nil {
		v.unsubscribe = env.Bus.Subscribe(events.TypeTabActivated, v.onTabActivated)
	}
	return v
}

// SelectStore switches to storeID and fetches its inventory. Selecting the current
// store does nothing.
func (v *InventoryView) SelectStore(ctx context.Context, storeID int64) error {
	v.mu.Lock()
	if storeID == v.storeID {
		v.mu.Unlock()
		return nil
	}
	v.storeID = storeID
	v.mu.Unlock()
	return v.Refresh(ctx)
}

// Refresh refetches the inventory of the current store.
func (v *InventoryView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	seq := v.seq.next()
	storeID := v.storeID
	v.loading = true
	v.mu.Unlock()

	records, err := v.env.API.Inventory(ctx, v.env.token(), storeID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.seq.isLatest(seq) {
		return ErrStaleResponse
	}
	v.loading = false
	if err != nil {
		v.err = msgInventoryFailed
		v.env.logger().Warn("Error fetching inventory", zap.Int64("store_id", storeID), zap.Error(err))
		return err
	}
	v.records = records
	v.err = ""
	return nil
}

// Snapshot returns a copy of the current state.
func (v *InventoryView) Snapshot() InventorySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return InventorySnapshot{
		StoreID:   v.storeID,
		StoreName: storeName(v.storeID),
		Records:   append([]models.InventoryRecord(nil), v.records...),
		Loading:   v.loading,
		Error:     v.err,
	}
}

// Close stops listening for tab activations.
func (v *InventoryView) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}

func (v *InventoryView) onTabActivated(ctx context.Context, e events.Event) error {
	ta, ok := e.(events.TabActivated)
	if !ok || ta.Tab != TabInventory || v.env.Session == nil || ta.SessionID != v.env.Session.ID {
		return nil
	}
	if err := v.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
		return err
	}
	return nil
}
