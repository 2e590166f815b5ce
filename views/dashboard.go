package views

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"retaildash/events"
)

// Tabs of the dashboard.
const (
	TabInventory   = "inventory"
	TabSales       = "sales"
	TabAbcAnalysis = "abc-analysis"
	TabReorder     = "reorder"
)

// Tabs lists the tabs in display order.
var Tabs = []string{TabInventory, TabSales, TabAbcAnalysis, TabReorder}

// ValidTab reports whether tab names one of the dashboard tabs.
func ValidTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Dashboard is the tab container of one authenticated browser session.
type Dashboard struct {
	env Env

	Inventory *InventoryView
	Sales     *SalesForm
	Abc       *AbcView
	Reorder   *ReorderView

	mu       sync.Mutex
	active   string
	lastSeen time.Time
}

// NewDashboard creates the four views and performs the mount fetches: the inventory
// of store 1 and the product catalog. Fetch failures are kept as view errors.
func NewDashboard(ctx context.Context, env Env) *Dashboard {
	d := &Dashboard{
		env:       env,
		Inventory: NewInventoryView(env, 1),
		Sales:     NewSalesForm(env),
		Abc:       NewAbcView(env),
		Reorder:   NewReorderView(env),
		active:    TabInventory,
		lastSeen:  time.Now(),
	}
	_ = d.Inventory.Refresh(ctx)
	_ = d.Sales.LoadProducts(ctx)
	return d
}

// Activate switches to tab. A change of tab is published on the bus so that the
// inventory view can refresh itself.
func (d *Dashboard) Activate(ctx context.Context, tab string) {
	if !ValidTab(tab) {
		tab = TabInventory
	}
	d.mu.Lock()
	previous := d.active
	d.active = tab
	d.lastSeen = time.Now()
	d.mu.Unlock()

	if tab == previous || d.env.Bus == nil {
		return
	}
	sid := ""
	if d.env.Session != nil {
		sid = d.env.Session.ID
	}
	d.env.logger().Debug("Tab activated", zap.String("tab", tab), zap.String("previous", previous))
	d.env.Bus.Publish(ctx, events.TabActivated{SessionID: sid, Tab: tab, Previous: previous})
}

// Show makes tab the active one without publishing. Requests that load the tab's
// data themselves use it to avoid a second fetch.
func (d *Dashboard) Show(tab string) {
	if !ValidTab(tab) {
		tab = TabInventory
	}
	d.mu.Lock()
	d.active = tab
	d.lastSeen = time.Now()
	d.mu.Unlock()
}

// ActiveTab returns the current tab.
func (d *Dashboard) ActiveTab() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Touch records activity on the dashboard.
func (d *Dashboard) Touch() {
	d.mu.Lock()
	d.lastSeen = time.Now()
	d.mu.Unlock()
}

func (d *Dashboard) idleSince(now time.Time) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.Sub(d.lastSeen)
}

// Close releases the dashboard's subscriptions.
func (d *Dashboard) Close() {
	d.Inventory.Close()
}
