package views

import (
	"context"
	"sync"

	"retaildash/events"
	"retaildash/models"
)

type fakeBackend struct {
	mu             sync.Mutex
	inventoryCalls []int64
	productCalls   int
	sales          []models.SaleInput
	abcCalls       int
	reorderCalls   int
	tokens         []string

	inventory  func(storeID int64) ([]models.InventoryRecord, error)
	products   func() ([]models.Product, error)
	recordSale func(in models.SaleInput) (*models.SaleResult, error)
	abc        func(storeID int64, days int) ([]models.AbcAnalysisRow, error)
	reorder    func(storeID int64) ([]models.ReorderRecommendation, error)
}

func (f *fakeBackend) Inventory(_ context.Context, token string, storeID int64) ([]models.InventoryRecord, error) {
	f.mu.Lock()
	f.inventoryCalls = append(f.inventoryCalls, storeID)
	f.tokens = append(f.tokens, token)
	fn := f.inventory
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(storeID)
}

func (f *fakeBackend) Products(_ context.Context, token string) ([]models.Product, error) {
	f.mu.Lock()
	f.productCalls++
	fn := f.products
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn()
}

func (f *fakeBackend) RecordSale(_ context.Context, token string, in models.SaleInput) (*models.SaleResult, error) {
	f.mu.Lock()
	f.sales = append(f.sales, in)
	fn := f.recordSale
	f.mu.Unlock()
	if fn == nil {
		return &models.SaleResult{ID: 1}, nil
	}
	return fn(in)
}

func (f *fakeBackend) AbcAnalysis(_ context.Context, token string, storeID int64, days int) ([]models.AbcAnalysisRow, error) {
	f.mu.Lock()
	f.abcCalls++
	fn := f.abc
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(storeID, days)
}

func (f *fakeBackend) ReorderRecommendations(_ context.Context, token string, storeID int64) ([]models.ReorderRecommendation, error) {
	f.mu.Lock()
	f.reorderCalls++
	fn := f.reorder
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(storeID)
}

func (f *fakeBackend) inventoryCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inventoryCalls)
}

func testSession(id string) *models.Session {
	return &models.Session{ID: id, Token: "token-" + id, Username: "alice", Role: "STORE_MANAGER"}
}

func testEnv(api Backend) Env {
	return Env{API: api, Session: testSession("s1"), Bus: events.NewBus(nil)}
}

func (f *fakeBackend) abcCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.abcCalls
}

func (f *fakeBackend) reorderCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reorderCalls
}
