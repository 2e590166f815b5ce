package views

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retaildash/events"
	"retaildash/models"
)

func TestInventorySelectStoreFetchesOncePerChange(t *testing.T) {
	api := &fakeBackend{
		inventory: func(storeID int64) ([]models.InventoryRecord, error) {
			return []models.InventoryRecord{{StoreID: storeID, ProductName: "P", CurrentStock: int(storeID)}}, nil
		},
	}
	v := NewInventoryView(testEnv(api), 1)
	ctx := context.Background()

	require.NoError(t, v.SelectStore(ctx, 2))
	require.NoError(t, v.SelectStore(ctx, 2))
	require.NoError(t, v.SelectStore(ctx, 3))

	assert.Equal(t, []int64{2, 3}, api.inventoryCalls)
	assert.Equal(t, "token-s1", api.tokens[0])

	snap := v.Snapshot()
	assert.Equal(t, int64(3), snap.StoreID)
	assert.Equal(t, "Store 3 - Airport", snap.StoreName)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, int64(3), snap.Records[0].StoreID)
	assert.False(t, snap.Loading)
}

func TestInventoryRefreshFailureKeepsMessage(t *testing.T) {
	fail := true
	api := &fakeBackend{
		inventory: func(storeID int64) ([]models.InventoryRecord, error) {
			if fail {
				return nil, errors.New("connection refused")
			}
			return []models.InventoryRecord{{ProductName: "P"}}, nil
		},
	}
	v := NewInventoryView(testEnv(api), 1)

	require.Error(t, v.Refresh(context.Background()))
	snap := v.Snapshot()
	assert.Equal(t, "Failed to fetch inventory data", snap.Error)
	assert.False(t, snap.Loading)

	fail = false
	require.NoError(t, v.Refresh(context.Background()))
	snap = v.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Records, 1)
}

func TestInventoryDropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	api := &fakeBackend{
		inventory: func(storeID int64) ([]models.InventoryRecord, error) {
			if storeID == 2 {
				<-release
				return []models.InventoryRecord{{ProductName: "slow store 2"}}, nil
			}
			return []models.InventoryRecord{{ProductName: "fast store 3"}}, nil
		},
	}
	v := NewInventoryView(testEnv(api), 1)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- v.SelectStore(ctx, 2) }()
	require.Eventually(t, func() bool { return api.inventoryCallCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, v.SelectStore(ctx, 3))
	close(release)
	assert.ErrorIs(t, <-slow, ErrStaleResponse)

	snap := v.Snapshot()
	assert.Equal(t, int64(3), snap.StoreID)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "fast store 3", snap.Records[0].ProductName)
}

func TestInventoryRefreshesOnOwnTabActivation(t *testing.T) {
	api := &fakeBackend{}
	bus := events.NewBus(nil)
	v := NewInventoryView(Env{API: api, Session: testSession("s1"), Bus: bus}, 1)
	ctx := context.Background()

	bus.Publish(ctx, events.TabActivated{SessionID: "s1", Tab: TabSales})
	bus.Publish(ctx, events.TabActivated{SessionID: "other", Tab: TabInventory})
	assert.Equal(t, 0, api.inventoryCallCount())

	bus.Publish(ctx, events.TabActivated{SessionID: "s1", Tab: TabInventory})
	assert.Equal(t, 1, api.inventoryCallCount())

	v.Close()
	bus.Publish(ctx, events.TabActivated{SessionID: "s1", Tab: TabInventory})
	assert.Equal(t, 1, api.inventoryCallCount())
}
