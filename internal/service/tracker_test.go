package service

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

func TestETAMinutes(t *testing.T) {
	placed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int
	}{
		{"just placed", 0, 25},
		{"partial minute", 59 * time.Second, 25},
		{"ten minutes", 10 * time.Minute, 15},
		{"exactly at floor", 20 * time.Minute, 5},
		{"past floor", 2 * time.Hour, 5},
		{"clock skew", -3 * time.Minute, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ETAMinutes(placed, placed.Add(tt.elapsed), 25, 5))
		})
	}
}

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-[A-Z0-9]{6}$`)
	for i := 0; i < 100; i++ {
		assert.Regexp(t, pattern, GenerateOrderID())
	}
}

func TestOrderTracker_Checkout(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewOrderTracker(config.ETAConfig{BaseMinutes: 25, FloorMinutes: 5}, func() time.Time { return now })

	_, err := tracker.Checkout(&SessionState{Cart: models.Cart{}})
	assert.ErrorIs(t, err, ErrEmptyCart)

	sess := &SessionState{
		Cart:  models.Cart{{ID: "drink-cola", Name: "Cola", Price: 2.5, Qty: 1}},
		Order: &models.Order{ID: "ORD-OLD001"},
	}
	order, err := tracker.Checkout(sess)
	require.NoError(t, err)

	assert.NotEqual(t, "ORD-OLD001", order.ID)
	assert.Equal(t, order, sess.Order)
	assert.Equal(t, now, order.PlacedAt)
	assert.Empty(t, sess.Cart)
	assert.True(t, sess.cartDirty)
	assert.True(t, sess.orderDirty)

	// The snapshot is independent of the cart it was taken from.
	sess.SetCart(append(sess.Cart, models.CartLine{ID: "drink-lemonade", Qty: 1}))
	assert.Len(t, order.Items, 1)
}

func TestOrderTracker_Track(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewOrderTracker(config.ETAConfig{}, func() time.Time { return now })

	_, err := tracker.Track(&SessionState{})
	assert.ErrorIs(t, err, ErrNoRecentOrder)

	status, err := tracker.Track(&SessionState{Order: &models.Order{ID: "ORD-ABC123", PlacedAt: now.Add(-12 * time.Minute)}})
	require.NoError(t, err)
	assert.Equal(t, "ORD-ABC123", status.OrderID)
	assert.Equal(t, 13, status.ETAMinutes)
}

func TestNewOrderTracker_ETADefaults(t *testing.T) {
	tests := []struct {
		name     string
		eta      config.ETAConfig
		expected config.ETAConfig
	}{
		{"both unset", config.ETAConfig{}, config.ETAConfig{BaseMinutes: 25, FloorMinutes: 5}},
		{"floor kept when base unset", config.ETAConfig{FloorMinutes: 10}, config.ETAConfig{BaseMinutes: 25, FloorMinutes: 10}},
		{"base kept when floor unset", config.ETAConfig{BaseMinutes: 40}, config.ETAConfig{BaseMinutes: 40, FloorMinutes: 5}},
		{"both set", config.ETAConfig{BaseMinutes: 30, FloorMinutes: 8}, config.ETAConfig{BaseMinutes: 30, FloorMinutes: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewOrderTracker(tt.eta, nil)
			assert.Equal(t, tt.expected, tracker.eta)
		})
	}
}

func TestOrderTracker_TrackKeepsConfiguredFloor(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewOrderTracker(config.ETAConfig{FloorMinutes: 10}, func() time.Time { return now })

	status, err := tracker.Track(&SessionState{Order: &models.Order{ID: "ORD-ABC123", PlacedAt: now.Add(-20 * time.Minute)}})
	require.NoError(t, err)
	assert.Equal(t, 10, status.ETAMinutes)
}

func TestSessionLocks(t *testing.T) {
	locks := newSessionLocks()

	var (
		mu      sync.Mutex
		active  = map[string]int{}
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 40; i++ {
		id := []string{"a", "b"}[i%2]
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(id)
			defer unlock()

			mu.Lock()
			active[id]++
			if active[id] > maxSeen {
				maxSeen = active[id]
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active[id]--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.size())
}
