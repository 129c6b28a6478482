package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestItemTotal(t *testing.T) {
	// Fractional unit prices are the common case: orders price work in
	// small per-unit amounts against large quantities.
	require.InDelta(t, 37.50, ItemTotal(750, 0.05, 0), 0.001)
	require.InDelta(t, 25.00, ItemTotal(625, 0.05, 20), 0.001)
	require.InDelta(t, 62.50, ItemTotal(2500, 0.05, 50), 0.001)
	require.InDelta(t, 0, ItemTotal(100, 0.05, 100), 0.001)
}

func TestOrderTotal(t *testing.T) {
	items := []Item{
		{Total: 37.50},
		{Total: 25.00},
		{Total: 62.50},
	}
	require.InDelta(t, 125.00, OrderTotal(items), 0.001)
	require.Zero(t, OrderTotal(nil))
}
