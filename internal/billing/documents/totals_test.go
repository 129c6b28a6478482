package documents

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/changerates"
)

func TestComputeTotals(t *testing.T) {
	orders := []BillableOrder{
		{ID: 1, Total: 37.50},
		{ID: 2, Total: 25.00},
		{ID: 3, Total: 62.50},
	}
	identity := &changerates.ChangeRate{CurrencyPrimary: "EUR", CurrencySecondary: "EUR", Rate: 1}

	totals := ComputeTotals(orders, 21, 15, identity)
	require.InDelta(t, 125.00, totals.Net, 0.001)
	require.InDelta(t, 26.25, totals.Vat, 0.001)
	require.InDelta(t, 18.75, totals.Withholding, 0.001)
	require.InDelta(t, 151.25, totals.Gross, 0.001)
	require.InDelta(t, 132.50, totals.ToPay, 0.001)
	require.False(t, totals.HasSecondary)
}

func TestComputeTotalsSecondary(t *testing.T) {
	orders := []BillableOrder{{ID: 1, Total: 100}}
	usd := &changerates.ChangeRate{CurrencyPrimary: "EUR", CurrencySecondary: "USD", Rate: 1.1}

	totals := ComputeTotals(orders, 21, 15, usd)
	require.True(t, totals.HasSecondary)
	require.Equal(t, "USD", totals.SecondaryCurrency)
	require.InDelta(t, 121*1.1, totals.GrossSecondary, 0.001)
	require.InDelta(t, 106*1.1, totals.ToPaySecondary, 0.001)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	orders := []BillableOrder{{ID: 1, Total: 42.42}, {ID: 2, Total: 7.58}}
	rate := &changerates.ChangeRate{CurrencyPrimary: "EUR", CurrencySecondary: "USD", Rate: 1.25}

	first := ComputeTotals(orders, 21, 15, rate)
	second := ComputeTotals(orders, 21, 15, rate)
	require.Equal(t, first, second)
}

func TestComputeTotalsEmptySet(t *testing.T) {
	totals := ComputeTotals(nil, 21, 15, nil)
	require.Zero(t, totals.Net)
	require.Zero(t, totals.Gross)
	require.Zero(t, totals.ToPay)
	require.False(t, totals.HasSecondary)
}
