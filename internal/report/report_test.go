package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProductMetricsTotals(t *testing.T) {
	products := []Product{
		{ID: "A", Name: "Widget", Category: "tools"},
		{ID: "B", Name: "Gadget", Category: "tools"},
	}
	items := []LineItem{
		{ProductID: "A", Quantity: 2, UnitPrice: 5},
		{ProductID: "A", Quantity: 1, UnitPrice: 5},
		{ProductID: "B", Quantity: 0, UnitPrice: 3},
	}

	m := ComputeProductMetrics(products, items)
	require.Len(t, m, 2)

	assert.Equal(t, 3, m[0].TotalSold)
	assert.Equal(t, 15.0, m[0].TotalRevenue)
	assert.Equal(t, 0, m[1].TotalSold)
	assert.Equal(t, 0.0, m[1].TotalRevenue, "product with no sales stays in output with zeros")
}

func TestComputeProductMetricsDropsUnknownItems(t *testing.T) {
	products := []Product{{ID: "A"}}
	items := []LineItem{
		{ProductID: "A", Quantity: 1, UnitPrice: 10},
		{ProductID: "ghost", Quantity: 99, UnitPrice: 10},
	}

	m := ComputeProductMetrics(products, items)
	require.Len(t, m, 1)
	assert.Equal(t, 1, m[0].TotalSold, "unattributable line items are dropped")
}

func TestMarginArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		cost   float64
		profit float64
		margin float64
	}{
		{"typical", 4.50, 1.20, 3.30, 73.3},
		{"free product", 0, 1.20, -1.20, 0},
		{"full margin", 10, 0, 10, 100},
		{"sold at cost", 8, 8, 0, 0},
		{"negative margin", 2, 3, -1, -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeProductMetrics([]Product{{ID: "p", Price: tt.price, Cost: tt.cost}}, nil)
			require.Len(t, m, 1)
			assert.InDelta(t, tt.profit, m[0].ProfitPerUnit, 1e-9)
			assert.InDelta(t, tt.margin, m[0].MarginPercent, 1e-9)
		})
	}
}

func TestMarginRoundingHalfAwayFromZero(t *testing.T) {
	// 1/3 margin = 33.333..% -> 33.3; 2/3 = 66.666..% -> 66.7.
	// 1/16 = 6.25% sits exactly on the rounding boundary (62.5 tenths) and
	// rounds away from zero in both directions.
	m := ComputeProductMetrics([]Product{
		{ID: "a", Price: 3, Cost: 2},
		{ID: "b", Price: 3, Cost: 1},
		{ID: "c", Price: 16, Cost: 15},
		{ID: "d", Price: 16, Cost: 17},
	}, nil)
	assert.InDelta(t, 33.3, m[0].MarginPercent, 1e-9)
	assert.InDelta(t, 66.7, m[1].MarginPercent, 1e-9)
	assert.InDelta(t, 6.3, m[2].MarginPercent, 1e-9)
	assert.InDelta(t, -6.3, m[3].MarginPercent, 1e-9)
}

func TestRankIsStableDescending(t *testing.T) {
	metrics := []ProductMetrics{
		{ProductID: "a", TotalSold: 1},
		{ProductID: "b", TotalSold: 5},
		{ProductID: "c", TotalSold: 5},
		{ProductID: "d", TotalSold: 2},
	}

	ranked := Rank(metrics)

	ids := []string{ranked[0].ProductID, ranked[1].ProductID, ranked[2].ProductID, ranked[3].ProductID}
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids, "ties keep input order")
	assert.Equal(t, "a", metrics[0].ProductID, "input slice untouched")
}

func TestTopAndSlowOverlapWithFewProducts(t *testing.T) {
	metrics := []ProductMetrics{
		{ProductID: "a", TotalSold: 9},
		{ProductID: "b", TotalSold: 7},
		{ProductID: "c", TotalSold: 3},
		{ProductID: "d", TotalSold: 1},
	}
	ranked := Rank(metrics)

	top := TopSellers(ranked, 3)
	slow := SlowMovers(ranked, 3)
	require.Len(t, top, 3)
	require.Len(t, slow, 3)

	// 4 products: top-3 and last-3 share exactly b and c. Not an error.
	overlap := 0
	for _, tm := range top {
		for _, sm := range slow {
			if tm.ProductID == sm.ProductID {
				overlap++
			}
		}
	}
	assert.Equal(t, 2, overlap)
}

func TestTopSellersClampsN(t *testing.T) {
	ranked := Rank([]ProductMetrics{{ProductID: "only", TotalSold: 1}})
	assert.Len(t, TopSellers(ranked, 3), 1)
	assert.Len(t, SlowMovers(ranked, 3), 1)
	assert.Len(t, TopSellers(ranked, -1), 0)
}

func TestRollupByCategory(t *testing.T) {
	metrics := []ProductMetrics{
		{ProductID: "a", Category: "tools", TotalRevenue: 10},
		{ProductID: "b", Category: "toys", TotalRevenue: 4},
		{ProductID: "c", Category: "tools", TotalRevenue: 6},
	}

	rollups := RollupByCategory(metrics)
	require.Len(t, rollups, 2)

	assert.Equal(t, "tools", rollups[0].Category)
	assert.Equal(t, 2, rollups[0].Count)
	assert.InDelta(t, 16.0, rollups[0].Revenue, 1e-9)
	assert.Equal(t, "toys", rollups[1].Category)
	assert.Equal(t, 1, rollups[1].Count)
	assert.InDelta(t, 4.0, rollups[1].Revenue, 1e-9)
}
