// Package report derives per-product sales metrics from raw order line items.
// Everything here is pure computation over slices; results are recomputed on
// demand and typically live inside a cache entry for one TTL window.
package report

import (
	"math"
	"sort"
)

// Product is the entity being measured. Price and Cost are per unit.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Cost     float64
}

// LineItem is one order line. Quantity and UnitPrice come straight from the
// order rows; this layer does not validate them, so negative inputs produce
// negative revenue.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

// ProductMetrics is the per-product rollup.
type ProductMetrics struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	TotalSold     int     `json:"total_sold"`
	TotalRevenue  float64 `json:"total_revenue"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
	MarginPercent float64 `json:"margin_percent"`
}

// CategoryRollup sums product metrics per category.
type CategoryRollup struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Revenue  float64 `json:"revenue"`
}

// ComputeProductMetrics groups items by product and accumulates sold quantity
// and revenue. Products with no sales stay in the output with zeros. Items
// referencing an unknown product id cannot be attributed and are dropped.
// Duplicate product ids are not deduplicated; each occurrence rolls up the
// same items independently.
func ComputeProductMetrics(products []Product, items []LineItem) []ProductMetrics {
	type acc struct {
		sold    int
		revenue float64
	}
	byProduct := make(map[string]acc, len(products))
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	for _, it := range items {
		if !known[it.ProductID] {
			continue
		}
		a := byProduct[it.ProductID]
		a.sold += it.Quantity
		a.revenue += float64(it.Quantity) * it.UnitPrice
		byProduct[it.ProductID] = a
	}

	out := make([]ProductMetrics, 0, len(products))
	for _, p := range products {
		a := byProduct[p.ID]
		out = append(out, ProductMetrics{
			ProductID:     p.ID,
			Name:          p.Name,
			Category:      p.Category,
			TotalSold:     a.sold,
			TotalRevenue:  a.revenue,
			ProfitPerUnit: p.Price - p.Cost,
			MarginPercent: marginPercent(p.Price, p.Cost),
		})
	}
	return out
}

// marginPercent returns (price-cost)/price as a percentage with one decimal
// digit, rounding half away from zero. Zero or negative price yields 0
// rather than a division by zero.
func marginPercent(price, cost float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Round((price-cost)/price*1000) / 10
}

// Rank sorts metrics descending by TotalSold. The sort is stable so products
// with equal sales keep their input order. The input slice is not modified.
func Rank(metrics []ProductMetrics) []ProductMetrics {
	ranked := make([]ProductMetrics, len(metrics))
	copy(ranked, metrics)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalSold > ranked[j].TotalSold
	})
	return ranked
}

// TopSellers returns the first n of the ranked sequence.
func TopSellers(ranked []ProductMetrics, n int) []ProductMetrics {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

// SlowMovers returns the last n of the ranked sequence. With fewer than 2n
// products the result overlaps TopSellers; callers render both anyway.
func SlowMovers(ranked []ProductMetrics, n int) []ProductMetrics {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[len(ranked)-n:]
}

// RollupByCategory groups metrics by category, counting products and summing
// revenue. Output order follows first appearance in the input.
func RollupByCategory(metrics []ProductMetrics) []CategoryRollup {
	idx := make(map[string]int)
	out := make([]CategoryRollup, 0)
	for _, m := range metrics {
		i, ok := idx[m.Category]
		if !ok {
			i = len(out)
			idx[m.Category] = i
			out = append(out, CategoryRollup{Category: m.Category})
		}
		out[i].Count++
		out[i].Revenue += m.TotalRevenue
	}
	return out
}
