package report

// Snapshot is the full derived report for one merchant: ranked product
// metrics plus category rollups. It is what the report cache stores; one
// snapshot serves both dashboard report endpoints for a TTL window.
type Snapshot struct {
	Products   []ProductMetrics `json:"products"`
	TopSellers []ProductMetrics `json:"top_sellers"`
	SlowMovers []ProductMetrics `json:"slow_movers"`
	Categories []CategoryRollup `json:"categories"`
}

// DefaultTopN is how many products the top-seller and slow-mover lists hold.
const DefaultTopN = 3

// BuildSnapshot runs the full aggregation pipeline. With fewer than 2n
// products the top and slow lists overlap, which is fine for rendering.
func BuildSnapshot(products []Product, items []LineItem, topN int) Snapshot {
	if topN <= 0 {
		topN = DefaultTopN
	}
	metrics := ComputeProductMetrics(products, items)
	ranked := Rank(metrics)
	return Snapshot{
		Products:   ranked,
		TopSellers: TopSellers(ranked, topN),
		SlowMovers: SlowMovers(ranked, topN),
		Categories: RollupByCategory(metrics),
	}
}
