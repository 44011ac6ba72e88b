package routes

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmaher/shoplite/internal/cache"
	"github.com/dmaher/shoplite/internal/report"
)

// snapshot returns the merchant's report snapshot, computing it on a cache
// miss. Both report endpoints share one cached snapshot per tenant, so one
// recomputation serves a TTL window of dashboard traffic.
func (s *Server) snapshot(ctx context.Context, mid uuid.UUID) (report.Snapshot, error) {
	key := cache.Key("reports", mid.String(), "snapshot")
	return s.Reports.GetOrSet(ctx, key, s.ReportTTL, func(ctx context.Context) (report.Snapshot, error) {
		products, err := s.DB.ListProducts(ctx, mid)
		if err != nil {
			return report.Snapshot{}, err
		}
		items, err := s.DB.ListLineItems(ctx, mid)
		if err != nil {
			return report.Snapshot{}, err
		}

		rp := make([]report.Product, 0, len(products))
		for _, p := range products {
			rp = append(rp, report.Product{
				ID:       p.ID.String(),
				Name:     p.Name,
				Category: p.Category,
				Price:    p.Price,
				Cost:     p.Cost,
			})
		}
		return report.BuildSnapshot(rp, items, s.TopN), nil
	})
}

func (s *Server) handleProductReport(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	snap, err := s.snapshot(r.Context(), mid)
	if err != nil {
		s.respondErr(w, r, err, "could not build product report")
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"products":    snap.Products,
		"top_sellers": snap.TopSellers,
		"slow_movers": snap.SlowMovers,
	})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	snap, err := s.snapshot(r.Context(), mid)
	if err != nil {
		s.respondErr(w, r, err, "could not build category report")
		return
	}
	s.respond(w, http.StatusOK, map[string]any{"categories": snap.Categories})
}
