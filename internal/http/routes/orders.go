package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmaher/shoplite/internal/store"
)

type orderItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type orderInput struct {
	CustomerID string           `json:"customer_id"`
	Items      []orderItemInput `json:"items"`
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	orders, err := s.DB.ListOrders(r.Context(), mid)
	if err != nil {
		s.respondErr(w, r, err, "could not load orders")
		return
	}
	s.respond(w, http.StatusOK, orders)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	var in orderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	customerID, err := uuid.Parse(in.CustomerID)
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	if len(in.Items) == 0 {
		http.Error(w, "at least one item required", http.StatusBadRequest)
		return
	}

	items := make([]store.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		if it.Quantity < 0 || it.UnitPrice < 0 {
			http.Error(w, "quantity and unit price must be non-negative", http.StatusBadRequest)
			return
		}
		items = append(items, store.OrderItem{ProductID: pid, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	o, err := s.DB.CreateOrder(r.Context(), store.CreateOrderParams{
		MerchantID: mid,
		CustomerID: customerID,
		Items:      items,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not create order")
		return
	}
	s.invalidatePages(r, "/orders")
	s.invalidateReports(r)
	s.respond(w, http.StatusCreated, o)
}

func (s *Server) handleListOrderItems(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	items, err := s.DB.ListOrderItems(r.Context(), mid, orderID)
	if err != nil {
		s.respondErr(w, r, err, "could not load order items")
		return
	}
	s.respond(w, http.StatusOK, items)
}
