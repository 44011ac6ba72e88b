package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmaher/shoplite/internal/store"
)

type customerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	customers, err := s.DB.ListCustomers(r.Context(), mid)
	if err != nil {
		s.respondErr(w, r, err, "could not load customers")
		return
	}
	s.respond(w, http.StatusOK, customers)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	var in customerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	c, err := s.DB.CreateCustomer(r.Context(), store.CreateCustomerParams{
		MerchantID: mid,
		Name:       in.Name,
		Email:      in.Email,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not create customer")
		return
	}
	s.invalidatePages(r, "/customers")
	s.respond(w, http.StatusCreated, c)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	c, err := s.DB.GetCustomer(r.Context(), mid, id)
	if err != nil {
		s.respondErr(w, r, err, "could not load customer")
		return
	}
	s.respond(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	var in customerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}

	c, err := s.DB.UpdateCustomer(r.Context(), store.UpdateCustomerParams{
		MerchantID: mid,
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not update customer")
		return
	}
	s.invalidatePages(r, "/customers")
	s.respond(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	if err := s.DB.DeleteCustomer(r.Context(), mid, id); err != nil {
		s.respondErr(w, r, err, "could not delete customer")
		return
	}
	s.invalidatePages(r, "/customers")
	w.WriteHeader(http.StatusNoContent)
}
