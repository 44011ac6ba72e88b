package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	appmw "github.com/dmaher/shoplite/internal/http/middleware"
	"github.com/dmaher/shoplite/internal/importer"
	"github.com/dmaher/shoplite/internal/jobs"
	"github.com/dmaher/shoplite/internal/store"
)

type productInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Cost     float64 `json:"cost"`
}

func (in productInput) validate() string {
	if in.Name == "" {
		return "name required"
	}
	if in.Price < 0 || in.Cost < 0 {
		return "price and cost must be non-negative"
	}
	return ""
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	products, err := s.DB.ListProducts(r.Context(), mid)
	if err != nil {
		s.respondErr(w, r, err, "could not load products")
		return
	}
	s.respond(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if msg := in.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	p, err := s.DB.CreateProduct(r.Context(), store.CreateProductParams{
		MerchantID: mid,
		Name:       in.Name,
		Category:   in.Category,
		Price:      in.Price,
		Cost:       in.Cost,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not create product")
		return
	}
	s.invalidatePages(r, "/products")
	s.invalidateReports(r)
	s.respond(w, http.StatusCreated, p)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	p, err := s.DB.GetProduct(r.Context(), mid, id)
	if err != nil {
		s.respondErr(w, r, err, "could not load product")
		return
	}
	s.respond(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if msg := in.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	p, err := s.DB.UpdateProduct(r.Context(), store.UpdateProductParams{
		MerchantID: mid,
		ID:         id,
		Name:       in.Name,
		Category:   in.Category,
		Price:      in.Price,
		Cost:       in.Cost,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not update product")
		return
	}
	s.invalidatePages(r, "/products")
	s.invalidateReports(r)
	s.respond(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	mid, ok := s.merchantUUID(r)
	if !ok {
		http.Error(w, "bad session", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	if err := s.DB.DeleteProduct(r.Context(), mid, id); err != nil {
		s.respondErr(w, r, err, "could not delete product")
		return
	}
	s.invalidatePages(r, "/products")
	s.invalidateReports(r)
	w.WriteHeader(http.StatusNoContent)
}

// handleImportProducts validates an uploaded catalog CSV and hands the rows
// to the worker. The response reports parse results immediately; the inserts
// happen in the background.
func (s *Server) handleImportProducts(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `multipart field "file" required`, http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(file, 5<<20))
	if err != nil {
		s.respondErr(w, r, err, "could not read upload")
		return
	}

	res, err := importer.ParseProducts(bytes.NewReader(raw))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, err := json.Marshal(jobs.ImportProductsPayload{
		MerchantID: appmw.MerchantID(r),
		Filename:   header.Filename,
		CSV:        raw,
	})
	if err != nil {
		s.respondErr(w, r, err, "could not queue import")
		return
	}
	info, err := s.Jobs.Enqueue(asynq.NewTask(jobs.TaskImportProducts, payload),
		asynq.Queue("imports"),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		s.respondErr(w, r, err, "could not queue import")
		return
	}
	s.Log.Info().Str("job", info.ID).Str("file", header.Filename).
		Int("rows", len(res.Rows)).Int("rejected", len(res.Errors)).Msg("import queued")

	errs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		errs = append(errs, e.Error())
	}
	s.respond(w, http.StatusAccepted, map[string]any{
		"job_id":   info.ID,
		"rows":     len(res.Rows),
		"rejected": errs,
	})
}
