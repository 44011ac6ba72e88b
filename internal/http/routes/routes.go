// Package routes wires the HTTP surface: session auth, tenant-scoped CRUD
// for customers, products and orders, cached report endpoints, and the CSV
// import upload.
package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/dmaher/shoplite/internal/auth"
	"github.com/dmaher/shoplite/internal/cache"
	"github.com/dmaher/shoplite/internal/config"
	"github.com/dmaher/shoplite/internal/email"
	appmw "github.com/dmaher/shoplite/internal/http/middleware"
	"github.com/dmaher/shoplite/internal/report"
	"github.com/dmaher/shoplite/internal/store"
)

// Storage is the slice of the store the handlers use. Tests provide fakes.
type Storage interface {
	UpsertMerchantByEmail(ctx context.Context, email string) (store.Merchant, error)
	GetMerchantByEmail(ctx context.Context, email string) (store.Merchant, error)

	CreateCustomer(ctx context.Context, p store.CreateCustomerParams) (store.Customer, error)
	GetCustomer(ctx context.Context, merchantID, id uuid.UUID) (store.Customer, error)
	ListCustomers(ctx context.Context, merchantID uuid.UUID) ([]store.Customer, error)
	UpdateCustomer(ctx context.Context, p store.UpdateCustomerParams) (store.Customer, error)
	DeleteCustomer(ctx context.Context, merchantID, id uuid.UUID) error

	CreateProduct(ctx context.Context, p store.CreateProductParams) (store.Product, error)
	GetProduct(ctx context.Context, merchantID, id uuid.UUID) (store.Product, error)
	ListProducts(ctx context.Context, merchantID uuid.UUID) ([]store.Product, error)
	UpdateProduct(ctx context.Context, p store.UpdateProductParams) (store.Product, error)
	DeleteProduct(ctx context.Context, merchantID, id uuid.UUID) error

	CreateOrder(ctx context.Context, p store.CreateOrderParams) (store.Order, error)
	ListOrders(ctx context.Context, merchantID uuid.UUID) ([]store.Order, error)
	ListOrderItems(ctx context.Context, merchantID, orderID uuid.UUID) ([]store.OrderItem, error)
	ListLineItems(ctx context.Context, merchantID uuid.UUID) ([]report.LineItem, error)
}

// Enqueuer is the slice of asynq.Client the upload handler needs.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	Router *chi.Mux
	Sess   *scs.SessionManager
	DB     Storage
	Magic  auth.MagicLink
	State  auth.StateSigner
	Google *oauth2.Config
	Email  email.Sender
	Jobs   Enqueuer
	Log    zerolog.Logger

	// Pages is the response cache for list endpoints; Reports holds computed
	// snapshots. One typed store per value shape.
	Pages   *cache.Store[[]byte]
	Reports *cache.Store[report.Snapshot]

	ReportTTL time.Duration
	TopN      int
}

type ServerOptions struct {
	Sess    *scs.SessionManager
	DB      Storage
	Cfg     *config.Config
	Email   email.Sender
	Jobs    Enqueuer
	Log     zerolog.Logger
	Pages   *cache.Store[[]byte]
	Reports *cache.Store[report.Snapshot]
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{
		Router:    r,
		Sess:      opts.Sess,
		DB:        opts.DB,
		Magic:     auth.MagicLink{Secret: []byte(opts.Cfg.SessionSecret), BaseURL: opts.Cfg.BaseURL},
		State:     auth.StateSigner{Secret: []byte(opts.Cfg.SessionSecret)},
		Email:     opts.Email,
		Jobs:      opts.Jobs,
		Log:       opts.Log,
		Pages:     opts.Pages,
		Reports:   opts.Reports,
		ReportTTL: opts.Cfg.Cache.TTL,
		TopN:      report.DefaultTopN,
	}
	if opts.Cfg.HasGoogle() {
		s.Google = &oauth2.Config{
			ClientID:     opts.Cfg.Google.ClientID,
			ClientSecret: opts.Cfg.Google.ClientSecret,
			RedirectURL:  opts.Cfg.BaseURL + "/oauth/google/callback",
			Scopes:       []string{"openid", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		}
	}

	loginLimit := appmw.NewRateLimiter(rate.Every(10*time.Second), 3)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.With(loginLimit.Limit).Post("/auth/magic-link", s.handleMagicLink)
	r.Get("/auth/callback", s.handleAuthCallback)
	r.Post("/logout", s.handleLogout)
	r.Get("/oauth/google/start", s.handleGoogleStart)
	r.Get("/oauth/google/callback", s.handleGoogleCallback)

	pages := &appmw.ResponseCache{Store: s.Pages, KeyFunc: s.pageKey}

	r.Group(func(pr chi.Router) {
		pr.Use(s.sessionToContext)
		pr.Use(appmw.RequireAuth)

		pr.With(pages.Wrap).Get("/customers", s.handleListCustomers)
		pr.Post("/customers", s.handleCreateCustomer)
		pr.Get("/customers/{customerID}", s.handleGetCustomer)
		pr.Put("/customers/{customerID}", s.handleUpdateCustomer)
		pr.Delete("/customers/{customerID}", s.handleDeleteCustomer)

		pr.With(pages.Wrap).Get("/products", s.handleListProducts)
		pr.Post("/products", s.handleCreateProduct)
		pr.Get("/products/{productID}", s.handleGetProduct)
		pr.Put("/products/{productID}", s.handleUpdateProduct)
		pr.Delete("/products/{productID}", s.handleDeleteProduct)
		pr.Post("/products/import", s.handleImportProducts)

		pr.With(pages.Wrap).Get("/orders", s.handleListOrders)
		pr.Post("/orders", s.handleCreateOrder)
		pr.Get("/orders/{orderID}/items", s.handleListOrderItems)

		pr.Get("/reports/products", s.handleProductReport)
		pr.Get("/reports/categories", s.handleCategoryReport)
	})

	return s
}

// sessionToContext copies the merchant id out of the scs session so
// RequireAuth and the handlers read one canonical place.
func (s *Server) sessionToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := s.Sess.GetString(r.Context(), "merchant_id"); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), appmw.MerchantIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// pageKey scopes cached responses by tenant, path and query.
func (s *Server) pageKey(r *http.Request) string {
	return cache.Key(appmw.MerchantID(r), r.URL.Path, r.URL.RawQuery)
}

// invalidatePages drops cached list responses for one resource of one tenant.
func (s *Server) invalidatePages(r *http.Request, resource string) {
	s.Pages.InvalidatePattern(cache.Key(appmw.MerchantID(r), resource))
}

// invalidateReports drops the tenant's report snapshots. Called on any write
// that changes what the aggregation engine would compute.
func (s *Server) invalidateReports(r *http.Request) {
	s.Reports.InvalidatePattern(cache.Key("reports", appmw.MerchantID(r)))
}

func (s *Server) merchantUUID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(appmw.MerchantID(r))
	return id, err == nil
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.Log.Error().Err(err).Str("path", r.URL.Path).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sess.Destroy(r.Context()); err != nil {
		s.Log.Error().Err(err).Msg("destroy session")
	}
	w.WriteHeader(http.StatusNoContent)
}
