package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/application/service"
	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/importer"
	"github.com/TemirB/order-invoices/internal/observability"
)

//go:generate mockgen -source httpapi.go -destination=httpapi_mock_test.go -package=httpapi

type OrderService interface {
	Create(ctx context.Context, order *domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	GetOrderByOrderIDWithStats(ctx context.Context, orderID string) (*domain.Order, service.LookupStats, error)
}

type InvoiceService interface {
	ImportWithStats(ctx context.Context, records []importer.RawInvoiceInput) ([]domain.Invoice, service.ImportStats, error)
	List(ctx context.Context) ([]domain.InvoiceView, error)
	Get(ctx context.Context, id string) (*domain.InvoiceView, error)
	Update(ctx context.Context, id string, in service.InvoiceUpdate) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) (*domain.Invoice, error)
}

type snapshotter interface {
	Snapshot() observability.Snapshot
}

const maxBodyBytes = 10 << 20

type Server struct {
	orders    OrderService
	invoices  InvoiceService
	router    chi.Router
	logger    *zap.Logger
	metrics   observability.Metrics
	validate  *validator.Validate
	staticDir string
}

// New wires the routes. An empty staticDir disables the UI.
func New(orders OrderService, invoices InvoiceService, staticDir string, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	s := &Server{
		orders:    orders,
		invoices:  invoices,
		logger:    logger,
		metrics:   metrics,
		validate:  v,
		staticDir: staticDir,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(ServerTimingApp(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.createOrder)
		r.Get("/", s.listOrders)
		r.Get("/{orderId}", s.getOrder)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", s.createInvoices)
		r.Get("/", s.listInvoices)
		r.Get("/{id}", s.getInvoice)
		r.Put("/{id}", s.updateInvoice)
		r.Delete("/{id}", s.deleteInvoice)
	})

	if snap, ok := s.metrics.(snapshotter); ok {
		r.Get("/debug/metrics", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, snap.Snapshot())
		})
	}

	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}
	s.router = r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// ListenAndServe blocks until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler { return s.router }
