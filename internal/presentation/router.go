package presentation

import (
	"context"
	"net/http"
	"time"

	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	Analytics *AnalyticsHandler
	Products  *ProductsHandler
	Orders    *OrdersHandler
	Customers *CustomersHandler
}

// NewRouter mounts the JSON API under /api next to /metrics and /healthz.
func NewRouter(h Handlers, reg *metrics.Registry, db Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(reg.Middleware)

	r.Route("/api", func(api chi.Router) {
		h.Analytics.Register(api)
		h.Products.Register(api)
		h.Orders.Register(api)
		h.Customers.Register(api)
	})

	r.Handle("/metrics", reg.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				helpers.HttpError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}
