package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wakala/dwh/internal/metrics"
	"github.com/wakala/dwh/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(store *repository.Store, m *metrics.Metrics) http.Handler {
	h := &Handlers{store: store}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	if m != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		// Mart.
		r.Get("/ratios", h.ListRatios)
		r.Get("/ratios/{date}", h.GetRatio)

		// Warehouse.
		r.Get("/aggregates", h.ListAggregates)
		r.Get("/watermarks", h.GetWatermarks)
	})

	return r
}
