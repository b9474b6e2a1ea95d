package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/urlsafety-service/internal/delivery/http/handler"
	"github.com/user/urlsafety-service/internal/delivery/http/middleware"
	"github.com/user/urlsafety-service/pkg/metrics"
	"go.uber.org/zap"
)

// New builds the HTTP router. gatherer backs the /metrics endpoint.
func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws/hover", h.HandleHoverSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Post("/check", h.HandleCheckURL)
		r.Delete("/cache", h.HandleClearCache)
		r.Post("/scan", h.HandleSubmitScan)
		r.Get("/scan", h.HandleGetScan)
		r.Get("/lookups", h.HandleLookupHistory)
	})

	return r
}
