// Package api is the HTTP rendering boundary: JSON accessors, user commands,
// manual signaling, a WebSocket push stream and Prometheus metrics.
package api

import (
	"log/slog"

	"village-chat/contract"
	"village-chat/observability"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize covers the largest message plus a WebRTC session description.
const maxBodySize = 256 * 1024

// NewRouter creates and configures the HTTP router.
func NewRouter(log *slog.Logger, orchestrator contract.IOrchestrator,
	monitoring *observability.MonitoringManager, metrics *observability.Metrics, stream *Stream) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(Metrics(metrics))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Logger(log))
	r.Use(chimw.Recoverer)

	h := NewHandler(log, orchestrator, monitoring)

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	r.Get("/ws", stream.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(MaxBodySize(maxBodySize))

		r.Get("/health", h.Health)
		r.Get("/status", h.Status)
		r.Get("/transcript", h.Transcript)
		r.Get("/peers", h.Peers)
		r.Get("/stats", h.Stats)

		r.Post("/messages", h.PostMessage)
		r.Post("/stop", h.Stop)
		r.Post("/rejoin", h.Rejoin)

		r.Route("/signal", func(r chi.Router) {
			r.Post("/offer", h.Offer)
			r.Post("/answer", h.Answer)
			r.Post("/accept", h.Accept)
		})
	})

	return r
}
