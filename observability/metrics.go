package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics lives on its own registry so several nodes can run in one process (tests, demos).
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Mesh metrics
	MessagesTotal      *prometheus.CounterVec
	PayloadsDropped    prometheus.Counter
	SendFailures       prometheus.Counter
	SessionTransitions *prometheus.CounterVec
	ConnectedPeers     prometheus.Gauge
	WorkerRestarts     *prometheus.CounterVec

	// Process metrics
	ProcessRSS prometheus.Gauge
	ProcessCPU prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "village_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_messages_total",
				Help: "Transcript entries appended",
			},
			[]string{"origin"}, // "local", "remote" or "system"
		),
		PayloadsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "village_payloads_dropped_total",
				Help: "Inbound payloads that were not valid UTF-8",
			},
		),
		SendFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "village_send_failures_total",
				Help: "Per-peer sends that failed during a broadcast",
			},
		),
		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_session_transitions_total",
				Help: "Session state changes by target state",
			},
			[]string{"state"},
		),
		ConnectedPeers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "village_connected_peers",
				Help: "Peers currently connected",
			},
		),
		WorkerRestarts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "village_worker_restarts_total",
				Help: "Supervised worker restarts",
			},
			[]string{"worker"},
		),
		ProcessRSS: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "village_process_rss_bytes",
				Help: "Resident memory of the node",
			},
		),
		ProcessCPU: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "village_process_cpu_percent",
				Help: "CPU usage of the node",
			},
		),
	}
}
