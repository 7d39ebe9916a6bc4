package sink

import (
	"context"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/domain/event"
	"village-chat/observability"
)

var _ contract.EventSink = (*MetricsSink)(nil)

// PeerCounter reports how many peers are Connected right now.
type PeerCounter func() int

// MetricsSink turns domain events into counters, both for the JSON stats and Prometheus.
// The connected-peers gauge is read from the registry, not summed from events,
// because the fan-out may drop events under load.
type MetricsSink struct {
	monitoring *observability.MonitoringManager
	metrics    *observability.Metrics
	connected  PeerCounter
}

func NewMetricsSink(monitoring *observability.MonitoringManager, metrics *observability.Metrics,
	connected PeerCounter) *MetricsSink {
	return &MetricsSink{monitoring: monitoring, metrics: metrics, connected: connected}
}

// SyncConnectedPeers sets both peer gauges from the registry.
func (s *MetricsSink) SyncConnectedPeers() {
	n := s.connected()
	s.monitoring.SetConnectedPeers(n)
	s.metrics.ConnectedPeers.Set(float64(n))
}

func (s *MetricsSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageAppended:
		s.onMessage(evt.Message)
	case event.PayloadDropped:
		s.monitoring.IncrPayloadsDropped()
		s.metrics.PayloadsDropped.Inc()
	case event.SendFailed:
		s.monitoring.IncrSendFailures()
		s.metrics.SendFailures.Inc()
	case event.SessionChanged:
		s.onSession(evt)
	case event.WorkerRestarted:
		s.monitoring.IncrWorkerRestarts()
		s.metrics.WorkerRestarts.WithLabelValues(evt.WorkerName).Inc()
	}
	return nil
}

func (s *MetricsSink) onMessage(m domain.Message) {
	switch {
	case m.IsLocal():
		s.monitoring.IncrMessagesSent()
		s.metrics.MessagesTotal.WithLabelValues("local").Inc()
	case m.IsSystem():
		s.monitoring.IncrSystemEntries()
		s.metrics.MessagesTotal.WithLabelValues("system").Inc()
	default:
		s.monitoring.IncrMessagesReceived()
		s.metrics.MessagesTotal.WithLabelValues("remote").Inc()
	}
}

func (s *MetricsSink) onSession(evt event.SessionChanged) {
	s.metrics.SessionTransitions.WithLabelValues(evt.To.String()).Inc()
	s.SyncConnectedPeers()
}
