package sink_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/domain/event"
	"village-chat/observability"
	"village-chat/sink"

	"github.com/gookit/color"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsSink_Consume(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	monitoring := observability.NewMonitoringManager(slog.Default())
	metrics := observability.NewMetrics()
	connected := 1
	s := sink.NewMetricsSink(monitoring, metrics, func() int { return connected })

	events := []event.DomainEvent{
		event.MessageAppended{Message: domain.Message{Sender: domain.SenderMe, Text: "hi"}},
		event.MessageAppended{Message: domain.Message{Sender: "Alice", Text: "yo"}},
		event.MessageAppended{Message: domain.Message{Sender: domain.SenderSystem, Text: "Connected to Alice"}},
		event.SessionChanged{EndpointID: "A", From: domain.Connecting, To: domain.Connected},
		event.SessionChanged{EndpointID: "B", From: domain.Connecting, To: domain.Connected},
		event.SessionChanged{EndpointID: "A", From: domain.Connected, To: domain.Disconnected},
		event.PayloadDropped{EndpointID: "A", Size: 2},
		event.SendFailed{EndpointID: "B", Err: errors.New("broken pipe")},
		event.WorkerRestarted{WorkerName: "EventLoopWorker"},
	}
	for _, e := range events {
		req.NoError(s.Consume(ctx, e))
	}

	stats := monitoring.GetLatest()
	req.Equal(uint64(1), stats.MessagesSent)
	req.Equal(uint64(1), stats.MessagesReceived)
	req.Equal(uint64(1), stats.SystemEntries)
	req.Equal(int64(1), stats.ConnectedPeers)
	req.Equal(uint64(1), stats.PayloadsDropped)
	req.Equal(uint64(1), stats.SendFailures)
	req.Equal(uint64(1), stats.WorkerRestarts)

	req.Equal(float64(1), testutil.ToFloat64(metrics.ConnectedPeers))
	req.Equal(float64(2), testutil.ToFloat64(metrics.SessionTransitions.WithLabelValues("CONNECTED")))
	req.Equal(float64(1), testutil.ToFloat64(metrics.MessagesTotal.WithLabelValues("remote")))
}

func TestMetricsSink_Peer_Gauge_Follows_Registry_When_Events_Are_Lost(t *testing.T) {
	req := require.New(t)
	monitoring := observability.NewMonitoringManager(slog.Default())
	metrics := observability.NewMetrics()
	connected := 0
	s := sink.NewMetricsSink(monitoring, metrics, func() int { return connected })

	// Given two peers connect but only the first event reaches the sink
	connected = 2
	req.NoError(s.Consume(context.Background(),
		event.SessionChanged{EndpointID: "A", From: domain.Connecting, To: domain.Connected}))

	// Then the gauge already counts both
	req.Equal(int64(2), monitoring.GetLatest().ConnectedPeers)
	req.Equal(float64(2), testutil.ToFloat64(metrics.ConnectedPeers))

	// When one leaves and its event is lost too, a resync catches up
	connected = 1
	s.SyncConnectedPeers()
	req.Equal(int64(1), monitoring.GetLatest().ConnectedPeers)
	req.Equal(float64(1), testutil.ToFloat64(metrics.ConnectedPeers))
}

func TestConsoleSink_Consume(t *testing.T) {
	req := require.New(t)
	color.Enable = false
	defer func() { color.Enable = true }()

	var out bytes.Buffer
	s := sink.NewConsoleSink(&out)
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.Local)

	req.NoError(s.Consume(context.Background(), event.MessageAppended{
		Message: domain.Message{Seq: 1, Sender: "Alice", Text: "hello", At: at},
	}))
	req.NoError(s.Consume(context.Background(), event.StatusChanged{Status: "Stopped"}))
	req.NoError(s.Consume(context.Background(), event.SendFailed{EndpointID: "A"}))

	req.Equal("[10:30:00] Alice: hello\n* Stopped\n", out.String())
}
