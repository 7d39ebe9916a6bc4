package quicnet_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/infrastructure/transport/quicnet"
	"village-chat/runtime"
	"village-chat/runtime/workers"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 10 * time.Second
	tick    = 20 * time.Millisecond
)

func newTransport(t *testing.T, name string, peers ...string) *quicnet.Transport {
	tr, err := quicnet.New(logs.GetLoggerFromLevel(slog.LevelDebug), quicnet.Options{
		ListenAddr: "127.0.0.1:0",
		Peers:      peers,
		LocalName:  name,
	})
	require.NoError(t, err)
	return tr
}

func startNode(t *testing.T, tr *quicnet.Transport, name string) *runtime.Orchestrator {
	log := logs.GetLoggerFromLevel(slog.LevelDebug).With("node", name)
	o := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 50*time.Millisecond), tr, name, domain.ModeBoth, 64, time.Second, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		o.Shutdown()
		cancel()
		<-done
	})
	return o
}

func hasLine(o *runtime.Orchestrator, sender, text string) bool {
	return lo.ContainsBy(o.Transcript(), func(m domain.Message) bool {
		return m.Sender == sender && m.Text == text
	})
}

func TestTransport_Chat_Over_Quic(t *testing.T) {
	req := require.New(t)

	// Given Alice listening and Bob configured with her address
	aliceTransport := newTransport(t, "Alice")
	bobTransport := newTransport(t, "Bob", aliceTransport.ID())

	alice := startNode(t, aliceTransport, "Alice")
	bob := startNode(t, bobTransport, "Bob")

	// Then the link comes up with names on both sides
	req.Eventually(func() bool {
		return hasLine(alice, domain.SenderSystem, "Connected to Bob") &&
			hasLine(bob, domain.SenderSystem, "Connected to Alice")
	}, waitFor, tick)
	req.Equal(aliceTransport.ID(), bob.Peers()[0].EndpointID)
	req.Equal(bobTransport.ID(), alice.Peers()[0].EndpointID)

	// When they chat
	req.NoError(alice.SendText(context.Background(), "ça va ?"))
	req.Eventually(func() bool { return hasLine(bob, "Alice", "ça va ?") }, waitFor, tick)

	// When Alice stops, Bob sees her leave
	alice.Stop()
	req.Eventually(func() bool { return hasLine(bob, domain.SenderSystem, "Disconnected from Alice") }, waitFor, tick)
}

func TestNew_Invalid_Listen(t *testing.T) {
	_, err := quicnet.New(logs.GetLoggerFromLevel(slog.LevelDebug), quicnet.Options{ListenAddr: "not an address"})
	require.Error(t, err)
}
