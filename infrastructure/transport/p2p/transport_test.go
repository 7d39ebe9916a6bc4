package p2p_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/infrastructure/transport/p2p"
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

func newTransport(t *testing.T, name string, peers ...string) *p2p.Transport {
	key, err := p2p.GenerateKey()
	require.NoError(t, err)
	tr, err := p2p.New(logs.GetLoggerFromLevel(slog.LevelDebug), p2p.Options{
		PrivateKey:  key,
		ListenAddrs: []string{"/ip4/127.0.0.1/tcp/0"},
		LocalName:   name,
		StaticPeers: peers,
	})
	require.NoError(t, err)
	return tr
}

func startNode(t *testing.T, tr *p2p.Transport, name string) *runtime.Orchestrator {
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

func TestTransport_Chat_Over_Libp2p(t *testing.T) {
	req := require.New(t)

	// Given Alice listening and Bob knowing her address
	aliceTransport := newTransport(t, "Alice")
	bobTransport := newTransport(t, "Bob", aliceTransport.Addrs()...)
	req.NotEmpty(aliceTransport.Addrs())
	req.Contains(aliceTransport.Addrs()[0], "/p2p/"+aliceTransport.ID())

	alice := startNode(t, aliceTransport, "Alice")
	bob := startNode(t, bobTransport, "Bob")

	// Then Bob dials Alice and both learn each other's name
	req.Eventually(func() bool {
		return hasLine(alice, domain.SenderSystem, "Connected to Bob") &&
			hasLine(bob, domain.SenderSystem, "Connected to Alice")
	}, waitFor, tick)

	// When they chat
	req.NoError(bob.SendText(context.Background(), "bonjour"))
	req.NoError(alice.SendText(context.Background(), "salut"))

	// Then each line arrives under the sender's name
	req.Eventually(func() bool {
		return hasLine(alice, "Bob", "bonjour") && hasLine(bob, "Alice", "salut")
	}, waitFor, tick)

	// When Bob stops, Alice sees him leave
	bob.Stop()
	req.Eventually(func() bool { return hasLine(alice, domain.SenderSystem, "Disconnected from Bob") }, waitFor, tick)
	req.Empty(bob.Peers())
}

func TestNew_Invalid_Options(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	key, err := p2p.GenerateKey()
	req.NoError(err)

	_, err = p2p.New(log, p2p.Options{PrivateKey: []byte("nope")})
	req.Error(err)

	_, err = p2p.New(log, p2p.Options{PrivateKey: key, ListenAddrs: []string{"not-a-multiaddr"}})
	req.Error(err)

	_, err = p2p.New(log, p2p.Options{PrivateKey: key, StaticPeers: []string{"/ip4/127.0.0.1/tcp/4001"}})
	req.Error(err)
}
