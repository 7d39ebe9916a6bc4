package runtime_test

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/domain/event"
	"village-chat/errors"
	"village-chat/infrastructure/transport/memory"
	"village-chat/runtime"
	"village-chat/runtime/workers"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type RecordingSink struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (s *RecordingSink) Consume(_ context.Context, e event.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *RecordingSink) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.FilterMap(s.events, func(e event.DomainEvent, _ int) (domain.Message, bool) {
		appended, ok := e.(event.MessageAppended)
		return appended.Message, ok
	})
}

func newOrchestrator(hub *memory.Hub, id, name string) *runtime.Orchestrator {
	log := logs.GetLoggerFromLevel(slog.LevelDebug).With("node", name)
	supervisor := workers.NewSupervisor(log, 50*time.Millisecond)
	return runtime.NewOrchestrator(log, supervisor, hub.NewTransport(id), name, domain.ModeBoth, 64, time.Second, 20)
}

func start(t *testing.T, o *runtime.Orchestrator) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func hasLine(o *runtime.Orchestrator, sender, text string) bool {
	return lo.ContainsBy(o.Transcript(), func(m domain.Message) bool {
		return m.Sender == sender && m.Text == text
	})
}

func connectedPair(t *testing.T) (*runtime.Orchestrator, *runtime.Orchestrator) {
	req := require.New(t)
	hub := memory.NewHub()
	alice := newOrchestrator(hub, "node-a", "Alice")
	bob := newOrchestrator(hub, "node-b", "Bob")
	start(t, alice)
	start(t, bob)

	req.Eventually(func() bool {
		return hasLine(alice, domain.SenderSystem, "Connected to Bob") &&
			hasLine(bob, domain.SenderSystem, "Connected to Alice")
	}, waitFor, tick)
	return alice, bob
}

func TestOrchestrator_Nodes_AutoConnect_And_Chat(t *testing.T) {
	req := require.New(t)
	alice, bob := connectedPair(t)
	sink := &RecordingSink{}
	bob.Subscribe(sink)

	// Then each side shows exactly one connection entry
	req.Len(lo.Filter(alice.Transcript(), func(m domain.Message, _ int) bool { return m.IsSystem() }), 1)
	req.Equal("Connected to Bob", alice.Status())
	req.Len(alice.Peers(), 1)
	req.Equal(domain.Connected, alice.Peers()[0].State)

	// When Alice sends a line
	req.NoError(alice.SendText(context.Background(), "hello"))

	// Then Alice shows it as her own and Bob under her name
	req.True(hasLine(alice, domain.SenderMe, "hello"))
	req.Eventually(func() bool { return hasLine(bob, "Alice", "hello") }, waitFor, tick)
	req.Eventually(func() bool {
		return lo.ContainsBy(sink.Messages(), func(m domain.Message) bool { return m.Text == "hello" })
	}, waitFor, tick)
}

func TestOrchestrator_SendText_Validation(t *testing.T) {
	req := require.New(t)
	hub := memory.NewHub()
	alice := newOrchestrator(hub, "node-a", "Alice")

	req.ErrorIs(alice.SendText(context.Background(), ""), errors.ErrBlankMessage)
	req.ErrorIs(alice.SendText(context.Background(), "  \t\n"), errors.ErrBlankMessage)
	req.ErrorIs(alice.SendText(context.Background(), strings.Repeat("é", 21)), errors.ErrMessageTooLong)
	req.Empty(alice.Transcript())

	// Alone, text is still recorded locally
	req.NoError(alice.SendText(context.Background(), strings.Repeat("é", 20)))
	req.Len(alice.Transcript(), 1)
}

func TestOrchestrator_Stop_And_Rejoin(t *testing.T) {
	req := require.New(t)
	alice, bob := connectedPair(t)

	// When Alice stops
	alice.Stop()
	alice.Stop()

	// Then she is idle and Bob sees her leave
	req.Equal(domain.StatusStopped, alice.Status())
	req.Empty(alice.Peers())
	req.Eventually(func() bool { return hasLine(bob, domain.SenderSystem, "Disconnected from Alice") }, waitFor, tick)

	// When she rejoins, the nodes find each other again
	alice.Rejoin(context.Background())
	req.Eventually(func() bool {
		return len(lo.Filter(bob.Transcript(), func(m domain.Message, _ int) bool {
			return m.Sender == domain.SenderSystem && m.Text == "Connected to Alice"
		})) == 2
	}, waitFor, tick)
}

func TestOrchestrator_Signaler_Unsupported_On_Memory(t *testing.T) {
	req := require.New(t)
	alice := newOrchestrator(memory.NewHub(), "node-a", "Alice")

	_, ok := alice.Signaler()

	req.False(ok)
	req.Equal("Alice", alice.LocalName())
	req.Equal(domain.StatusReady, alice.Status())
}

func TestOrchestrator_Start_Twice(t *testing.T) {
	req := require.New(t)
	alice := newOrchestrator(memory.NewHub(), "node-a", "Alice")
	start(t, alice)

	// The running orchestrator rejects a second start at once
	req.Eventually(func() bool { return alice.Status() != domain.StatusReady }, waitFor, tick)
	req.ErrorIs(alice.Start(context.Background()), errors.ErrAlreadyStarted)
}
