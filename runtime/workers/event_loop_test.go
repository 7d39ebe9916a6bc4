package workers

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"village-chat/domain/event"

	"github.com/stretchr/testify/require"
)

type queueSource struct {
	mu    sync.Mutex
	queue []event.TransportEvent
	ready chan struct{}
}

func newQueueSource() *queueSource {
	return &queueSource{ready: make(chan struct{}, 1)}
}

func (q *queueSource) push(e event.TransportEvent) {
	q.mu.Lock()
	q.queue = append(q.queue, e)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queueSource) Ready() <-chan struct{} { return q.ready }

func (q *queueSource) Pop() (event.TransportEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return nil, false
	}
	e := q.queue[0]
	q.queue = q.queue[1:]
	return e, true
}

type handlerFunc func(ctx context.Context, e event.TransportEvent)

func (f handlerFunc) Handle(ctx context.Context, e event.TransportEvent) { f(ctx, e) }

func TestEventLoopWorker_Handles_In_Order(t *testing.T) {
	req := require.New(t)
	source := newQueueSource()
	handled := make(chan string, 10)
	worker := NewEventLoopWorker(slog.Default(), source, handlerFunc(func(_ context.Context, e event.TransportEvent) {
		handled <- e.EndpointID()
	}))

	// Given an event queued before the loop starts
	source.push(event.EndpointDiscovered{ID: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- worker.Run(ctx) }()

	source.push(event.EndpointDiscovered{ID: "b"})
	source.push(event.EndpointDiscovered{ID: "c"})

	var got []string
	for i := 0; i < 3; i++ {
		select {
		case id := <-handled:
			got = append(got, id)
		case <-time.After(time.Second):
			req.FailNow("event not handled")
		}
	}
	req.Equal([]string{"a", "b", "c"}, got)

	// When the context ends, the loop returns cleanly
	cancel()
	req.NoError(<-done)
}

func TestEventLoopWorker_Panic_Loses_Only_Current_Event(t *testing.T) {
	req := require.New(t)
	source := newQueueSource()
	handled := make(chan string, 10)
	worker := NewEventLoopWorker(slog.Default(), source, handlerFunc(func(_ context.Context, e event.TransportEvent) {
		if e.EndpointID() == "bad" {
			panic("boom")
		}
		handled <- e.EndpointID()
	}))
	source.push(event.EndpointDiscovered{ID: "bad"})
	source.push(event.EndpointDiscovered{ID: "good"})

	// Given the supervisor restarts the loop after the panic
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sup.Add(worker).Run(ctx)

	select {
	case id := <-handled:
		req.Equal("good", id)
	case <-time.After(time.Second):
		req.Fail("event after the panic was lost")
	}
}
