package workers

import (
	"context"
	"log/slog"

	"village-chat/contract"
	"village-chat/domain/event"
)

var _ contract.Worker = (*EventLoopWorker)(nil)

type TransportEventSource interface {
	Ready() <-chan struct{}
	Pop() (event.TransportEvent, bool)
}

type TransportEventHandler interface {
	Handle(ctx context.Context, e event.TransportEvent)
}

// EventLoopWorker applies transport callbacks one at a time, in arrival order.
// If the handler panics only the event being handled is lost.
type EventLoopWorker struct {
	log     *slog.Logger
	source  TransportEventSource
	handler TransportEventHandler
}

func NewEventLoopWorker(log *slog.Logger, source TransportEventSource, handler TransportEventHandler) *EventLoopWorker {
	return &EventLoopWorker{log: log, source: source, handler: handler}
}

func (w *EventLoopWorker) Run(ctx context.Context) error {
	// Events queued before a restart are still pending
	w.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping event loop")
			return nil
		case <-w.source.Ready():
			w.drain(ctx)
		}
	}
}

func (w *EventLoopWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		e, ok := w.source.Pop()
		if !ok {
			return
		}
		w.handler.Handle(ctx, e)
	}
}
