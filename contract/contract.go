//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"village-chat/domain"
	"village-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Publisher must never block the caller.
type Publisher interface {
	Publish(e event.DomainEvent)
}

// TransportHandler is the single handler set a transport reports to,
// one method per callback. Implementations must return quickly.
type TransportHandler interface {
	OnEndpointDiscovered(endpointID, name string)
	OnEndpointLost(endpointID string)
	OnConnectionInitiated(endpointID, name string)
	OnConnectionResult(endpointID string, err error)
	OnDisconnected(endpointID string)
	OnPayloadReceived(endpointID string, payload []byte)
}

// Transport abstracts presence, discovery and byte exchange over a physical layer.
// Connect and Accept only start the negotiation; the outcome arrives through
// TransportHandler.OnConnectionResult.
type Transport interface {
	SetHandler(handler TransportHandler)
	Advertise(ctx context.Context, localName string) error
	Discover(ctx context.Context) error
	Connect(ctx context.Context, endpointID string) error
	Accept(ctx context.Context, endpointID string) error
	Send(ctx context.Context, endpointID string, payload []byte) error
	StopAdvertising()
	StopDiscovery()
	DisconnectAll()
	Close() error
}

// Signaler is implemented by transports that need an out-of-band exchange of
// session descriptions. Blobs are opaque to the caller.
type Signaler interface {
	Offer(ctx context.Context) (string, error)
	Answer(ctx context.Context, offer string) (string, error)
	Complete(ctx context.Context, answer string) error
}

// IOrchestrator is the rendering boundary: read-only accessors plus the user commands.
// Stop leaves the node idle; Rejoin starts advertising and discovery again.
type IOrchestrator interface {
	Status() string
	Transcript() []domain.Message
	Peers() []domain.PeerView
	LocalName() string
	Subscribe(sink EventSink)
	SendText(ctx context.Context, text string) error
	Stop()
	Rejoin(ctx context.Context)
	Signaler() (Signaler, bool)
}
