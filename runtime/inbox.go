package runtime

import (
	"bytes"
	"sync"

	"village-chat/contract"
	"village-chat/domain/event"
)

var _ contract.TransportHandler = (*Inbox)(nil)

// Inbox is the unbounded FIFO between transport goroutines and the event loop.
// Every callback only enqueues, so a transport is never blocked by the mesh.
type Inbox struct {
	mu    sync.Mutex
	queue []event.TransportEvent
	ready chan struct{}
}

func NewInbox() *Inbox {
	return &Inbox{ready: make(chan struct{}, 1)}
}

func (i *Inbox) push(e event.TransportEvent) {
	i.mu.Lock()
	i.queue = append(i.queue, e)
	i.mu.Unlock()

	select {
	case i.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled at least once after any push.
func (i *Inbox) Ready() <-chan struct{} { return i.ready }

// Pop removes the oldest event.
func (i *Inbox) Pop() (event.TransportEvent, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.queue) == 0 {
		return nil, false
	}
	e := i.queue[0]
	i.queue[0] = nil
	i.queue = i.queue[1:]
	return e, true
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.queue)
}

func (i *Inbox) OnEndpointDiscovered(endpointID, name string) {
	i.push(event.EndpointDiscovered{ID: endpointID, Name: name})
}

func (i *Inbox) OnEndpointLost(endpointID string) {
	i.push(event.EndpointLost{ID: endpointID})
}

func (i *Inbox) OnConnectionInitiated(endpointID, name string) {
	i.push(event.ConnectionInitiated{ID: endpointID, Name: name})
}

func (i *Inbox) OnConnectionResult(endpointID string, err error) {
	i.push(event.ConnectionResult{ID: endpointID, Err: err})
}

func (i *Inbox) OnDisconnected(endpointID string) {
	i.push(event.EndpointDisconnected{ID: endpointID})
}

// OnPayloadReceived copies the payload: transports may reuse their read buffer.
func (i *Inbox) OnPayloadReceived(endpointID string, payload []byte) {
	i.push(event.PayloadReceived{ID: endpointID, Payload: bytes.Clone(payload)})
}
