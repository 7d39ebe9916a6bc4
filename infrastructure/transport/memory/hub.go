// Package memory connects transports living in the same process.
// It follows the callback order of a radio mesh: both sides see the connection
// initiated, both must accept, then both receive the result.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"village-chat/contract"
	"village-chat/errors"
)

type pairKey struct{ a, b string }

func keyOf(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

type link struct {
	accepted  map[string]bool
	connected bool
}

// Hub is the shared medium. All state lives behind one mutex and callbacks are
// dispatched after it is released.
type Hub struct {
	mu      sync.Mutex
	nodes   map[string]*Transport
	links   map[pairKey]*link
	refused map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		nodes:   make(map[string]*Transport),
		links:   make(map[pairKey]*link),
		refused: make(map[string]struct{}),
	}
}

// NewTransport attaches a node with the given endpoint id.
func (h *Hub) NewTransport(endpointID string) *Transport {
	t := &Transport{hub: h, id: endpointID, handler: discard{}}
	h.mu.Lock()
	h.nodes[endpointID] = t
	h.mu.Unlock()
	return t
}

// Refuse makes every later connection attempt involving the endpoint fail.
func (h *Hub) Refuse(endpointID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refused[endpointID] = struct{}{}
}

var _ contract.Transport = (*Transport)(nil)

type Transport struct {
	hub *Hub
	id  string

	// guarded by hub.mu
	handler     contract.TransportHandler
	name        string
	advertising bool
	discovering bool
	closed      bool
}

func (t *Transport) ID() string { return t.id }

func (t *Transport) SetHandler(handler contract.TransportHandler) {
	t.hub.mu.Lock()
	defer t.hub.mu.Unlock()
	if handler == nil {
		handler = discard{}
	}
	t.handler = handler
}

func (t *Transport) Advertise(_ context.Context, localName string) error {
	var calls []func()
	t.hub.mu.Lock()
	if t.closed {
		t.hub.mu.Unlock()
		return errors.ErrTransportClosed
	}
	t.name = localName
	t.advertising = true
	for _, other := range t.hub.nodes {
		if other != t && other.discovering {
			calls = append(calls, discovered(other.handler, t.id, localName))
		}
	}
	t.hub.mu.Unlock()

	run(calls)
	return nil
}

func (t *Transport) Discover(_ context.Context) error {
	var calls []func()
	t.hub.mu.Lock()
	if t.closed {
		t.hub.mu.Unlock()
		return errors.ErrTransportClosed
	}
	t.discovering = true
	for _, other := range t.hub.nodes {
		if other != t && other.advertising {
			calls = append(calls, discovered(t.handler, other.id, other.name))
		}
	}
	t.hub.mu.Unlock()

	run(calls)
	return nil
}

func (t *Transport) Connect(_ context.Context, endpointID string) error {
	var calls []func()
	t.hub.mu.Lock()
	remote, ok := t.hub.nodes[endpointID]
	switch {
	case t.closed:
		t.hub.mu.Unlock()
		return errors.ErrTransportClosed
	case !ok || remote.closed || !remote.advertising:
		t.hub.mu.Unlock()
		return fmt.Errorf("%w: %s is not reachable", errors.ErrConnectionFailed, endpointID)
	}

	key := keyOf(t.id, endpointID)
	_, refusedLocal := t.hub.refused[t.id]
	_, refusedRemote := t.hub.refused[endpointID]
	if refusedLocal || refusedRemote {
		handler := t.handler
		calls = append(calls, func() {
			handler.OnConnectionResult(endpointID, fmt.Errorf("%w: refused by %s", errors.ErrConnectionFailed, endpointID))
		})
	} else if _, pending := t.hub.links[key]; !pending {
		// a simultaneous dial from the other side joins the same negotiation
		t.hub.links[key] = &link{accepted: make(map[string]bool)}
		localHandler, remoteHandler := t.handler, remote.handler
		localName, remoteName := t.name, remote.name
		calls = append(calls,
			func() { localHandler.OnConnectionInitiated(endpointID, remoteName) },
			func() { remoteHandler.OnConnectionInitiated(t.id, localName) },
		)
	}
	t.hub.mu.Unlock()

	run(calls)
	return nil
}

func (t *Transport) Accept(_ context.Context, endpointID string) error {
	var calls []func()
	t.hub.mu.Lock()
	l, ok := t.hub.links[keyOf(t.id, endpointID)]
	if !ok {
		t.hub.mu.Unlock()
		return fmt.Errorf("%w: no pending connection with %s", errors.ErrNotConnected, endpointID)
	}
	l.accepted[t.id] = true
	if !l.connected && l.accepted[endpointID] {
		l.connected = true
		remote := t.hub.nodes[endpointID]
		localHandler, remoteHandler := t.handler, remote.handler
		calls = append(calls,
			func() { localHandler.OnConnectionResult(endpointID, nil) },
			func() { remoteHandler.OnConnectionResult(t.id, nil) },
		)
	}
	t.hub.mu.Unlock()

	run(calls)
	return nil
}

func (t *Transport) Send(_ context.Context, endpointID string, payload []byte) error {
	t.hub.mu.Lock()
	l, ok := t.hub.links[keyOf(t.id, endpointID)]
	if !ok || !l.connected {
		t.hub.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrNotConnected, endpointID)
	}
	handler := t.hub.nodes[endpointID].handler
	t.hub.mu.Unlock()

	handler.OnPayloadReceived(t.id, bytes.Clone(payload))
	return nil
}

func (t *Transport) StopAdvertising() {
	var calls []func()
	t.hub.mu.Lock()
	if t.advertising {
		t.advertising = false
		for _, other := range t.hub.nodes {
			if other != t && other.discovering {
				handler := other.handler
				calls = append(calls, func() { handler.OnEndpointLost(t.id) })
			}
		}
	}
	t.hub.mu.Unlock()
	run(calls)
}

func (t *Transport) StopDiscovery() {
	t.hub.mu.Lock()
	defer t.hub.mu.Unlock()
	t.discovering = false
}

// DisconnectAll drops every link of this node. Only the remote side is notified.
func (t *Transport) DisconnectAll() {
	t.hub.mu.Lock()
	calls := t.disconnectAllLocked()
	t.hub.mu.Unlock()
	run(calls)
}

func (t *Transport) disconnectAllLocked() []func() {
	var calls []func()
	for key := range t.hub.links {
		if key.a != t.id && key.b != t.id {
			continue
		}
		delete(t.hub.links, key)
		remoteID := key.a
		if remoteID == t.id {
			remoteID = key.b
		}
		if remote, ok := t.hub.nodes[remoteID]; ok {
			handler := remote.handler
			calls = append(calls, func() { handler.OnDisconnected(t.id) })
		}
	}
	return calls
}

// Close detaches the node from the hub.
func (t *Transport) Close() error {
	t.hub.mu.Lock()
	calls := t.disconnectAllLocked()
	t.advertising = false
	t.discovering = false
	t.closed = true
	delete(t.hub.nodes, t.id)
	t.hub.mu.Unlock()
	run(calls)
	return nil
}

func discovered(handler contract.TransportHandler, endpointID, name string) func() {
	return func() { handler.OnEndpointDiscovered(endpointID, name) }
}

func run(calls []func()) {
	for _, call := range calls {
		call()
	}
}

type discard struct{}

func (discard) OnEndpointDiscovered(string, string)  {}
func (discard) OnEndpointLost(string)                {}
func (discard) OnConnectionInitiated(string, string) {}
func (discard) OnConnectionResult(string, error)     {}
func (discard) OnDisconnected(string)                {}
func (discard) OnPayloadReceived(string, []byte)     {}
