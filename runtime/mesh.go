package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/domain/event"
	"village-chat/errors"
	"village-chat/projection"
	"village-chat/wire"

	"github.com/samber/lo"
)

// Mesh is the single logical owner of the registry, the sessions and the transcript.
// Transport callbacks (through Handle) and user commands are serialized by mu.
type Mesh struct {
	mu         sync.Mutex
	log        *slog.Logger
	transport  contract.Transport
	registry   *Registry
	transcript *projection.Transcript
	publisher  contract.Publisher
	localName  string
	running    bool
	now        func() time.Time

	statusMu sync.RWMutex
	status   string
}

func NewMesh(log *slog.Logger, transport contract.Transport, registry *Registry,
	transcript *projection.Transcript, publisher contract.Publisher) *Mesh {
	return &Mesh{
		log:        log,
		transport:  transport,
		registry:   registry,
		transcript: transcript,
		publisher:  publisher,
		status:     domain.StatusReady,
		now:        time.Now,
	}
}

// Start advertises and/or discovers depending on the mode.
// Failures only show up in the status line; nothing is retried.
func (m *Mesh) Start(ctx context.Context, mode domain.Mode, localName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.localName = localName
	m.running = true

	if mode.Advertises() {
		if err := m.transport.Advertise(ctx, localName); err != nil {
			m.log.Warn("Advertising failed", "error", err)
			m.setStatus(domain.StatusAdvertisingError(err))
		} else {
			m.setStatus(domain.StatusAdvertising)
		}
	}
	if mode.Discovers() {
		if err := m.transport.Discover(ctx); err != nil {
			m.log.Warn("Discovery failed", "error", err)
			m.setStatus(domain.StatusDiscoveryError(err))
		} else {
			m.setStatus(domain.StatusDiscovering)
		}
	}
}

// Handle applies one transport callback. Callbacks arriving while the mesh is
// stopped are ignored so a late discovery cannot trigger a new connection.
func (m *Mesh) Handle(ctx context.Context, e event.TransportEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		m.log.Debug("Mesh stopped, ignoring transport event", "endpoint", e.EndpointID(), "event", fmt.Sprintf("%T", e))
		return
	}

	switch ev := e.(type) {
	case event.EndpointDiscovered:
		m.onDiscovered(ctx, ev.ID, ev.Name)
	case event.EndpointLost:
		m.log.Debug("Endpoint lost", "endpoint", ev.ID)
	case event.ConnectionInitiated:
		m.onInitiated(ctx, ev.ID, ev.Name)
	case event.ConnectionResult:
		m.onConnectionResult(ev.ID, ev.Err)
	case event.EndpointDisconnected:
		m.onDisconnected(ev.ID)
	case event.PayloadReceived:
		m.receive(ev.ID, ev.Payload)
	default:
		m.log.Warn("Unknown transport event", "type", fmt.Sprintf("%T", e))
	}
}

func (m *Mesh) onDiscovered(ctx context.Context, endpointID, name string) {
	if !m.registry.OnDiscovered(endpointID, name) {
		m.log.Debug("Endpoint already known", "endpoint", endpointID)
		return
	}
	m.log.Info("Endpoint discovered", "endpoint", endpointID, "name", name)
	m.publishSession(endpointID, domain.Discovered, domain.Discovered)

	if _, err := m.registry.Transition(endpointID, domain.Connecting); err != nil {
		m.log.Warn("Cannot move session to connecting", "endpoint", endpointID, "error", err)
		return
	}
	m.publishSession(endpointID, domain.Discovered, domain.Connecting)

	if err := m.transport.Connect(ctx, endpointID); err != nil {
		m.failConnection(endpointID, fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err))
	}
}

// onInitiated records the remote's advertised name and accepts without asking.
func (m *Mesh) onInitiated(ctx context.Context, endpointID, name string) {
	session, created := m.registry.OnInitiated(endpointID, name)
	if created {
		m.log.Info("Inbound connection", "endpoint", endpointID, "name", name)
		m.publishSession(endpointID, domain.Discovered, session.State)
	}
	if err := m.transport.Accept(ctx, endpointID); err != nil {
		m.failConnection(endpointID, fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err))
	}
}

func (m *Mesh) onConnectionResult(endpointID string, cause error) {
	if cause != nil {
		m.failConnection(endpointID, cause)
		return
	}

	previous, _ := m.registry.Session(endpointID)
	ep, err := m.registry.OnConnected(endpointID)
	switch {
	case errors.Is(err, errors.ErrUnknownPeer):
		m.log.Warn("Connected to an endpoint that was never registered", "endpoint", endpointID)
	case err != nil:
		m.log.Warn("Ignoring connection result", "endpoint", endpointID, "error", err)
		return
	}

	m.log.Info("Connected", "endpoint", endpointID, "name", ep.Name())
	m.publishSession(endpointID, previous.State, domain.Connected)
	m.appendSystem(domain.SystemConnectedTo(ep.Name()))
	m.setStatus(domain.StatusConnectedTo(ep.Name()))
}

func (m *Mesh) failConnection(endpointID string, cause error) {
	name := m.registry.Name(endpointID)
	m.log.Warn("Connection failed", "endpoint", endpointID, "error", cause)

	previous, known := m.registry.Session(endpointID)
	if _, _, ok := m.registry.OnDisconnected(endpointID); ok && known {
		m.publishSession(endpointID, previous.State, domain.Disconnected)
	}
	m.appendSystem(domain.SystemConnectionFailed(name))
}

func (m *Mesh) onDisconnected(endpointID string) {
	previous, _ := m.registry.Session(endpointID)
	ep, _, ok := m.registry.OnDisconnected(endpointID)
	if !ok {
		m.log.Debug("Disconnect for unknown endpoint", "endpoint", endpointID)
		return
	}
	m.log.Info("Disconnected", "endpoint", endpointID, "name", ep.Name())
	m.publishSessionNamed(endpointID, ep.Name(), previous.State, domain.Disconnected)
	m.appendSystem(domain.SystemDisconnectedFrom(ep.Name()))
}

// Broadcast sends text to every Connected endpoint, then appends it as "Me".
// Send failures are reported, never retried, and the local entry is appended regardless.
// Sends run outside mu so a stalled peer never holds up callbacks or StopAll.
// It returns the number of recipients.
func (m *Mesh) Broadcast(ctx context.Context, text string) int {
	m.mu.Lock()
	payload := wire.EncodeText(text)
	recipients := m.registry.ActiveEndpoints()
	m.mu.Unlock()

	for _, id := range recipients {
		if err := m.transport.Send(ctx, id, payload); err != nil {
			err = fmt.Errorf("%w: %w", errors.ErrSendFailed, err)
			m.log.Warn("Send failed", "endpoint", id, "error", err)
			m.publisher.Publish(event.SendFailed{EndpointID: id, Err: err, At: m.now()})
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.append(domain.SenderMe, text)
	return len(recipients)
}

// Receive decodes an inbound payload and appends it under the sender's display name.
func (m *Mesh) Receive(endpointID string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receive(endpointID, payload)
}

func (m *Mesh) receive(endpointID string, payload []byte) {
	text, err := wire.DecodeText(payload)
	if err != nil {
		m.log.Warn("Dropping payload", "endpoint", endpointID, "size", len(payload), "error", err)
		m.publisher.Publish(event.PayloadDropped{
			EndpointID: endpointID,
			Size:       len(payload),
			Reason:     err.Error(),
			At:         m.now(),
		})
		return
	}
	m.append(m.registry.Name(endpointID), text)
}

// StopAll stops advertising and discovery, disconnects every endpoint and clears the registry.
// Calling it again leaves the same state. In-flight sends are not awaited.
func (m *Mesh) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	m.transport.StopAdvertising()
	m.transport.StopDiscovery()
	m.transport.DisconnectAll()

	before := lo.KeyBy(m.registry.Peers(), func(p domain.PeerView) string { return p.EndpointID })
	for _, session := range m.registry.Clear() {
		p := before[session.EndpointID]
		m.publishSessionNamed(session.EndpointID, p.DisplayName, p.State, domain.Disconnected)
	}
	m.setStatus(domain.StatusStopped)
}

func (m *Mesh) Status() string {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

func (m *Mesh) Transcript() []domain.Message { return m.transcript.Snapshot() }

func (m *Mesh) Peers() []domain.PeerView { return m.registry.Peers() }

func (m *Mesh) ActiveEndpoints() []string { return m.registry.ActiveEndpoints() }

func (m *Mesh) LocalName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localName
}

func (m *Mesh) setStatus(status string) {
	m.statusMu.Lock()
	changed := m.status != status
	m.status = status
	m.statusMu.Unlock()

	if changed {
		m.publisher.Publish(event.StatusChanged{Status: status, At: m.now()})
	}
}

func (m *Mesh) append(sender, text string) {
	msg := m.transcript.Append(sender, text)
	m.publisher.Publish(event.MessageAppended{Message: msg})
}

func (m *Mesh) appendSystem(text string) {
	m.append(domain.SenderSystem, text)
}

func (m *Mesh) publishSession(endpointID string, from, to domain.SessionState) {
	m.publishSessionNamed(endpointID, m.registry.Name(endpointID), from, to)
}

func (m *Mesh) publishSessionNamed(endpointID, name string, from, to domain.SessionState) {
	m.publisher.Publish(event.SessionChanged{
		EndpointID:  endpointID,
		DisplayName: name,
		From:        from,
		To:          to,
		At:          m.now(),
	})
}
