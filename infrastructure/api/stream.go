package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/domain/event"

	"github.com/gorilla/websocket"
)

var _ contract.EventSink = (*Stream)(nil)

const (
	clientBuffer = 64
	writeWait    = 5 * time.Second
)

// Envelope is one WebSocket frame pushed to renderers.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Snapshot is sent first on every new connection.
type Snapshot struct {
	Name       string            `json:"name"`
	Status     string            `json:"status"`
	Transcript []domain.Message  `json:"transcript"`
	Peers      []domain.PeerView `json:"peers"`
}

// InboundMessage is what a WebSocket client sends to broadcast a line.
type InboundMessage struct {
	Text string `json:"text"`
}

type client struct {
	conn *websocket.Conn
	send chan Envelope
}

// Stream pushes transcript, status and peer changes to WebSocket clients.
// A message appended while a client connects may show up both in its snapshot
// and as an event; clients dedupe on seq.
type Stream struct {
	mu           sync.Mutex
	log          *slog.Logger
	orchestrator contract.IOrchestrator
	upgrader     websocket.Upgrader
	clients      map[*client]struct{}
}

func NewStream(log *slog.Logger, orchestrator contract.IOrchestrator) *Stream {
	return &Stream{
		log:          log,
		orchestrator: orchestrator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Consume forwards renderer-facing events. A client whose buffer is full is dropped.
func (s *Stream) Consume(_ context.Context, e event.DomainEvent) error {
	var env Envelope
	switch ev := e.(type) {
	case event.MessageAppended:
		env = Envelope{Type: e.Name(), Data: ev.Message}
	case event.StatusChanged:
		env = Envelope{Type: e.Name(), Data: map[string]string{"status": ev.Status}}
	case event.SessionChanged:
		env = Envelope{Type: e.Name(), Data: domain.PeerView{
			EndpointID:  ev.EndpointID,
			DisplayName: ev.DisplayName,
			State:       ev.To,
			Since:       ev.At,
		}}
	default:
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- env:
		default:
			s.log.Warn("WebSocket client too slow, dropping it")
			s.remove(c)
		}
	}
	return nil
}

// ServeHTTP upgrades the connection, sends the snapshot then streams events.
// Text frames received from the client are broadcast as chat lines.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan Envelope, clientBuffer)}

	s.mu.Lock()
	c.send <- Envelope{Type: "Snapshot", Data: Snapshot{
		Name:       s.orchestrator.LocalName(),
		Status:     s.orchestrator.Status(),
		Transcript: s.orchestrator.Transcript(),
		Peers:      s.orchestrator.Peers(),
	}}
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Debug("WebSocket client connected", "remote", r.RemoteAddr)

	go s.writeLoop(c)
	s.readLoop(r.Context(), c)
}

// Len returns the number of connected clients.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.remove(c)
	}
}

func (s *Stream) readLoop(ctx context.Context, c *client) {
	defer func() {
		s.mu.Lock()
		s.remove(c)
		s.mu.Unlock()
	}()
	for {
		var in InboundMessage
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("WebSocket read failed", "error", err)
			}
			return
		}
		if err := s.orchestrator.SendText(context.WithoutCancel(ctx), in.Text); err != nil {
			s.log.Debug("WebSocket message rejected", "error", err)
		}
	}
}

func (s *Stream) writeLoop(c *client) {
	defer c.conn.Close()
	for env := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(env); err != nil {
			s.log.Debug("WebSocket write failed", "error", err)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// remove must be called with mu held.
func (s *Stream) remove(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}
