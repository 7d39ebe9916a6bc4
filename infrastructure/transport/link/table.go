// Package link manages the stream-based links shared by the libp2p and QUIC
// transports: hello handshake, simultaneous-dial resolution, read loops and sends.
//
// Every link starts with a hello frame in each direction carrying the display name.
// When both nodes dial each other, the stream opened by the node with the smaller
// id is kept; the other node drops its own dial as soon as the winning stream arrives.
package link

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"village-chat/contract"
	"village-chat/errors"
	"village-chat/wire"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	// DefaultWriteTimeout bounds a send whose context carries no deadline.
	DefaultWriteTimeout = 10 * time.Second
)

// Stream is one bidirectional byte stream. Close must abort both directions.
type Stream interface {
	io.ReadWriteCloser
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Opener opens the outbound stream of a dial.
type Opener func(ctx context.Context) (Stream, error)

type link struct {
	id        string
	outbound  bool
	connected bool
	stream    Stream
	cancel    context.CancelFunc
	wmu       sync.Mutex
}

type Table struct {
	mu               sync.Mutex
	log              *slog.Logger
	localID          string
	localName        string
	handler          contract.TransportHandler
	links            map[string]*link
	closed           bool
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

func NewTable(log *slog.Logger, localID, localName string) *Table {
	return &Table{
		log:              log,
		localID:          localID,
		localName:        localName,
		handler:          discard{},
		links:            make(map[string]*link),
		HandshakeTimeout: DefaultHandshakeTimeout,
		WriteTimeout:     DefaultWriteTimeout,
	}
}

func (t *Table) SetHandler(handler contract.TransportHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

func (t *Table) SetLocalName(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.localName = name
}

func (t *Table) LocalID() string { return t.localID }

// Dial starts an outbound link. It is a no-op when a link to id already exists.
// The outcome is reported through OnConnectionResult.
func (t *Table) Dial(ctx context.Context, id string, open Opener) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return errors.ErrTransportClosed
	}
	if _, ok := t.links[id]; ok {
		t.mu.Unlock()
		return nil
	}
	dialCtx, cancel := context.WithCancel(ctx)
	l := &link{id: id, outbound: true, cancel: cancel}
	t.links[id] = l
	t.mu.Unlock()

	go t.dial(dialCtx, l, open)
	return nil
}

func (t *Table) dial(ctx context.Context, l *link, open Opener) {
	s, err := open(ctx)
	if err != nil {
		t.fail(l, err)
		return
	}

	t.mu.Lock()
	if t.links[l.id] != l {
		t.mu.Unlock()
		_ = s.Close()
		return
	}
	l.stream = s
	name := t.localName
	t.mu.Unlock()

	timer := time.AfterFunc(t.HandshakeTimeout, func() { _ = s.Close() })
	remoteName, err := exchangeHello(s, name)
	timer.Stop()
	if err != nil {
		_ = s.Close()
		t.fail(l, err)
		return
	}

	t.mu.Lock()
	if t.links[l.id] != l {
		t.mu.Unlock()
		_ = s.Close()
		return
	}
	l.connected = true
	handler := t.handler
	t.mu.Unlock()

	t.log.Debug("Outbound link ready", "endpoint", l.id, "name", remoteName)
	handler.OnConnectionInitiated(l.id, remoteName)
	handler.OnConnectionResult(l.id, nil)
	t.readLoop(l)
}

// fail reports a dial failure unless the link was superseded or removed meanwhile.
func (t *Table) fail(l *link, cause error) {
	t.mu.Lock()
	if t.links[l.id] != l {
		t.mu.Unlock()
		t.log.Debug("Superseded dial ended", "endpoint", l.id, "error", cause)
		return
	}
	delete(t.links, l.id)
	handler := t.handler
	t.mu.Unlock()

	handler.OnConnectionResult(l.id, fmt.Errorf("%w: %w", errors.ErrConnectionFailed, cause))
}

// Inbound takes over a stream opened by the remote node id. It blocks until the
// remote hello arrives, then reports OnConnectionInitiated and waits for Accept.
func (t *Table) Inbound(id string, s Stream) {
	remoteName, err := t.readHello(s)
	if err != nil {
		t.log.Debug("Inbound hello failed", "endpoint", id, "error", err)
		_ = s.Close()
		return
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		_ = s.Close()
		return
	}
	if existing, ok := t.links[id]; ok {
		if !existing.outbound || existing.connected || t.localID < id {
			t.mu.Unlock()
			t.log.Debug("Keeping existing link", "endpoint", id)
			go drain(s)
			return
		}
		t.log.Debug("Remote dial wins, dropping ours", "endpoint", id)
		existing.cancel()
		if existing.stream != nil {
			_ = existing.stream.Close()
		}
	}
	t.links[id] = &link{id: id, stream: s, cancel: func() {}}
	handler := t.handler
	t.mu.Unlock()

	handler.OnConnectionInitiated(id, remoteName)
}

// Accept answers an inbound link with the local hello. Accepting an outbound or
// already connected link is a no-op.
func (t *Table) Accept(_ context.Context, id string) error {
	t.mu.Lock()
	l, ok := t.links[id]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrNotConnected, id)
	}
	if l.outbound || l.connected {
		t.mu.Unlock()
		return nil
	}
	l.connected = true
	name := t.localName
	handler := t.handler
	t.mu.Unlock()

	l.wmu.Lock()
	err := wire.WriteFrame(l.stream, wire.Hello(name))
	l.wmu.Unlock()
	if err != nil {
		t.remove(l)
		_ = l.stream.Close()
		return fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}

	handler.OnConnectionResult(id, nil)
	go t.readLoop(l)
	return nil
}

func (t *Table) Send(ctx context.Context, id string, payload []byte) error {
	t.mu.Lock()
	l, ok := t.links[id]
	ready := ok && l.connected
	t.mu.Unlock()
	if !ready {
		return fmt.Errorf("%w: %s", errors.ErrNotConnected, id)
	}

	l.wmu.Lock()
	defer l.wmu.Unlock()
	if wd, ok := l.stream.(writeDeadliner); ok {
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(t.WriteTimeout)
		}
		_ = wd.SetWriteDeadline(deadline)
	}
	if err := wire.WriteFrame(l.stream, wire.Text(payload)); err != nil {
		// A partial frame leaves the stream unusable; the read loop reports the disconnect.
		_ = l.stream.Close()
		return err
	}
	return nil
}

// Connected reports whether a handshaken link to id exists.
func (t *Table) Connected(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.links[id]
	return ok && l.connected
}

// DisconnectAll closes every link. Only remote nodes are notified, through their read loops.
func (t *Table) DisconnectAll() {
	t.mu.Lock()
	links := t.links
	t.links = make(map[string]*link)
	t.mu.Unlock()

	for _, l := range links {
		l.cancel()
		if l.stream != nil {
			_ = l.stream.Close()
		}
	}
}

func (t *Table) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.DisconnectAll()
}

func (t *Table) readLoop(l *link) {
	for {
		f, err := wire.ReadFrame(l.stream)
		if err != nil {
			break
		}
		switch f.Type {
		case wire.FrameText:
			t.currentHandler().OnPayloadReceived(l.id, f.Payload)
		default:
			t.log.Debug("Ignoring frame", "endpoint", l.id, "type", f.Type)
		}
	}

	_ = l.stream.Close()
	if t.remove(l) {
		t.log.Debug("Link closed by remote", "endpoint", l.id)
		t.currentHandler().OnDisconnected(l.id)
	}
}

func (t *Table) readHello(s Stream) (string, error) {
	timer := time.AfterFunc(t.HandshakeTimeout, func() { _ = s.Close() })
	defer timer.Stop()
	return wire.ReadHello(s)
}

// remove deletes l if it is still the current link for its id.
func (t *Table) remove(l *link) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.links[l.id] != l {
		return false
	}
	delete(t.links, l.id)
	return true
}

func (t *Table) currentHandler() contract.TransportHandler {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handler
}

func exchangeHello(s Stream, localName string) (string, error) {
	if err := wire.WriteFrame(s, wire.Hello(localName)); err != nil {
		return "", err
	}
	return wire.ReadHello(s)
}

// drain keeps a losing stream open until the remote drops it.
func drain(s Stream) {
	_, _ = io.Copy(io.Discard, s)
	_ = s.Close()
}

type discard struct{}

func (discard) OnEndpointDiscovered(string, string)  {}
func (discard) OnEndpointLost(string)                {}
func (discard) OnConnectionInitiated(string, string) {}
func (discard) OnConnectionResult(string, error)     {}
func (discard) OnDisconnected(string)                {}
func (discard) OnPayloadReceived(string, []byte)     {}
