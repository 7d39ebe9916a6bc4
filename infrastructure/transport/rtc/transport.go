// Package rtc is the WebRTC data-channel transport. There is no discovery: endpoints
// appear through a manual offer/answer exchange (copy-paste or HTTP), and every
// link is one "chat" data channel carrying wire frames, one frame per message.
package rtc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"village-chat/contract"
	"village-chat/errors"
	"village-chat/wire"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v3"
)

const channelLabel = "chat"

var (
	_ contract.Transport = (*Transport)(nil)
	_ contract.Signaler  = (*Transport)(nil)
)

type Options struct {
	STUNServers []string
	LocalName   string
	// IncludeLoopback gathers 127.0.0.1 candidates, for nodes on the same host.
	IncludeLoopback bool
}

type peerConn struct {
	id       string
	pc       *webrtc.PeerConnection
	dc       *webrtc.DataChannel
	name     string
	hello    bool
	accepted bool
}

type Transport struct {
	mu        sync.Mutex
	log       *slog.Logger
	api       *webrtc.API
	config    webrtc.Configuration
	localName string
	handler   contract.TransportHandler
	peers     map[string]*peerConn
	pending   *peerConn
	closed    bool
}

func New(log *slog.Logger, opts Options) *Transport {
	se := webrtc.SettingEngine{}
	se.SetIncludeLoopbackCandidate(opts.IncludeLoopback)

	config := webrtc.Configuration{}
	if len(opts.STUNServers) > 0 {
		config.ICEServers = []webrtc.ICEServer{{URLs: opts.STUNServers}}
	}
	return &Transport{
		log:       log.With("transport", "webrtc"),
		api:       webrtc.NewAPI(webrtc.WithSettingEngine(se)),
		config:    config,
		localName: opts.LocalName,
		handler:   nopHandler{},
		peers:     make(map[string]*peerConn),
	}
}

func (t *Transport) SetHandler(handler contract.TransportHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
}

// Advertise only records the name sent in the hello; presence is manual.
func (t *Transport) Advertise(_ context.Context, localName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.localName = localName
	return nil
}

func (t *Transport) Discover(context.Context) error { return nil }

func (t *Transport) StopAdvertising() {}

func (t *Transport) StopDiscovery() {}

// Connect succeeds for endpoints created by signaling; the data channel opens on its own.
func (t *Transport) Connect(_ context.Context, endpointID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.peers[endpointID]; !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownPeer, endpointID)
	}
	return nil
}

func (t *Transport) Accept(_ context.Context, endpointID string) error {
	t.mu.Lock()
	p, ok := t.peers[endpointID]
	if !ok || !p.hello {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", errors.ErrNotConnected, endpointID)
	}
	if p.accepted {
		t.mu.Unlock()
		return nil
	}
	p.accepted = true
	handler := t.handler
	t.mu.Unlock()

	handler.OnConnectionResult(endpointID, nil)
	return nil
}

func (t *Transport) Send(_ context.Context, endpointID string, payload []byte) error {
	t.mu.Lock()
	p, ok := t.peers[endpointID]
	ready := ok && p.accepted && p.dc != nil
	t.mu.Unlock()
	if !ready {
		return fmt.Errorf("%w: %s", errors.ErrNotConnected, endpointID)
	}

	buf, err := wire.Text(payload).MarshalBinary()
	if err != nil {
		return err
	}
	return p.dc.Send(buf)
}

// DisconnectAll closes every peer connection. The remote sees its data channel close.
func (t *Transport) DisconnectAll() {
	t.mu.Lock()
	peers := t.peers
	t.peers = make(map[string]*peerConn)
	t.pending = nil
	t.mu.Unlock()

	for _, p := range peers {
		if err := p.pc.Close(); err != nil {
			t.log.Debug("Peer connection close failed", "endpoint", p.id, "error", err)
		}
	}
}

func (t *Transport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.DisconnectAll()
	return nil
}

// Offer creates a new endpoint with a "chat" data channel and returns the
// local description once ICE gathering is complete.
func (t *Transport) Offer(ctx context.Context) (string, error) {
	p, err := t.newPeer()
	if err != nil {
		return "", err
	}
	dc, err := p.pc.CreateDataChannel(channelLabel, nil)
	if err != nil {
		t.drop(p)
		return "", fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	t.bindChannel(p, dc)

	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		t.drop(p)
		return "", fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	blob, err := t.gather(ctx, p, offer)
	if err != nil {
		t.drop(p)
		return "", err
	}

	t.mu.Lock()
	t.pending = p
	t.mu.Unlock()
	t.log.Info("Offer created", "endpoint", p.id)
	return blob, nil
}

// Answer applies a remote offer to a new endpoint and returns the answer blob.
func (t *Transport) Answer(ctx context.Context, offerBlob string) (string, error) {
	offer, err := DecodeDescription(offerBlob)
	if err != nil {
		return "", err
	}
	if offer.Type != webrtc.SDPTypeOffer {
		return "", fmt.Errorf("%w: expected an offer, got %s", errors.ErrDecodeFailed, offer.Type)
	}

	p, err := t.newPeer()
	if err != nil {
		return "", err
	}
	p.pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != channelLabel {
			return
		}
		t.bindChannel(p, dc)
	})
	if err := p.pc.SetRemoteDescription(offer); err != nil {
		t.drop(p)
		return "", fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		t.drop(p)
		return "", fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	blob, err := t.gather(ctx, p, answer)
	if err != nil {
		t.drop(p)
		return "", err
	}
	t.log.Info("Answer created", "endpoint", p.id)
	return blob, nil
}

// Complete applies the remote answer to the last offer.
func (t *Transport) Complete(_ context.Context, answerBlob string) error {
	answer, err := DecodeDescription(answerBlob)
	if err != nil {
		return err
	}
	if answer.Type != webrtc.SDPTypeAnswer {
		return fmt.Errorf("%w: expected an answer, got %s", errors.ErrDecodeFailed, answer.Type)
	}

	t.mu.Lock()
	p := t.pending
	t.pending = nil
	t.mu.Unlock()
	if p == nil {
		return fmt.Errorf("%w: no pending offer", errors.ErrNotConnected)
	}
	if err := p.pc.SetRemoteDescription(answer); err != nil {
		t.fail(p, err)
		return fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	return nil
}

func (t *Transport) newPeer() (*peerConn, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil, errors.ErrTransportClosed
	}

	pc, err := t.api.NewPeerConnection(t.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	p := &peerConn{id: "webrtc-" + uuid.NewString()[:8], pc: pc}
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		t.log.Debug("Peer connection state", "endpoint", p.id, "state", state)
		if state == webrtc.PeerConnectionStateFailed || state == webrtc.PeerConnectionStateClosed {
			t.fail(p, fmt.Errorf("peer connection %s", state))
		}
	})

	t.mu.Lock()
	t.peers[p.id] = p
	t.mu.Unlock()
	return p, nil
}

func (t *Transport) gather(ctx context.Context, p *peerConn, desc webrtc.SessionDescription) (string, error) {
	done := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(desc); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrConnectionFailed, err)
	}
	select {
	case <-done:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return EncodeDescription(*p.pc.LocalDescription())
}

func (t *Transport) bindChannel(p *peerConn, dc *webrtc.DataChannel) {
	t.mu.Lock()
	p.dc = dc
	t.mu.Unlock()

	dc.OnOpen(func() {
		t.mu.Lock()
		name := t.localName
		t.mu.Unlock()
		buf, err := wire.Hello(name).MarshalBinary()
		if err == nil {
			err = dc.Send(buf)
		}
		if err != nil {
			t.fail(p, err)
		}
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		t.receive(p, msg.Data)
	})
	dc.OnClose(func() {
		t.fail(p, fmt.Errorf("data channel closed"))
	})
}

func (t *Transport) receive(p *peerConn, data []byte) {
	var f wire.Frame
	if err := f.UnmarshalBinary(data); err != nil {
		t.log.Debug("Ignoring malformed frame", "endpoint", p.id, "error", err)
		return
	}

	t.mu.Lock()
	if t.peers[p.id] != p {
		t.mu.Unlock()
		return
	}
	handler := t.handler
	switch f.Type {
	case wire.FrameHello:
		if p.hello {
			t.mu.Unlock()
			return
		}
		p.hello = true
		p.name = string(f.Payload)
		t.mu.Unlock()
		handler.OnConnectionInitiated(p.id, p.name)
	case wire.FrameText:
		hello := p.hello
		t.mu.Unlock()
		if hello {
			handler.OnPayloadReceived(p.id, f.Payload)
		}
	default:
		t.mu.Unlock()
	}
}

// fail removes p once. A link that completed its handshake reports a disconnect,
// any other link a failed connection.
func (t *Transport) fail(p *peerConn, cause error) {
	t.mu.Lock()
	if t.peers[p.id] != p {
		t.mu.Unlock()
		return
	}
	delete(t.peers, p.id)
	if t.pending == p {
		t.pending = nil
	}
	accepted := p.accepted
	handler := t.handler
	t.mu.Unlock()

	_ = p.pc.Close()
	if accepted {
		handler.OnDisconnected(p.id)
		return
	}
	handler.OnConnectionResult(p.id, fmt.Errorf("%w: %w", errors.ErrConnectionFailed, cause))
}

// drop forgets a peer whose signaling never completed, without callbacks.
func (t *Transport) drop(p *peerConn) {
	t.mu.Lock()
	delete(t.peers, p.id)
	t.mu.Unlock()
	_ = p.pc.Close()
}

// EncodeDescription returns base64(JSON(description)).
func EncodeDescription(desc webrtc.SessionDescription) (string, error) {
	raw, err := json.Marshal(desc)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func DecodeDescription(blob string) (webrtc.SessionDescription, error) {
	var desc webrtc.SessionDescription
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return desc, fmt.Errorf("%w: %w", errors.ErrDecodeFailed, err)
	}
	if err := json.Unmarshal(raw, &desc); err != nil {
		return desc, fmt.Errorf("%w: %w", errors.ErrDecodeFailed, err)
	}
	return desc, nil
}

type nopHandler struct{}

func (nopHandler) OnEndpointDiscovered(string, string)  {}
func (nopHandler) OnEndpointLost(string)                {}
func (nopHandler) OnConnectionInitiated(string, string) {}
func (nopHandler) OnConnectionResult(string, error)     {}
func (nopHandler) OnDisconnected(string)                {}
func (nopHandler) OnPayloadReceived(string, []byte)     {}
