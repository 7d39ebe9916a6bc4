// Package quicnet is the routed-network transport: one UDP socket shared by the
// QUIC listener and every dial, static peers from configuration, one stream per link.
//
// Endpoint ids are UDP addresses. Because dials leave from the listening socket,
// the address a node sees for an inbound link is the remote's listen address, so
// both directions agree on the id.
package quicnet

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"village-chat/contract"
	"village-chat/errors"
	"village-chat/infrastructure/transport/link"

	"github.com/quic-go/quic-go"
)

const (
	ALPN        = "village-chat"
	dialTimeout = 10 * time.Second
)

var _ contract.Transport = (*Transport)(nil)

type Options struct {
	ListenAddr string
	// AdvertiseAddr is how other nodes reach this one. Defaults to the bound address.
	AdvertiseAddr string
	Peers         []string
	LocalName     string
}

type Transport struct {
	mu          sync.Mutex
	log         *slog.Logger
	udpConn     *net.UDPConn
	transport   *quic.Transport
	listener    *quic.Listener
	tlsConfig   *tls.Config
	quicConfig  *quic.Config
	links       *link.Table
	handler     contract.TransportHandler
	peers       []string
	advertising bool
	discovering bool
	cancel      context.CancelFunc
}

func New(log *slog.Logger, opts Options) (*Transport, error) {
	addr, err := net.ResolveUDPAddr("udp", opts.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid listen address %q: %w", opts.ListenAddr, err)
	}
	udpConn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on UDP: %w", err)
	}

	cert, err := selfSignedCertificate()
	if err != nil {
		_ = udpConn.Close()
		return nil, err
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		// Peers are not authenticated; TLS only encrypts the link.
		InsecureSkipVerify: true,
		NextProtos:         []string{ALPN},
	}
	quicConfig := &quic.Config{
		MaxIdleTimeout:       30 * time.Second,
		KeepAlivePeriod:      10 * time.Second,
		HandshakeIdleTimeout: dialTimeout,
	}

	tr := &quic.Transport{Conn: udpConn}
	ln, err := tr.Listen(tlsConfig, quicConfig)
	if err != nil {
		_ = tr.Close()
		_ = udpConn.Close()
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	localID := opts.AdvertiseAddr
	if localID == "" {
		bound := udpConn.LocalAddr().(*net.UDPAddr)
		localID = bound.String()
		if bound.IP.IsUnspecified() {
			log.Warn("Listening on a wildcard address without an advertise address, simultaneous dials may fail",
				"addr", localID)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &Transport{
		log:        log.With("transport", "quic"),
		udpConn:    udpConn,
		transport:  tr,
		listener:   ln,
		tlsConfig:  tlsConfig,
		quicConfig: quicConfig,
		links:      link.NewTable(log, localID, opts.LocalName),
		handler:    nopHandler{},
		peers:      opts.Peers,
		cancel:     cancel,
	}
	go t.acceptLoop(ctx)
	t.log.Info("QUIC transport listening", "addr", udpConn.LocalAddr(), "id", localID)
	return t, nil
}

func (t *Transport) SetHandler(handler contract.TransportHandler) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()
	t.links.SetHandler(handler)
}

func (t *Transport) Advertise(_ context.Context, localName string) error {
	t.links.SetLocalName(localName)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advertising = true
	return nil
}

// Discover reports every configured peer. Peers that cannot be resolved are skipped.
func (t *Transport) Discover(_ context.Context) error {
	t.mu.Lock()
	t.discovering = true
	peers, handler := t.peers, t.handler
	t.mu.Unlock()

	for _, p := range peers {
		addr, err := net.ResolveUDPAddr("udp", p)
		if err != nil {
			t.log.Warn("Cannot resolve peer", "peer", p, "error", err)
			continue
		}
		id := addr.String()
		if id == t.links.LocalID() {
			continue
		}
		handler.OnEndpointDiscovered(id, "")
	}
	return nil
}

func (t *Transport) Connect(ctx context.Context, endpointID string) error {
	addr, err := net.ResolveUDPAddr("udp", endpointID)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrUnknownPeer, err)
	}
	return t.links.Dial(ctx, endpointID, func(ctx context.Context) (link.Stream, error) {
		ctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		conn, err := t.transport.Dial(ctx, addr, t.tlsConfig, t.quicConfig)
		if err != nil {
			return nil, err
		}
		s, err := conn.OpenStreamSync(ctx)
		if err != nil {
			_ = conn.CloseWithError(0, "stream failed")
			return nil, err
		}
		return &stream{Stream: s, conn: conn}, nil
	})
}

func (t *Transport) Accept(ctx context.Context, endpointID string) error {
	return t.links.Accept(ctx, endpointID)
}

func (t *Transport) Send(ctx context.Context, endpointID string, payload []byte) error {
	return t.links.Send(ctx, endpointID, payload)
}

func (t *Transport) StopAdvertising() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advertising = false
}

func (t *Transport) StopDiscovery() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discovering = false
}

func (t *Transport) DisconnectAll() {
	t.links.DisconnectAll()
}

func (t *Transport) Close() error {
	t.cancel()
	t.links.Close()
	_ = t.listener.Close()
	_ = t.transport.Close()
	return t.udpConn.Close()
}

// ID is the endpoint id other nodes use for this one.
func (t *Transport) ID() string { return t.links.LocalID() }

func (t *Transport) acceptLoop(ctx context.Context) {
	for {
		conn, err := t.listener.Accept(ctx)
		if err != nil {
			t.log.Debug("Accept loop stopped", "error", err)
			return
		}
		go t.handleConn(ctx, conn)
	}
}

// handleConn refuses inbound links while the node is neither advertising nor discovering.
func (t *Transport) handleConn(ctx context.Context, conn *quic.Conn) {
	t.mu.Lock()
	active := t.advertising || t.discovering
	t.mu.Unlock()
	if !active {
		_ = conn.CloseWithError(0, "not accepting")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	s, err := conn.AcceptStream(ctx)
	cancel()
	if err != nil {
		t.log.Debug("No stream on inbound connection", "remote", conn.RemoteAddr(), "error", err)
		_ = conn.CloseWithError(0, "no stream")
		return
	}
	t.links.Inbound(conn.RemoteAddr().String(), &stream{Stream: s, conn: conn})
}

// stream owns its connection: closing it tears down the whole QUIC connection.
type stream struct {
	*quic.Stream
	conn *quic.Conn
}

func (s *stream) Close() error {
	return s.conn.CloseWithError(0, "closed")
}

type nopHandler struct{}

func (nopHandler) OnEndpointDiscovered(string, string)  {}
func (nopHandler) OnEndpointLost(string)                {}
func (nopHandler) OnConnectionInitiated(string, string) {}
func (nopHandler) OnConnectionResult(string, error)     {}
func (nopHandler) OnDisconnected(string)                {}
func (nopHandler) OnPayloadReceived(string, []byte)     {}
