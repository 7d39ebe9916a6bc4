// Package p2p is the LAN transport built on libp2p: mDNS for presence and discovery,
// one stream per peer under ProtocolID for the chat link.
package p2p

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"village-chat/contract"
	"village-chat/errors"
	"village-chat/infrastructure/transport/link"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"
	"github.com/multiformats/go-multiaddr"
	"github.com/samber/lo"
)

const (
	ProtocolID  = protocol.ID("/village-chat/1.0.0")
	dialTimeout = 15 * time.Second
)

var _ contract.Transport = (*Transport)(nil)

type Options struct {
	PrivateKey  []byte
	ListenAddrs []string
	// ServiceTag enables mDNS when non-empty.
	ServiceTag string
	LocalName  string
	// StaticPeers are full multiaddrs ending in /p2p/<id>, reported on Discover.
	StaticPeers []string
}

type Transport struct {
	mu          sync.Mutex
	log         *slog.Logger
	host        host.Host
	links       *link.Table
	serviceTag  string
	mdns        mdns.Service
	handler     contract.TransportHandler
	static      []peer.AddrInfo
	advertising bool
	discovering bool
}

// GenerateKey creates a marshaled Ed25519 identity key.
func GenerateKey() ([]byte, error) {
	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}
	return crypto.MarshalPrivateKey(priv)
}

func New(log *slog.Logger, opts Options) (*Transport, error) {
	priv, err := crypto.UnmarshalPrivateKey(opts.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid identity key: %w", err)
	}
	listen, err := parseAddrs(opts.ListenAddrs)
	if err != nil {
		return nil, err
	}
	static, err := parsePeers(opts.StaticPeers)
	if err != nil {
		return nil, err
	}

	h, err := libp2p.New(libp2p.Identity(priv), libp2p.ListenAddrs(listen...))
	if err != nil {
		return nil, fmt.Errorf("failed to create libp2p host: %w", err)
	}

	t := &Transport{
		log:        log.With("transport", "libp2p"),
		host:       h,
		links:      link.NewTable(log, h.ID().String(), opts.LocalName),
		serviceTag: opts.ServiceTag,
		handler:    nopHandler{},
		static:     static,
	}
	h.SetStreamHandler(ProtocolID, t.handleStream)
	t.log.Info("libp2p host started", "id", h.ID(), "addrs", t.Addrs())
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
	if err := t.startMdns(); err != nil {
		return err
	}
	t.advertising = true
	return nil
}

func (t *Transport) Discover(_ context.Context) error {
	t.mu.Lock()
	if err := t.startMdns(); err != nil {
		t.mu.Unlock()
		return fmt.Errorf("%w: %w", errors.ErrDiscoveryFailed, err)
	}
	t.discovering = true
	static := t.static
	handler := t.handler
	t.mu.Unlock()

	for _, pi := range static {
		t.host.Peerstore().AddAddrs(pi.ID, pi.Addrs, peerstore.PermanentAddrTTL)
		handler.OnEndpointDiscovered(pi.ID.String(), "")
	}
	return nil
}

// HandlePeerFound is called by mDNS for every announcement, including repeats.
func (t *Transport) HandlePeerFound(pi peer.AddrInfo) {
	if pi.ID == t.host.ID() {
		return
	}
	t.host.Peerstore().AddAddrs(pi.ID, pi.Addrs, peerstore.TempAddrTTL)

	t.mu.Lock()
	discovering, handler := t.discovering, t.handler
	t.mu.Unlock()
	if discovering {
		handler.OnEndpointDiscovered(pi.ID.String(), "")
	}
}

func (t *Transport) Connect(ctx context.Context, endpointID string) error {
	pid, err := peer.Decode(endpointID)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrUnknownPeer, err)
	}
	return t.links.Dial(ctx, endpointID, func(ctx context.Context) (link.Stream, error) {
		ctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()
		s, err := t.host.NewStream(ctx, pid, ProtocolID)
		if err != nil {
			return nil, err
		}
		return stream{s}, nil
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
	t.stopMdnsIfIdle()
}

func (t *Transport) StopDiscovery() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discovering = false
	t.stopMdnsIfIdle()
}

func (t *Transport) DisconnectAll() {
	t.links.DisconnectAll()
}

func (t *Transport) Close() error {
	t.mu.Lock()
	t.advertising, t.discovering = false, false
	t.stopMdnsIfIdle()
	t.mu.Unlock()

	t.links.Close()
	return t.host.Close()
}

func (t *Transport) ID() string { return t.host.ID().String() }

// Addrs returns the dialable multiaddrs of this node, /p2p/<id> included.
func (t *Transport) Addrs() []string {
	suffix, err := multiaddr.NewMultiaddr("/p2p/" + t.host.ID().String())
	if err != nil {
		return nil
	}
	return lo.Map(t.host.Addrs(), func(a multiaddr.Multiaddr, _ int) string {
		return a.Encapsulate(suffix).String()
	})
}

// handleStream refuses inbound links while the node is neither advertising nor discovering.
func (t *Transport) handleStream(s network.Stream) {
	t.mu.Lock()
	active := t.advertising || t.discovering
	t.mu.Unlock()
	if !active {
		_ = s.Reset()
		return
	}
	t.links.Inbound(s.Conn().RemotePeer().String(), stream{s})
}

// startMdns must be called with mu held. mDNS both announces and browses,
// so one service serves advertising and discovery.
func (t *Transport) startMdns() error {
	if t.serviceTag == "" || t.mdns != nil {
		return nil
	}
	svc := mdns.NewMdnsService(t.host, t.serviceTag, t)
	if err := svc.Start(); err != nil {
		return fmt.Errorf("mdns: %w", err)
	}
	t.mdns = svc
	return nil
}

// stopMdnsIfIdle must be called with mu held.
func (t *Transport) stopMdnsIfIdle() {
	if t.mdns == nil || t.advertising || t.discovering {
		return
	}
	if err := t.mdns.Close(); err != nil {
		t.log.Debug("mDNS close failed", "error", err)
	}
	t.mdns = nil
}

// stream aborts both directions on Close so the remote read loop ends at once.
type stream struct {
	network.Stream
}

func (s stream) Close() error { return s.Stream.Reset() }

func parseAddrs(addrs []string) ([]multiaddr.Multiaddr, error) {
	out := make([]multiaddr.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		ma, err := multiaddr.NewMultiaddr(a)
		if err != nil {
			return nil, fmt.Errorf("invalid listen address %q: %w", a, err)
		}
		out = append(out, ma)
	}
	return out, nil
}

func parsePeers(addrs []string) ([]peer.AddrInfo, error) {
	out := make([]peer.AddrInfo, 0, len(addrs))
	for _, a := range addrs {
		ma, err := multiaddr.NewMultiaddr(a)
		if err != nil {
			return nil, fmt.Errorf("invalid peer address %q: %w", a, err)
		}
		pi, err := peer.AddrInfoFromP2pAddr(ma)
		if err != nil {
			return nil, fmt.Errorf("peer address %q has no /p2p id: %w", a, err)
		}
		out = append(out, *pi)
	}
	return out, nil
}

type nopHandler struct{}

func (nopHandler) OnEndpointDiscovered(string, string)  {}
func (nopHandler) OnEndpointLost(string)                {}
func (nopHandler) OnConnectionInitiated(string, string) {}
func (nopHandler) OnConnectionResult(string, error)     {}
func (nopHandler) OnDisconnected(string)                {}
func (nopHandler) OnPayloadReceived(string, []byte)     {}
