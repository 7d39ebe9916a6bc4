package runtime

import (
	"math/rand"
	"testing"

	"village-chat/domain"
	"village-chat/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRegistry_OnDiscovered_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	endpointID := uuid.NewString()

	// Given no peer is known
	req.Zero(registry.Len())

	// When the same endpoint is discovered twice
	req.True(registry.OnDiscovered(endpointID, "Alice"))
	req.False(registry.OnDiscovered(endpointID, "Alice again"))

	// Then only one entry exists with the first name
	req.Equal(1, registry.Len())
	req.Equal("Alice", registry.Name(endpointID))
	session, ok := registry.Session(endpointID)
	req.True(ok)
	req.Equal(domain.Discovered, session.State)
	req.Empty(registry.ActiveEndpoints())
}

func TestRegistry_OnConnected_After_Discovery(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	registry.OnDiscovered("A", "Alice")
	_, err := registry.Transition("A", domain.Connecting)
	req.NoError(err)

	ep, err := registry.OnConnected("A")

	req.NoError(err)
	req.Equal("Alice", ep.Name())
	req.Equal([]string{"A"}, registry.ActiveEndpoints())
}

func TestRegistry_OnConnected_Unknown_Peer_Is_Degraded(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	ep, err := registry.OnConnected("ghost")

	// Then the error is reported but the peer is usable under its raw id
	req.ErrorIs(err, errors.ErrUnknownPeer)
	req.Equal("ghost", ep.Name())
	req.Equal([]string{"ghost"}, registry.ActiveEndpoints())
	req.Equal("ghost", registry.Name("ghost"))
}

func TestRegistry_OnInitiated_Inbound_Starts_Connecting(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	session, created := registry.OnInitiated("B", "Bob")

	req.True(created)
	req.Equal(domain.Connecting, session.State)
	req.Equal("Bob", registry.Name("B"))

	// And a later initiation with a new advertised name renames the peer
	session, created = registry.OnInitiated("B", "Bobby")
	req.False(created)
	req.Equal(domain.Connecting, session.State)
	req.Equal("Bobby", registry.Name("B"))
}

func TestRegistry_OnDisconnected(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.OnDiscovered("A", "Alice")
	_, err := registry.OnConnected("A")
	req.NoError(err)

	ep, session, ok := registry.OnDisconnected("A")

	req.True(ok)
	req.Equal("Alice", ep.Name())
	req.Equal(domain.Disconnected, session.State)
	req.False(session.DisconnectedAt.IsZero())
	req.Zero(registry.Len())
	req.Empty(registry.ActiveEndpoints())

	// Unknown ids are a no-op
	_, _, ok = registry.OnDisconnected("A")
	req.False(ok)
}

func TestRegistry_Rediscovery_Creates_Fresh_Session(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.OnDiscovered("A", "Alice")
	_, err := registry.OnConnected("A")
	req.NoError(err)
	registry.OnDisconnected("A")

	req.True(registry.OnDiscovered("A", "Alice"))

	session, ok := registry.Session("A")
	req.True(ok)
	req.Equal(domain.Discovered, session.State)
	req.True(session.ConnectedAt.IsZero())
}

func TestRegistry_Transition_Unknown_And_Invalid(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Transition("nobody", domain.Connecting)
	req.ErrorIs(err, errors.ErrUnknownPeer)

	registry.OnDiscovered("A", "Alice")
	_, err = registry.Transition("A", domain.Connected)
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

func TestRegistry_Clear(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.OnDiscovered("A", "Alice")
	registry.OnDiscovered("B", "Bob")
	registry.OnDiscovered("C", "Clara")
	_, _ = registry.OnConnected("A")
	_, _ = registry.OnConnected("B")

	closed := registry.Clear()

	req.Len(closed, 3)
	for _, s := range closed {
		req.Equal(domain.Disconnected, s.State)
	}
	req.Zero(registry.Len())
	req.Empty(registry.ActiveEndpoints())
	req.Empty(registry.Clear())
}

func TestRegistry_Peers_Sorted_By_Id(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	registry.OnDiscovered("b", "Bob")
	registry.OnDiscovered("a", "")
	_, _ = registry.OnConnected("b")

	peers := registry.Peers()

	req.Len(peers, 2)
	req.Equal("a", peers[0].EndpointID)
	req.Equal("a", peers[0].DisplayName)
	req.Equal(domain.Discovered, peers[0].State)
	req.Equal("Bob", peers[1].DisplayName)
	req.Equal(domain.Connected, peers[1].State)
}

// Whatever the interleaving of callbacks, the active set is exactly the Connected ids.
func TestRegistry_ActiveEndpoints_Matches_Connected_Sessions(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 50; round++ {
		registry := NewRegistry()
		for step := 0; step < 100; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(3) {
			case 0:
				registry.OnDiscovered(id, "peer-"+id)
			case 1:
				_, _ = registry.OnConnected(id)
			case 2:
				registry.OnDisconnected(id)
			}

			expected := lo.FilterMap(registry.Peers(), func(p domain.PeerView, _ int) (string, bool) {
				return p.EndpointID, p.State == domain.Connected
			})
			req.Equal(expected, registry.ActiveEndpoints())
		}
	}
}
