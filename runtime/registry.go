package runtime

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"village-chat/domain"
	"village-chat/errors"

	"github.com/samber/lo"
)

// Registry is the Peer Registry: known endpoints, their display names and exactly
// one Session per endpoint. It is created at session start and emptied by Clear.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]domain.Endpoint
	sessions  map[string]*domain.Session
	now       func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]domain.Endpoint),
		sessions:  make(map[string]*domain.Session),
		now:       time.Now,
	}
}

// OnDiscovered inserts the endpoint with a fresh Discovered session.
// A duplicate discovery of a known id changes nothing and returns false.
func (r *Registry) OnDiscovered(endpointID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.endpoints[endpointID]; ok {
		return false
	}
	r.endpoints[endpointID] = domain.Endpoint{ID: endpointID, DisplayName: name}
	r.sessions[endpointID] = domain.NewSession(endpointID, r.now())
	return true
}

// OnInitiated records the name the remote advertised when a connection is negotiated.
// An inbound connection from an endpoint we never discovered starts directly in Connecting.
func (r *Registry) OnInitiated(endpointID, name string) (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ep, ok := r.endpoints[endpointID]
	if !ok {
		session := domain.NewSession(endpointID, now)
		_ = session.Transition(domain.Connecting, now)
		r.endpoints[endpointID] = domain.Endpoint{ID: endpointID, DisplayName: name}
		r.sessions[endpointID] = session
		return *session, true
	}
	if name != "" {
		ep.DisplayName = name
		r.endpoints[endpointID] = ep
	}
	session := r.sessions[endpointID]
	if session.State == domain.Discovered {
		_ = session.Transition(domain.Connecting, now)
	}
	return *session, false
}

// Transition moves a known endpoint's session forward.
func (r *Registry) Transition(endpointID string, to domain.SessionState) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[endpointID]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", errors.ErrUnknownPeer, endpointID)
	}
	if err := session.Transition(to, r.now()); err != nil {
		return *session, err
	}
	return *session, nil
}

// OnConnected marks the session Connected.
// An endpoint without a prior entry is still registered, under its raw id as
// display name, and ErrUnknownPeer is returned alongside so the caller can log it.
func (r *Registry) OnConnected(endpointID string) (domain.Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ep, ok := r.endpoints[endpointID]
	if !ok {
		ep = domain.Endpoint{ID: endpointID, DisplayName: endpointID}
		session := domain.NewSession(endpointID, now)
		_ = session.Transition(domain.Connecting, now)
		_ = session.Transition(domain.Connected, now)
		r.endpoints[endpointID] = ep
		r.sessions[endpointID] = session
		return ep, fmt.Errorf("%w: %s", errors.ErrUnknownPeer, endpointID)
	}

	session := r.sessions[endpointID]
	if session.State == domain.Discovered {
		_ = session.Transition(domain.Connecting, now)
	}
	if err := session.Transition(domain.Connected, now); err != nil {
		return ep, err
	}
	return ep, nil
}

// OnDisconnected ends the session and forgets the endpoint. Unknown ids are a no-op.
func (r *Registry) OnDisconnected(endpointID string) (domain.Endpoint, domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ep, ok := r.endpoints[endpointID]
	if !ok {
		return domain.Endpoint{}, domain.Session{}, false
	}
	session := r.sessions[endpointID]
	_ = session.Transition(domain.Disconnected, r.now())

	delete(r.endpoints, endpointID)
	delete(r.sessions, endpointID)
	return ep, *session, true
}

// Clear disconnects every non-terminal session and empties the registry.
func (r *Registry) Clear() []domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	closed := make([]domain.Session, 0, len(r.sessions))
	for _, id := range sortedKeys(r.sessions) {
		session := r.sessions[id]
		if session.State.Terminal() {
			continue
		}
		_ = session.Transition(domain.Disconnected, now)
		closed = append(closed, *session)
	}
	r.endpoints = make(map[string]domain.Endpoint)
	r.sessions = make(map[string]*domain.Session)
	return closed
}

// ActiveEndpoints returns the sorted ids whose session is Connected.
func (r *Registry) ActiveEndpoints() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Filter(sortedKeys(r.sessions), func(id string, _ int) bool {
		return r.sessions[id].State == domain.Connected
	})
}

// Name resolves a display name, falling back to the raw id.
func (r *Registry) Name(endpointID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ep, ok := r.endpoints[endpointID]; ok {
		return ep.Name()
	}
	return endpointID
}

func (r *Registry) Endpoint(endpointID string) (domain.Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.endpoints[endpointID]
	return ep, ok
}

func (r *Registry) Session(endpointID string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[endpointID]
	if !ok {
		return domain.Session{}, false
	}
	return *session, true
}

func (r *Registry) Peers() []domain.PeerView {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(sortedKeys(r.sessions), func(id string, _ int) domain.PeerView {
		session := r.sessions[id]
		return domain.PeerView{
			EndpointID:  id,
			DisplayName: r.endpoints[id].Name(),
			State:       session.State,
			Since:       session.Since(),
		}
	})
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
