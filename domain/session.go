package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"village-chat/errors"
)

type SessionState int

const (
	Discovered SessionState = iota
	Connecting
	Connected
	Disconnected
)

func (s SessionState) String() string {
	switch s {
	case Discovered:
		return "DISCOVERED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Disconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

func (s SessionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SessionState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, state := range []SessionState{Discovered, Connecting, Connected, Disconnected} {
		if state.String() == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", name)
}

// Terminal reports whether no further transition is possible.
func (s SessionState) Terminal() bool {
	return s == Disconnected
}

// CanTransition lists the only edges of the lifecycle.
// Disconnected is terminal: a later rediscovery creates a new Session.
func (s SessionState) CanTransition(to SessionState) bool {
	switch s {
	case Discovered:
		return to == Connecting || to == Disconnected
	case Connecting:
		return to == Connected || to == Disconnected
	case Connected:
		return to == Disconnected
	default:
		return false
	}
}

// Session is the connection lifecycle of one Endpoint.
type Session struct {
	EndpointID     string
	State          SessionState
	DiscoveredAt   time.Time
	ConnectingAt   time.Time
	ConnectedAt    time.Time
	DisconnectedAt time.Time
}

func NewSession(endpointID string, at time.Time) *Session {
	return &Session{EndpointID: endpointID, State: Discovered, DiscoveredAt: at}
}

// Transition moves the session forward and stamps the entry time of the new state.
func (s *Session) Transition(to SessionState, at time.Time) error {
	if !s.State.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s for %s", errors.ErrInvalidTransition, s.State, to, s.EndpointID)
	}
	s.State = to
	switch to {
	case Connecting:
		s.ConnectingAt = at
	case Connected:
		s.ConnectedAt = at
	case Disconnected:
		s.DisconnectedAt = at
	}
	return nil
}

// Since returns when the current state was entered.
func (s Session) Since() time.Time {
	switch s.State {
	case Connecting:
		return s.ConnectingAt
	case Connected:
		return s.ConnectedAt
	case Disconnected:
		return s.DisconnectedAt
	default:
		return s.DiscoveredAt
	}
}
