// Package domain contains core concepts of the chat mesh.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Endpoint is a discovered or connected peer, identified by a transport-assigned id.
type Endpoint struct {
	ID          string
	DisplayName string
}

// Name returns the display name, falling back to the raw id.
func (e Endpoint) Name() string {
	if e.DisplayName == "" {
		return e.ID
	}
	return e.DisplayName
}

// PeerView is a read-only row of the peer registry used by renderers.
type PeerView struct {
	EndpointID  string       `json:"endpointId"`
	DisplayName string       `json:"displayName"`
	State       SessionState `json:"state"`
	Since       time.Time    `json:"since"`
}
