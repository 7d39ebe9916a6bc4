// Package event defines what flows through the mesh: transport callbacks coming in,
// domain events going out to sinks.
package event

import (
	"time"

	"village-chat/domain"
)

// DomainEvent is published by the mesh and consumed by sinks (UI, metrics, logs).
type DomainEvent interface {
	Name() string
	OccurredAt() time.Time
}

type MessageAppended struct {
	Message domain.Message
}

func (MessageAppended) Name() string            { return "MessageAppended" }
func (e MessageAppended) OccurredAt() time.Time { return e.Message.At }

type StatusChanged struct {
	Status string
	At     time.Time
}

func (StatusChanged) Name() string            { return "StatusChanged" }
func (e StatusChanged) OccurredAt() time.Time { return e.At }

type SessionChanged struct {
	EndpointID  string
	DisplayName string
	From        domain.SessionState
	To          domain.SessionState
	At          time.Time
}

func (SessionChanged) Name() string            { return "SessionChanged" }
func (e SessionChanged) OccurredAt() time.Time { return e.At }

// PayloadDropped is emitted when an inbound payload cannot be decoded.
type PayloadDropped struct {
	EndpointID string
	Size       int
	Reason     string
	At         time.Time
}

func (PayloadDropped) Name() string            { return "PayloadDropped" }
func (e PayloadDropped) OccurredAt() time.Time { return e.At }

// SendFailed is never retried; it only feeds logs and metrics.
type SendFailed struct {
	EndpointID string
	Err        error
	At         time.Time
}

func (SendFailed) Name() string            { return "SendFailed" }
func (e SendFailed) OccurredAt() time.Time { return e.At }

// WorkerRestarted is emitted by the supervisor each time a crashed worker is restarted.
type WorkerRestarted struct {
	WorkerName string
	Reason     string
	At         time.Time
}

func (WorkerRestarted) Name() string            { return "WorkerRestarted" }
func (e WorkerRestarted) OccurredAt() time.Time { return e.At }
