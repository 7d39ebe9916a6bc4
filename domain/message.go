package domain

import (
	"time"
)

const (
	SenderMe     = "Me"
	SenderSystem = "System"
)

// Message is an immutable transcript entry.
type Message struct {
	Seq    uint64    `json:"seq"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

func (m Message) IsSystem() bool { return m.Sender == SenderSystem }

func (m Message) IsLocal() bool { return m.Sender == SenderMe }
