// Package projection builds the local transcript from what the mesh observes.
// Insertion order is display order; entries are never reordered or deleted.
// Does not emit events or interact with UI directly.
package projection

import (
	"sync"
	"time"

	"village-chat/domain"
)

// Transcript is appended by several producers (local sends, every peer's
// receive callback) and read by renderers. Readers never see a partial entry.
type Transcript struct {
	mu       sync.RWMutex
	messages []domain.Message
	nextSeq  uint64
	now      func() time.Time
}

func NewTranscript() *Transcript {
	return &Transcript{nextSeq: 1, now: time.Now}
}

// Append assigns the next sequence number and stores an immutable copy.
func (t *Transcript) Append(sender, text string) domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg := domain.Message{
		Seq:    t.nextSeq,
		Sender: sender,
		Text:   text,
		At:     t.now().UTC(),
	}
	t.nextSeq++
	t.messages = append(t.messages, msg)
	return msg
}

// Snapshot returns the full ordered sequence.
func (t *Transcript) Snapshot() []domain.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
