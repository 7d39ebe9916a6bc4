package projection

import (
	"fmt"
	"sync"
	"testing"

	"village-chat/domain"

	"github.com/stretchr/testify/require"
)

func TestTranscript_Append_KeepsInsertionOrder(t *testing.T) {
	req := require.New(t)
	transcript := NewTranscript()

	first := transcript.Append(domain.SenderMe, "Hello Bob")
	second := transcript.Append("Clara", "Hi Bob")
	third := transcript.Append(domain.SenderSystem, "Connected to Bob")

	req.Equal(uint64(1), first.Seq)
	req.Equal(uint64(2), second.Seq)
	req.Equal(uint64(3), third.Seq)

	snapshot := transcript.Snapshot()
	req.Len(snapshot, 3)
	req.Equal([]domain.Message{first, second, third}, snapshot)
	req.True(snapshot[0].IsLocal())
	req.True(snapshot[2].IsSystem())
}

func TestTranscript_Snapshot_IsACopy(t *testing.T) {
	req := require.New(t)
	transcript := NewTranscript()
	transcript.Append("Alice", "hello")

	snapshot := transcript.Snapshot()
	snapshot[0].Text = "tampered"

	req.Equal("hello", transcript.Snapshot()[0].Text)
}

func TestTranscript_ConcurrentAppendAndSnapshot(t *testing.T) {
	req := require.New(t)
	transcript := NewTranscript()
	producers, perProducer := 8, 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				transcript.Append(fmt.Sprintf("peer-%d", p), fmt.Sprintf("msg-%d", i))
			}
		}(p)
	}

	// A reader keeps polling while producers write
	done := make(chan struct{})
	torn := false
	go func() {
		defer close(done)
		for transcript.Len() < producers*perProducer {
			snapshot := transcript.Snapshot()
			for i, msg := range snapshot {
				if msg.Seq != uint64(i+1) || msg.Sender == "" {
					torn = true
					return
				}
			}
		}
	}()
	wg.Wait()
	<-done

	req.False(torn, "a snapshot exposed a partial or reordered entry")
	req.Equal(producers*perProducer, transcript.Len())
}
