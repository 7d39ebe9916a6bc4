package rtc_test

import (
	"context"
	"encoding/base64"
	"log/slog"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/errors"
	"village-chat/infrastructure/transport/rtc"
	"village-chat/runtime"
	"village-chat/runtime/workers"

	"github.com/mama165/sdk-go/logs"
	"github.com/pion/webrtc/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 15 * time.Second
	tick    = 20 * time.Millisecond
)

func newTransport(name string) *rtc.Transport {
	return rtc.New(logs.GetLoggerFromLevel(slog.LevelDebug), rtc.Options{LocalName: name, IncludeLoopback: true})
}

func startNode(t *testing.T, tr *rtc.Transport, name string) *runtime.Orchestrator {
	log := logs.GetLoggerFromLevel(slog.LevelDebug).With("node", name)
	o := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 50*time.Millisecond), tr, name, domain.ModeBoth, 64, time.Second, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = o.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		o.Shutdown()
		cancel()
		<-done
	})
	return o
}

func hasLine(o *runtime.Orchestrator, sender, text string) bool {
	return lo.ContainsBy(o.Transcript(), func(m domain.Message) bool {
		return m.Sender == sender && m.Text == text
	})
}

func TestTransport_Chat_After_Manual_Signaling(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()

	alice := startNode(t, newTransport("Alice"), "Alice")
	bob := startNode(t, newTransport("Bob"), "Bob")
	aliceSignaler, ok := alice.Signaler()
	req.True(ok)
	bobSignaler, ok := bob.Signaler()
	req.True(ok)

	// When Alice's offer and Bob's answer are exchanged by hand
	offer, err := aliceSignaler.Offer(ctx)
	req.NoError(err)
	answer, err := bobSignaler.Answer(ctx, offer)
	req.NoError(err)
	req.NoError(aliceSignaler.Complete(ctx, answer))

	// Then the data channel opens and names are exchanged
	req.Eventually(func() bool {
		return hasLine(alice, domain.SenderSystem, "Connected to Bob") &&
			hasLine(bob, domain.SenderSystem, "Connected to Alice")
	}, waitFor, tick)

	// When they chat
	req.NoError(alice.SendText(context.Background(), "hola"))
	req.Eventually(func() bool { return hasLine(bob, "Alice", "hola") }, waitFor, tick)

	// When Bob stops, Alice sees him leave
	bob.Stop()
	req.Eventually(func() bool { return hasLine(alice, domain.SenderSystem, "Disconnected from Bob") }, waitFor, tick)
}

func TestSignaling_Errors(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	tr := newTransport("Alice")
	defer tr.Close()

	_, err := tr.Answer(ctx, "%%% not base64")
	req.ErrorIs(err, errors.ErrDecodeFailed)

	_, err = tr.Answer(ctx, base64.StdEncoding.EncodeToString([]byte("{not json")))
	req.ErrorIs(err, errors.ErrDecodeFailed)

	// An answer where an offer is expected
	wrong, err := rtc.EncodeDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"})
	req.NoError(err)
	_, err = tr.Answer(ctx, wrong)
	req.ErrorIs(err, errors.ErrDecodeFailed)

	// Complete without a pending offer
	req.ErrorIs(tr.Complete(ctx, wrong), errors.ErrNotConnected)

	// Unknown endpoints cannot be dialed or used
	req.ErrorIs(tr.Connect(ctx, "webrtc-nobody"), errors.ErrUnknownPeer)
	req.ErrorIs(tr.Accept(ctx, "webrtc-nobody"), errors.ErrNotConnected)
	req.ErrorIs(tr.Send(ctx, "webrtc-nobody", []byte("x")), errors.ErrNotConnected)
}

func TestDescription_RoundTrip(t *testing.T) {
	req := require.New(t)
	desc := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0\r\no=- 1 2 IN IP4 127.0.0.1\r\n"}

	blob, err := rtc.EncodeDescription(desc)
	req.NoError(err)
	decoded, err := rtc.DecodeDescription(blob)
	req.NoError(err)

	req.Equal(desc.Type, decoded.Type)
	req.Equal(desc.SDP, decoded.SDP)
}
