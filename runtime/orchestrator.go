// Package runtime owns the mesh: peer registry, session lifecycle, broadcast and
// the workers that feed transport callbacks into it.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/errors"
	"village-chat/projection"
	"village-chat/runtime/workers"
	"village-chat/wire"

	"github.com/go-playground/validator/v10"
)

var _ contract.IOrchestrator = (*Orchestrator)(nil)

type Orchestrator struct {
	mu               sync.Mutex
	log              *slog.Logger
	supervisor       *workers.Supervisor
	transport        contract.Transport
	inbox            *Inbox
	mesh             *Mesh
	fanout           *workers.EventFanout
	validate         *validator.Validate
	localName        string
	mode             domain.Mode
	maxMessageLength int
	started          bool
}

func NewOrchestrator(log *slog.Logger, supervisor *workers.Supervisor, transport contract.Transport,
	localName string, mode domain.Mode,
	bufferSize int, sinkTimeout time.Duration, maxMessageLength int) *Orchestrator {
	inbox := NewInbox()
	fanout := workers.NewEventFanout(log, bufferSize, sinkTimeout)
	mesh := NewMesh(log, transport, NewRegistry(), projection.NewTranscript(), fanout)

	transport.SetHandler(inbox)
	supervisor.SetPublisher(fanout)

	return &Orchestrator{
		log:              log,
		supervisor:       supervisor,
		transport:        transport,
		inbox:            inbox,
		mesh:             mesh,
		fanout:           fanout,
		validate:         validator.New(),
		localName:        localName,
		mode:             mode,
		maxMessageLength: maxMessageLength,
	}
}

// Start registers the workers, starts advertising/discovery and blocks
// running the supervisor until ctx is cancelled or Shutdown is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return errors.ErrAlreadyStarted
	}
	o.started = true
	o.supervisor.Add(
		workers.NewEventLoopWorker(o.log, o.inbox, o.mesh),
		o.fanout,
	)
	o.mu.Unlock()

	o.log.Info("Starting mesh", "name", o.localName, "mode", o.mode)
	o.mesh.Start(ctx, o.mode, o.localName)

	o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) Subscribe(sink contract.EventSink) {
	o.fanout.Subscribe(sink)
}

// SendText rejects blank or oversized text, then broadcasts it unchanged.
func (o *Orchestrator) SendText(ctx context.Context, text string) error {
	cmd := domain.SendTextCommand{Text: strings.TrimSpace(text)}
	if err := o.validate.Struct(cmd); err != nil {
		return errors.ErrBlankMessage
	}
	if len(text) > wire.MaxPayload {
		return fmt.Errorf("%w: %d bytes", errors.ErrMessageTooLong, len(text))
	}
	if o.maxMessageLength > 0 && utf8.RuneCountInString(text) > o.maxMessageLength {
		return fmt.Errorf("%w: more than %d characters", errors.ErrMessageTooLong, o.maxMessageLength)
	}

	recipients := o.mesh.Broadcast(ctx, text)
	o.log.Debug("Message broadcast", "recipients", recipients)
	return nil
}

// Stop leaves the mesh idle. Workers keep running so Rejoin can start again.
func (o *Orchestrator) Stop() {
	o.log.Info("Stopping mesh")
	o.mesh.StopAll()
}

func (o *Orchestrator) Rejoin(ctx context.Context) {
	o.log.Info("Rejoining mesh", "name", o.localName, "mode", o.mode)
	o.mesh.Start(ctx, o.mode, o.localName)
}

// Shutdown stops the mesh, the supervised workers and releases the transport.
func (o *Orchestrator) Shutdown() {
	o.log.Info("Requesting orchestrator shutdown")
	o.mesh.StopAll()
	o.supervisor.Stop()
	if err := o.transport.Close(); err != nil {
		o.log.Warn("Transport close failed", "error", err)
	}
}

func (o *Orchestrator) Status() string { return o.mesh.Status() }

func (o *Orchestrator) Transcript() []domain.Message { return o.mesh.Transcript() }

func (o *Orchestrator) Peers() []domain.PeerView { return o.mesh.Peers() }

func (o *Orchestrator) LocalName() string { return o.localName }

// ConnectedCount is the number of peers currently Connected.
func (o *Orchestrator) ConnectedCount() int { return len(o.mesh.ActiveEndpoints()) }

// Signaler exposes manual offer/answer signaling when the transport needs it.
func (o *Orchestrator) Signaler() (contract.Signaler, bool) {
	s, ok := o.transport.(contract.Signaler)
	return s, ok
}
