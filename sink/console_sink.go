package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/domain/event"

	"github.com/gookit/color"
)

var _ contract.EventSink = (*ConsoleSink)(nil)

var (
	meStyle     = color.New(color.FgGreen, color.OpBold)
	systemStyle = color.New(color.FgYellow)
	peerStyle   = color.New(color.FgCyan, color.OpBold)
	statusStyle = color.New(color.FgMagenta)
	warnStyle   = color.New(color.FgRed)
)

// ConsoleSink renders transcript entries and status changes as terminal lines.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (s *ConsoleSink) Consume(_ context.Context, e event.DomainEvent) error {
	var line string
	switch evt := e.(type) {
	case event.MessageAppended:
		line = FormatMessage(evt.Message)
	case event.StatusChanged:
		line = statusStyle.Render("* " + evt.Status)
	case event.PayloadDropped:
		line = warnStyle.Render(fmt.Sprintf("! dropped %d bytes from %s: %s", evt.Size, evt.EndpointID, evt.Reason))
	default:
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// FormatMessage renders one entry as "[15:04:05] Sender: text".
func FormatMessage(m domain.Message) string {
	style := peerStyle
	switch {
	case m.IsLocal():
		style = meStyle
	case m.IsSystem():
		style = systemStyle
	}
	return fmt.Sprintf("[%s] %s: %s", m.At.Local().Format("15:04:05"), style.Render(m.Sender), m.Text)
}
