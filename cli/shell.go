package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"village-chat/contract"
	"village-chat/errors"

	"github.com/chzyer/readline"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const helpText = `Commands:
  /help            show this help
  /peers           list known peers and their session state
  /status          show the status line
  /stop            disconnect everyone and stop advertising/discovery
  /rejoin          advertise and discover again
  /offer           print a signaling offer (webrtc only)
  /answer <blob>   answer a remote offer and print the answer
  /accept <blob>   complete the exchange with a remote answer
  /exit            leave
Anything else is broadcast to every connected peer.`

var (
	errStyle  = color.New(color.FgRed)
	infoStyle = color.New(color.FgCyan)
	blobStyle = color.New(color.FgYellow)
)

// Shell executes commands against the orchestrator and writes feedback to out.
type Shell struct {
	orchestrator contract.IOrchestrator
	out          io.Writer
}

func NewShell(orchestrator contract.IOrchestrator, out io.Writer) *Shell {
	return &Shell{orchestrator: orchestrator, out: out}
}

// Execute runs one input line. It returns false once the user asked to leave.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd := Parse(line)
	switch cmd.Kind {
	case KindText:
		s.send(ctx, cmd.Text)
	case KindHelp:
		fmt.Fprintln(s.out, helpText)
	case KindPeers:
		s.printPeers()
	case KindStatus:
		fmt.Fprintln(s.out, infoStyle.Render(fmt.Sprintf("%s: %s", s.orchestrator.LocalName(), s.orchestrator.Status())))
	case KindStop:
		s.orchestrator.Stop()
	case KindRejoin:
		s.orchestrator.Rejoin(ctx)
	case KindOffer, KindAnswer, KindAccept:
		s.signal(ctx, cmd)
	case KindExit:
		return false
	default:
		fmt.Fprintln(s.out, errStyle.Render(fmt.Sprintf("Unknown command %s, try /help", cmd.Name)))
	}
	return true
}

func (s *Shell) send(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if err := s.orchestrator.SendText(ctx, text); err != nil {
		fmt.Fprintln(s.out, errStyle.Render(err.Error()))
	}
}

func (s *Shell) printPeers() {
	peers := s.orchestrator.Peers()
	if len(peers) == 0 {
		fmt.Fprintln(s.out, infoStyle.Render("No peers"))
		return
	}

	table := tablewriter.NewWriter(s.out)
	table.SetHeader([]string{"Name", "Endpoint", "State", "Since"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, p := range peers {
		table.Append([]string{p.DisplayName, p.EndpointID, p.State.String(), p.Since.Local().Format(time.TimeOnly)})
	}
	table.Render()
}

func (s *Shell) signal(ctx context.Context, cmd Command) {
	signaler, ok := s.orchestrator.Signaler()
	if !ok {
		fmt.Fprintln(s.out, errStyle.Render(errors.ErrSignalingUnsupported.Error()))
		return
	}
	if cmd.Kind != KindOffer && cmd.Arg == "" {
		fmt.Fprintln(s.out, errStyle.Render(fmt.Sprintf("Usage: %s <blob>", cmd.Name)))
		return
	}

	switch cmd.Kind {
	case KindOffer:
		blob, err := signaler.Offer(ctx)
		s.printBlob("Send this offer to your peer:", blob, err)
	case KindAnswer:
		blob, err := signaler.Answer(ctx, cmd.Arg)
		s.printBlob("Send this answer back:", blob, err)
	case KindAccept:
		if err := signaler.Complete(ctx, cmd.Arg); err != nil {
			fmt.Fprintln(s.out, errStyle.Render(err.Error()))
			return
		}
		fmt.Fprintln(s.out, infoStyle.Render("Answer applied, waiting for the data channel"))
	}
}

func (s *Shell) printBlob(title, blob string, err error) {
	if err != nil {
		fmt.Fprintln(s.out, errStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(s.out, infoStyle.Render(title))
	fmt.Fprintln(s.out, blobStyle.Render(blob))
}

// Completer offers the slash commands on tab.
func Completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("/help"),
		readline.PcItem("/peers"),
		readline.PcItem("/status"),
		readline.PcItem("/stop"),
		readline.PcItem("/rejoin"),
		readline.PcItem("/offer"),
		readline.PcItem("/answer"),
		readline.PcItem("/accept"),
		readline.PcItem("/exit"),
	)
}

// Run reads lines until /exit, EOF, interrupt or ctx cancellation.
// Transcript output written to Stdout() keeps the prompt intact.
func Run(ctx context.Context, rl *readline.Instance, shell *Shell) {
	go func() {
		<-ctx.Done()
		_ = rl.Close()
	}()
	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if !shell.Execute(ctx, line) {
			return
		}
	}
}

// NewReadline builds the prompt used by Run.
func NewReadline(localName, historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          color.New(color.FgGreen).Render(localName + "> "),
		HistoryFile:     historyFile,
		AutoComplete:    Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "/exit",
	})
}
