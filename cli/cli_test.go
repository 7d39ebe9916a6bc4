package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"village-chat/cli"
	"village-chat/domain"
	"village-chat/errors"
	"village-chat/mocks"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want cli.Command
	}{
		{line: "hello there", want: cli.Command{Kind: cli.KindText, Text: "hello there"}},
		{line: "  indented", want: cli.Command{Kind: cli.KindText, Text: "  indented"}},
		{line: "/help", want: cli.Command{Kind: cli.KindHelp, Name: "/help"}},
		{line: " /PEERS ", want: cli.Command{Kind: cli.KindPeers, Name: "/PEERS"}},
		{line: "/answer  abc== ", want: cli.Command{Kind: cli.KindAnswer, Name: "/answer", Arg: "abc=="}},
		{line: "/quit", want: cli.Command{Kind: cli.KindExit, Name: "/quit"}},
		{line: "/dance", want: cli.Command{Kind: cli.KindUnknown, Name: "/dance"}},
		{line: "//shrug", want: cli.Command{Kind: cli.KindText, Text: "/shrug"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.Equal(t, tt.want, cli.Parse(tt.line))
		})
	}
}

func newShell(t *testing.T) (*cli.Shell, *mocks.MockIOrchestrator, *bytes.Buffer) {
	color.Enable = false
	t.Cleanup(func() { color.Enable = true })
	orchestrator := mocks.NewMockIOrchestrator(gomock.NewController(t))
	out := &bytes.Buffer{}
	return cli.NewShell(orchestrator, out), orchestrator, out
}

func TestShell_Text_Is_Broadcast(t *testing.T) {
	req := require.New(t)
	shell, orchestrator, out := newShell(t)
	ctx := context.Background()

	// Given a too long line followed by a valid one
	gomock.InOrder(
		orchestrator.EXPECT().SendText(ctx, "way too long").Return(fmt.Errorf("%w: more than 3 characters", errors.ErrMessageTooLong)),
		orchestrator.EXPECT().SendText(ctx, "hi").Return(nil),
	)

	req.True(shell.Execute(ctx, "way too long"))
	req.True(shell.Execute(ctx, "hi"))
	// Blank lines never reach the orchestrator
	req.True(shell.Execute(ctx, "   "))

	req.Equal("message is too long: more than 3 characters\n", out.String())
}

func TestShell_Commands(t *testing.T) {
	req := require.New(t)
	shell, orchestrator, out := newShell(t)
	ctx := context.Background()

	orchestrator.EXPECT().LocalName().Return("Alice")
	orchestrator.EXPECT().Status().Return("Connected to Bob")
	orchestrator.EXPECT().Stop()
	orchestrator.EXPECT().Rejoin(ctx)

	req.True(shell.Execute(ctx, "/status"))
	req.True(shell.Execute(ctx, "/stop"))
	req.True(shell.Execute(ctx, "/rejoin"))
	req.True(shell.Execute(ctx, "/dance"))
	req.False(shell.Execute(ctx, "/exit"))

	req.Equal("Alice: Connected to Bob\nUnknown command /dance, try /help\n", out.String())
}

func TestShell_Peers_Table(t *testing.T) {
	req := require.New(t)
	shell, orchestrator, out := newShell(t)
	since := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)

	gomock.InOrder(
		orchestrator.EXPECT().Peers().Return(nil),
		orchestrator.EXPECT().Peers().Return([]domain.PeerView{
			{EndpointID: "QmBob", DisplayName: "Bob", State: domain.Connected, Since: since},
			{EndpointID: "QmCarol", DisplayName: "Carol", State: domain.Connecting, Since: since},
		}),
	)

	shell.Execute(context.Background(), "/peers")
	req.Equal("No peers\n", out.String())

	out.Reset()
	shell.Execute(context.Background(), "/peers")
	req.Contains(out.String(), "Bob")
	req.Contains(out.String(), "CONNECTED")
	req.Contains(out.String(), "QmCarol")
	req.Contains(out.String(), "09:00:00")
}

func TestShell_Signaling(t *testing.T) {
	req := require.New(t)
	shell, orchestrator, out := newShell(t)
	ctx := context.Background()
	signaler := mocks.NewMockSignaler(gomock.NewController(t))

	// Without signaling support
	orchestrator.EXPECT().Signaler().Return(nil, false)
	shell.Execute(ctx, "/offer")
	req.Equal(errors.ErrSignalingUnsupported.Error()+"\n", out.String())

	// With a signaling transport
	orchestrator.EXPECT().Signaler().Return(signaler, true).Times(3)
	signaler.EXPECT().Offer(ctx).Return("b64offer", nil)
	signaler.EXPECT().Answer(ctx, "b64offer").Return("b64answer", nil)

	out.Reset()
	shell.Execute(ctx, "/offer")
	shell.Execute(ctx, "/answer b64offer")
	shell.Execute(ctx, "/accept")

	req.Equal("Send this offer to your peer:\nb64offer\nSend this answer back:\nb64answer\nUsage: /accept <blob>\n", out.String())
}
