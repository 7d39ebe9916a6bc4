// Package cli is the interactive terminal renderer: a readline prompt that turns
// lines into orchestrator commands, with the transcript printed above it.
package cli

import "strings"

type Kind int

const (
	KindText Kind = iota
	KindHelp
	KindPeers
	KindStatus
	KindStop
	KindRejoin
	KindOffer
	KindAnswer
	KindAccept
	KindExit
	KindUnknown
)

var commands = map[string]Kind{
	"/help":   KindHelp,
	"/peers":  KindPeers,
	"/status": KindStatus,
	"/stop":   KindStop,
	"/rejoin": KindRejoin,
	"/offer":  KindOffer,
	"/answer": KindAnswer,
	"/accept": KindAccept,
	"/exit":   KindExit,
	"/quit":   KindExit,
}

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Name string
	Arg  string
	Text string
}

// Parse maps a line to a command. Anything not starting with "/" is chat text,
// kept as typed. "//" escapes a leading slash.
func Parse(line string) Command {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "//") {
		return Command{Kind: KindText, Text: strings.TrimPrefix(strings.TrimLeft(line, " \t"), "/")}
	}
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: KindText, Text: line}
	}

	name, arg, _ := strings.Cut(trimmed, " ")
	kind, ok := commands[strings.ToLower(name)]
	if !ok {
		return Command{Kind: KindUnknown, Name: name}
	}
	return Command{Kind: kind, Name: name, Arg: strings.TrimSpace(arg)}
}
