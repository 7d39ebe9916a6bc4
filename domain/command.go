package domain

// SendTextCommand is the only content-bearing user command.
type SendTextCommand struct {
	Text string `validate:"required"`
}

// Mode selects which discovery roles a node plays when started.
type Mode string

const (
	ModeHost Mode = "host"
	ModeJoin Mode = "join"
	ModeBoth Mode = "both"
)

func (m Mode) Advertises() bool { return m == ModeHost || m == ModeBoth }

func (m Mode) Discovers() bool { return m == ModeJoin || m == ModeBoth }
