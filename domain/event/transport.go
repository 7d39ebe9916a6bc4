package event

// TransportEvent is one callback delivered by a transport binding.
type TransportEvent interface {
	EndpointID() string
}

type EndpointDiscovered struct {
	ID   string
	Name string
}

func (e EndpointDiscovered) EndpointID() string { return e.ID }

type EndpointLost struct {
	ID string
}

func (e EndpointLost) EndpointID() string { return e.ID }

// ConnectionInitiated carries the name the remote side advertised.
// Both the dialing and the accepting side receive it.
type ConnectionInitiated struct {
	ID   string
	Name string
}

func (e ConnectionInitiated) EndpointID() string { return e.ID }

// ConnectionResult reports success when Err is nil.
type ConnectionResult struct {
	ID  string
	Err error
}

func (e ConnectionResult) EndpointID() string { return e.ID }

func (e ConnectionResult) Success() bool { return e.Err == nil }

type EndpointDisconnected struct {
	ID string
}

func (e EndpointDisconnected) EndpointID() string { return e.ID }

type PayloadReceived struct {
	ID      string
	Payload []byte
}

func (e PayloadReceived) EndpointID() string { return e.ID }
