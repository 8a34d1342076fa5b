package sim

import "fmt"

// PortKind tells what a port is for. Components use the kind to decide
// whether a port may be bound to one of their own ports.
type PortKind int

// A list of all port kinds.
const (
	PortKindGeneric PortKind = iota
	PortKindInstFetch
	PortKindDataAccess
	PortKindCacheCPUSide
	PortKindCacheMemSide
	PortKindBusCPUSide
	PortKindBusMemSide
	PortKindPIO
	PortKindIntRequestor
	PortKindIntResponder
	PortKindMemCtrl
	PortKindSystem
)

var portKindNames = map[PortKind]string{
	PortKindGeneric:      "generic",
	PortKindInstFetch:    "instruction-fetch",
	PortKindDataAccess:   "data-access",
	PortKindCacheCPUSide: "cache-cpu-side",
	PortKindCacheMemSide: "cache-mem-side",
	PortKindBusCPUSide:   "bus-cpu-side",
	PortKindBusMemSide:   "bus-mem-side",
	PortKindPIO:          "pio",
	PortKindIntRequestor: "interrupt-requestor",
	PortKindIntResponder: "interrupt-responder",
	PortKindMemCtrl:      "memory-controller",
	PortKindSystem:       "system",
}

func (k PortKind) String() string {
	if name, ok := portKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("PortKind(%d)", int(k))
}

// Direction tells whether a port issues or accepts requests.
type Direction int

// A port is either a requestor (mem-side, issues requests to a higher level)
// or a responder (cpu-side, accepts requests from a lower level).
const (
	Requestor Direction = iota
	Responder
)

func (d Direction) String() string {
	if d == Requestor {
		return "requestor"
	}

	return "responder"
}

// A RemotePort is a string that refers to another port.
type RemotePort string

// A Port is a logical endpoint owned by a component. A port is connected to at
// most one peer.
type Port struct {
	name      string
	comp      Named
	kind      PortKind
	direction Direction
	peer      *Port
}

// NewPort creates a new, unconnected port.
func NewPort(
	comp Named,
	name string,
	kind PortKind,
	direction Direction,
) *Port {
	NameMustBeValid(name)

	return &Port{
		name:      name,
		comp:      comp,
		kind:      kind,
		direction: direction,
	}
}

// Name returns the name of the port.
func (p *Port) Name() string {
	return p.name
}

// AsRemote returns the remote port name.
func (p *Port) AsRemote() RemotePort {
	return RemotePort(p.name)
}

// Component returns the owner component of the port.
func (p *Port) Component() Named {
	return p.comp
}

// Kind returns the kind of the port.
func (p *Port) Kind() PortKind {
	return p.kind
}

// Direction returns the direction of the port.
func (p *Port) Direction() Direction {
	return p.direction
}

// Peer returns the port on the other end, or nil if the port is not
// connected.
func (p *Port) Peer() *Port {
	return p.peer
}

// IsConnected returns true if the port has a peer.
func (p *Port) IsConnected() bool {
	return p.peer != nil
}

// IsConnectedTo returns true if the port's peer is the given port.
func (p *Port) IsConnectedTo(other *Port) bool {
	return other != nil && p.peer == other && other.peer == p
}

// Connect binds the port and the peer to each other. Neither port may already
// be connected, and one must be a requestor while the other is a responder.
// On error, neither port is changed.
func (p *Port) Connect(peer *Port) error {
	if peer == nil {
		panic("cannot connect port " + p.name + " to nil")
	}

	if p.peer != nil {
		return &AlreadyConnectedError{Port: p.name, Peer: p.peer.name}
	}

	if peer.peer != nil {
		return &AlreadyConnectedError{Port: peer.name, Peer: peer.peer.name}
	}

	if p.direction == peer.direction {
		return &DirectionMismatchError{
			Port:      p.name,
			Peer:      peer.name,
			Direction: p.direction,
		}
	}

	p.peer = peer
	peer.peer = p

	return nil
}

// AlreadyConnectedError is returned when connecting a port that already has
// a peer.
type AlreadyConnectedError struct {
	Port string
	Peer string
}

func (e *AlreadyConnectedError) Error() string {
	return fmt.Sprintf("port %s is already connected to %s", e.Port, e.Peer)
}

// DirectionMismatchError is returned when two ports of the same direction are
// connected.
type DirectionMismatchError struct {
	Port      string
	Peer      string
	Direction Direction
}

func (e *DirectionMismatchError) Error() string {
	return fmt.Sprintf(
		"cannot connect %s to %s: both are %ss",
		e.Port, e.Peer, e.Direction,
	)
}
