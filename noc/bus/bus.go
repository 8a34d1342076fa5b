// Package bus describes the crossbars that connect the caches, the memory
// controller and the interrupt controller.
//
// A Bus is a connection registry. It does not arbitrate; it guarantees that
// each attached port owns exactly one slot so that the engine can route
// requests without ambiguity.
package bus

import (
	"fmt"

	"github.com/sarchlab/memsys/sim"
)

// Side tells which side of the bus a slot is on.
type Side int

// A CPUSide slot accepts requests from components closer to the CPU. A
// MemSide slot issues requests to components closer to memory.
const (
	CPUSide Side = iota
	MemSide
)

func (s Side) String() string {
	if s == CPUSide {
		return "cpu-side"
	}

	return "mem-side"
}

// An Attachment records a component port bound to a bus slot.
type Attachment struct {
	Side Side
	Slot *sim.Port
	Peer *sim.Port
}

// Bus is a crossbar description.
type Bus struct {
	*sim.ComponentBase

	width                int
	frontendLatency      int
	forwardLatency       int
	responseLatency      int
	snoopResponseLatency int
	clockDomain          *sim.ClockDomain

	attachments []Attachment
	occupied    map[string]int
	numCPUSide  int
	numMemSide  int
}

// Attach registers the port on a new slot of the given side and connects the
// two. It fails with a PortConflictError if the port already holds a slot on
// this bus, and with the port's connection error if the port is bound
// elsewhere. On failure the bus is not changed.
func (b *Bus) Attach(p *sim.Port, side Side) error {
	if idx, found := b.occupied[p.Name()]; found {
		return &PortConflictError{
			Bus:      b.Name(),
			Port:     p.Name(),
			Side:     side,
			Occupied: b.attachments[idx].Side,
		}
	}

	slot := b.newSlot(side)
	if err := slot.Connect(p); err != nil {
		return err
	}

	b.commitSlot(side, slot)
	b.occupied[p.Name()] = len(b.attachments)
	b.attachments = append(b.attachments, Attachment{
		Side: side,
		Slot: slot,
		Peer: p,
	})

	return nil
}

func (b *Bus) newSlot(side Side) *sim.Port {
	if side == CPUSide {
		return sim.NewPort(b,
			sim.BuildNameWithIndex(b.Name(), "CPUSidePorts", b.numCPUSide),
			sim.PortKindBusCPUSide, sim.Responder)
	}

	return sim.NewPort(b,
		sim.BuildNameWithIndex(b.Name(), "MemSidePorts", b.numMemSide),
		sim.PortKindBusMemSide, sim.Requestor)
}

func (b *Bus) commitSlot(side Side, slot *sim.Port) {
	if side == CPUSide {
		b.AddPort(fmt.Sprintf("CPUSidePorts[%d]", b.numCPUSide), slot)
		b.numCPUSide++

		return
	}

	b.AddPort(fmt.Sprintf("MemSidePorts[%d]", b.numMemSide), slot)
	b.numMemSide++
}

// IsAttached returns true if the port holds a slot on the given side.
func (b *Bus) IsAttached(p *sim.Port, side Side) bool {
	if p == nil {
		return false
	}

	idx, found := b.occupied[p.Name()]
	if !found {
		return false
	}

	a := b.attachments[idx]

	return a.Side == side && a.Peer == p && a.Slot.IsConnectedTo(p)
}

// Attachments returns all attachments in the order they were made.
func (b *Bus) Attachments() []Attachment {
	list := make([]Attachment, len(b.attachments))
	copy(list, b.attachments)

	return list
}

// NumSlots returns the number of slots on the given side.
func (b *Bus) NumSlots(side Side) int {
	if side == CPUSide {
		return b.numCPUSide
	}

	return b.numMemSide
}

// Width returns the data path width in bytes.
func (b *Bus) Width() int {
	return b.width
}

// FrontendLatency returns the cycles a request spends in the bus front end.
func (b *Bus) FrontendLatency() int {
	return b.frontendLatency
}

// ForwardLatency returns the cycles to forward a request.
func (b *Bus) ForwardLatency() int {
	return b.forwardLatency
}

// ResponseLatency returns the cycles to return a response.
func (b *Bus) ResponseLatency() int {
	return b.responseLatency
}

// SnoopResponseLatency returns the cycles to return a snoop response.
func (b *Bus) SnoopResponseLatency() int {
	return b.snoopResponseLatency
}

// ClockDomain returns the clock domain the bus runs in.
func (b *Bus) ClockDomain() *sim.ClockDomain {
	return b.clockDomain
}

// PortConflictError is returned when a port is attached to a slot it, or
// another port of the same name, already holds.
type PortConflictError struct {
	Bus      string
	Port     string
	Side     Side
	Occupied Side
}

func (e *PortConflictError) Error() string {
	return fmt.Sprintf(
		"cannot attach %s as %s to %s: port already occupies a %s slot",
		e.Port, e.Side, e.Bus, e.Occupied,
	)
}
