package system

import (
	"fmt"

	"github.com/sarchlab/memsys/mem/dram"
	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// Connection names a link that a complete system must have.
type Connection int

// HookPosConnected is invoked by the builder after a connection is made. The
// item is the Connection.
var HookPosConnected = &sim.HookPos{Name: "Connected"}

// Connections in the order they are checked.
const (
	ICacheToCPU Connection = iota
	DCacheToCPU
	ICacheToBus
	DCacheToBus
	MemCtrlToBus
	InterruptsToBus
	SystemPortToBus
	L2ToL2Bus
	L2ToBus
)

var connectionNames = map[Connection]string{
	ICacheToCPU:     "icache->cpu",
	DCacheToCPU:     "dcache->cpu",
	ICacheToBus:     "icache->bus",
	DCacheToBus:     "dcache->bus",
	MemCtrlToBus:    "memctrl->bus",
	InterruptsToBus: "interrupts->bus",
	SystemPortToBus: "system-port->bus",
	L2ToL2Bus:       "l2->l2bus",
	L2ToBus:         "l2->bus",
}

func (c Connection) String() string {
	if n, ok := connectionNames[c]; ok {
		return n
	}

	return fmt.Sprintf("Connection(%d)", int(c))
}

// RequiredConnections lists the connections the system must have, in the
// order Validate checks them.
func (s *System) RequiredConnections() []Connection {
	conns := []Connection{
		ICacheToCPU,
		DCacheToCPU,
		ICacheToBus,
		DCacheToBus,
		MemCtrlToBus,
		InterruptsToBus,
		SystemPortToBus,
	}

	if s.l2 != nil {
		conns = append(conns, L2ToL2Bus, L2ToBus)
	}

	return conns
}

// HasConnection returns true if the connection is in place.
func (s *System) HasConnection(c Connection) bool {
	switch c {
	case ICacheToCPU:
		return s.cpu != nil && s.icache != nil &&
			s.icache.CPUSidePort().IsConnectedTo(s.cpu.ICachePort())
	case DCacheToCPU:
		return s.cpu != nil && s.dcache != nil &&
			s.dcache.CPUSidePort().IsConnectedTo(s.cpu.DCachePort())
	case ICacheToBus:
		return s.icache != nil &&
			attached(s.l1Bus(), s.icache.MemSidePort(), bus.CPUSide)
	case DCacheToBus:
		return s.dcache != nil &&
			attached(s.l1Bus(), s.dcache.MemSidePort(), bus.CPUSide)
	case MemCtrlToBus:
		return s.memCtrl != nil &&
			attached(s.memBus, s.memCtrl.Port(), bus.MemSide)
	case InterruptsToBus:
		return s.hasInterruptWiring()
	case SystemPortToBus:
		return attached(s.memBus, s.systemPort, bus.CPUSide)
	case L2ToL2Bus:
		return s.l2 != nil &&
			attached(s.l2Bus, s.l2.CPUSidePort(), bus.MemSide)
	case L2ToBus:
		return s.l2 != nil &&
			attached(s.memBus, s.l2.MemSidePort(), bus.CPUSide)
	default:
		panic(fmt.Sprintf("unknown connection %d", int(c)))
	}
}

func (s *System) hasInterruptWiring() bool {
	if s.cpu == nil || len(s.cpu.Interrupts()) == 0 {
		return false
	}

	intr := s.cpu.Interrupts()[0]

	return attached(s.memBus, intr.PIO(), bus.MemSide) &&
		attached(s.memBus, intr.IntRequestor(), bus.CPUSide) &&
		attached(s.memBus, intr.IntResponder(), bus.MemSide)
}

// l1Bus is the bus the L1 caches send misses to.
func (s *System) l1Bus() *bus.Bus {
	if s.l2 != nil {
		return s.l2Bus
	}

	return s.memBus
}

func attached(b *bus.Bus, p *sim.Port, side bus.Side) bool {
	return b != nil && b.IsAttached(p, side)
}

// Validate checks that the system can be handed to an engine. It reports the
// first missing connection and then checks that the memory controller serves
// a part of the system memory. Validate never changes the system.
func (s *System) Validate() error {
	for _, c := range s.RequiredConnections() {
		if !s.HasConnection(c) {
			return &IncompleteTopologyError{System: s.Name(), Missing: c}
		}
	}

	r := s.memCtrl.AddrRange()
	for _, sysRange := range s.memRanges {
		if sysRange.Covers(r) {
			return nil
		}
	}

	return &dram.InvalidRangeError{
		Component: s.memCtrl.Name(),
		Range:     r,
		Reason:    "not within the system memory ranges",
	}
}

// IncompleteTopologyError is returned by Validate when a required connection
// is missing.
type IncompleteTopologyError struct {
	System  string
	Missing Connection
}

func (e *IncompleteTopologyError) Error() string {
	return fmt.Sprintf(
		"system %s is incomplete: missing connection %s",
		e.System, e.Missing,
	)
}
