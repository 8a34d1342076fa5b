// Package cache describes the caches of the memory hierarchy.
package cache

import (
	"fmt"

	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// Comp describes a cache. Apart from its ports, a Comp does not change after
// it is built.
type Comp struct {
	*sim.ComponentBase

	role        Role
	clockDomain *sim.ClockDomain

	size            uint64
	blockSize       int
	assoc           int
	tagLatency      int
	dataLatency     int
	responseLatency int
	mshrs           int
	tgtsPerMSHR     int

	cpuSide *sim.Port
	memSide *sim.Port
}

// Role returns the role of the cache.
func (c *Comp) Role() Role { return c.role }

// ClockDomain returns the clock domain of the cache.
func (c *Comp) ClockDomain() *sim.ClockDomain { return c.clockDomain }

// Size returns the capacity in bytes.
func (c *Comp) Size() uint64 { return c.size }

// BlockSize returns the cache line size in bytes.
func (c *Comp) BlockSize() int { return c.blockSize }

// Associativity returns the number of ways.
func (c *Comp) Associativity() int { return c.assoc }

// NumSets returns the number of sets.
func (c *Comp) NumSets() int {
	return int(c.size / uint64(c.blockSize*c.assoc))
}

// TagLatency returns the tag lookup latency in cycles.
func (c *Comp) TagLatency() int { return c.tagLatency }

// DataLatency returns the data access latency in cycles.
func (c *Comp) DataLatency() int { return c.dataLatency }

// ResponseLatency returns the response latency in cycles.
func (c *Comp) ResponseLatency() int { return c.responseLatency }

// NumMSHR returns the number of MSHR entries.
func (c *Comp) NumMSHR() int { return c.mshrs }

// TargetsPerMSHR returns the number of targets per MSHR entry.
func (c *Comp) TargetsPerMSHR() int { return c.tgtsPerMSHR }

// CPUSidePort returns the port that accepts requests.
func (c *Comp) CPUSidePort() *sim.Port { return c.cpuSide }

// MemSidePort returns the port that sends requests to the next level.
func (c *Comp) MemSidePort() *sim.Port { return c.memSide }

// ConnectToCPU binds the cpu-side port to a port of the level below. The kind
// of the port must match the role. On error, the cpu-side port stays unbound.
func (c *Comp) ConnectToCPU(p *sim.Port) error {
	t := c.role.traits()
	if !t.canBindCPU {
		return &UnsupportedOperationError{
			Component: c.Name(),
			Operation: "ConnectToCPU",
			Role:      c.role,
		}
	}

	if p.Kind() != t.cpuPortKind {
		return &RoleMismatchError{
			Component: c.Name(),
			Role:      c.role,
			Port:      p.Name(),
			Expected:  t.cpuPortKind,
			Actual:    p.Kind(),
		}
	}

	return c.cpuSide.Connect(p)
}

// ConnectToBus attaches the mem-side port to a cpu-side slot of the bus.
func (c *Comp) ConnectToBus(b *bus.Bus) error {
	if c.memSide.IsConnected() {
		return &sim.AlreadyConnectedError{
			Port: c.memSide.Name(),
			Peer: c.memSide.Peer().Name(),
		}
	}

	return b.Attach(c.memSide, bus.CPUSide)
}

// ConnectCPUSideBus attaches the cpu-side port of an L2 cache to a mem-side
// slot of the bus that the L1 caches send requests to.
func (c *Comp) ConnectCPUSideBus(b *bus.Bus) error {
	if c.role != RoleUnifiedL2 {
		return &UnsupportedOperationError{
			Component: c.Name(),
			Operation: "ConnectCPUSideBus",
			Role:      c.role,
		}
	}

	if c.cpuSide.IsConnected() {
		return &sim.AlreadyConnectedError{
			Port: c.cpuSide.Name(),
			Peer: c.cpuSide.Peer().Name(),
		}
	}

	return b.Attach(c.cpuSide, bus.MemSide)
}

// RoleMismatchError is returned when a cache is bound to a port of a kind that
// its role does not serve.
type RoleMismatchError struct {
	Component string
	Role      Role
	Port      string
	Expected  sim.PortKind
	Actual    sim.PortKind
}

func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf(
		"%s cache %s cannot bind to %s port %s, expecting a %s port",
		e.Role, e.Component, e.Actual, e.Port, e.Expected,
	)
}

// UnsupportedOperationError is returned when the role of a cache does not
// provide an operation.
type UnsupportedOperationError struct {
	Component string
	Operation string
	Role      Role
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf(
		"%s is not supported by %s cache %s",
		e.Operation, e.Role, e.Component,
	)
}

// InvalidSpecError is returned when the geometry of a cache is not valid.
type InvalidSpecError struct {
	Component string
	Reason    string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid cache %s: %s", e.Component, e.Reason)
}
