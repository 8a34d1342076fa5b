package dram

import (
	"fmt"

	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// Comp describes a memory controller that serves an address range with a
// DRAM timing model.
type Comp struct {
	*sim.ComponentBase

	port      *sim.Port
	model     TimingModel
	addrRange mem.AddrRange
	bound     bool
}

// NewComp creates an unbound memory controller.
func NewComp(name string) *Comp {
	c := &Comp{ComponentBase: sim.NewComponentBase(name)}
	c.port = sim.NewPort(c, name+".Port", sim.PortKindMemCtrl, sim.Responder)
	c.AddPort("Port", c.port)

	return c
}

// Bind sets the DRAM model and the address range the controller serves and
// attaches the controller port to a mem-side slot of the bus. The range must
// not be empty or inverted. On error, the controller is left unbound.
func (c *Comp) Bind(model TimingModel, r mem.AddrRange, b *bus.Bus) error {
	if r.IsDegenerate() {
		return &InvalidRangeError{
			Component: c.Name(),
			Range:     r,
			Reason:    "limit must be greater than base",
		}
	}

	if c.port.IsConnected() {
		return &sim.AlreadyConnectedError{
			Port: c.port.Name(),
			Peer: c.port.Peer().Name(),
		}
	}

	if err := b.Attach(c.port, bus.MemSide); err != nil {
		return fmt.Errorf("failed to bind %s: %w", c.Name(), err)
	}

	c.model = model
	c.addrRange = r
	c.bound = true

	return nil
}

// IsBound returns true after a successful Bind.
func (c *Comp) IsBound() bool {
	return c.bound
}

// Port returns the port that accepts memory requests.
func (c *Comp) Port() *sim.Port {
	return c.port
}

// TimingModel returns the bound DRAM model.
func (c *Comp) TimingModel() TimingModel {
	return c.model
}

// AddrRange returns the bound address range.
func (c *Comp) AddrRange() mem.AddrRange {
	return c.addrRange
}

// InvalidRangeError is returned when an address range is empty, inverted, or
// not served by the system memory.
type InvalidRangeError struct {
	Component string
	Range     mem.AddrRange
	Reason    string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf(
		"invalid address range %s for %s: %s",
		e.Range, e.Component, e.Reason,
	)
}
