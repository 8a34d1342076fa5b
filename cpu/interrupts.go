package cpu

import "github.com/sarchlab/memsys/sim"

// Interrupts describes an interrupt controller. It is programmed through PIO,
// raises interrupts through IntRequestor and receives them through
// IntResponder.
type Interrupts struct {
	name string

	pio          *sim.Port
	intRequestor *sim.Port
	intResponder *sim.Port
}

func newInterrupts(name string) *Interrupts {
	i := &Interrupts{name: name}

	i.pio = sim.NewPort(i, name+".PIO", sim.PortKindPIO, sim.Responder)
	i.intRequestor = sim.NewPort(i, name+".IntRequestor",
		sim.PortKindIntRequestor, sim.Requestor)
	i.intResponder = sim.NewPort(i, name+".IntResponder",
		sim.PortKindIntResponder, sim.Responder)

	return i
}

// Name returns the name of the interrupt controller.
func (i *Interrupts) Name() string {
	return i.name
}

// PIO returns the programmed I/O port.
func (i *Interrupts) PIO() *sim.Port {
	return i.pio
}

// IntRequestor returns the port that sends interrupt requests.
func (i *Interrupts) IntRequestor() *sim.Port {
	return i.intRequestor
}

// IntResponder returns the port that receives interrupt requests.
func (i *Interrupts) IntResponder() *sim.Port {
	return i.intResponder
}

// Ports returns the three ports in wiring order.
func (i *Interrupts) Ports() []*sim.Port {
	return []*sim.Port{i.pio, i.intRequestor, i.intResponder}
}
