// Package cpu describes the processor that drives the memory hierarchy: its
// cache ports, its interrupt controller and the process it runs.
package cpu

import (
	"fmt"

	"github.com/sarchlab/memsys/sim"
)

// Model names a CPU model understood by the simulation engine.
type Model string

// A list of supported CPU models.
const (
	TimingSimpleCPU Model = "TimingSimpleCPU"
	AtomicSimpleCPU Model = "AtomicSimpleCPU"
	O3CPU           Model = "O3CPU"
)

// ParseModel converts a model name into a Model.
func ParseModel(s string) (Model, error) {
	switch m := Model(s); m {
	case TimingSimpleCPU, AtomicSimpleCPU, O3CPU:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported CPU model %q", s)
	}
}

// Models returns the supported CPU models.
func Models() []Model {
	return []Model{TimingSimpleCPU, AtomicSimpleCPU, O3CPU}
}

// A Process is the program image a CPU executes.
type Process struct {
	Cmd        []string
	Executable string
}

// Comp describes a CPU.
type Comp struct {
	*sim.ComponentBase

	model       Model
	clockDomain *sim.ClockDomain

	icachePort *sim.Port
	dcachePort *sim.Port
	interrupts []*Interrupts

	workload   *Process
	numThreads int
}

// MakeBuilder creates a CPU builder.
func MakeBuilder() Builder {
	return Builder{model: TimingSimpleCPU}
}

// Builder can build CPUs.
type Builder struct {
	model       Model
	clockDomain *sim.ClockDomain
}

// WithModel sets the CPU model.
func (b Builder) WithModel(m Model) Builder {
	b.model = m
	return b
}

// WithClockDomain sets the clock domain the CPU runs in.
func (b Builder) WithClockDomain(cd *sim.ClockDomain) Builder {
	b.clockDomain = cd
	return b
}

// Build creates a CPU with its instruction fetch and data access ports.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ComponentBase: sim.NewComponentBase(name),
		model:         b.model,
		clockDomain:   b.clockDomain,
	}

	c.icachePort = sim.NewPort(c, name+".ICachePort",
		sim.PortKindInstFetch, sim.Requestor)
	c.dcachePort = sim.NewPort(c, name+".DCachePort",
		sim.PortKindDataAccess, sim.Requestor)
	c.AddPort("ICachePort", c.icachePort)
	c.AddPort("DCachePort", c.dcachePort)

	return c
}

// Model returns the CPU model.
func (c *Comp) Model() Model {
	return c.model
}

// ClockDomain returns the clock domain of the CPU.
func (c *Comp) ClockDomain() *sim.ClockDomain {
	return c.clockDomain
}

// ICachePort returns the port that fetches instructions.
func (c *Comp) ICachePort() *sim.Port {
	return c.icachePort
}

// DCachePort returns the port that loads and stores data.
func (c *Comp) DCachePort() *sim.Port {
	return c.dcachePort
}

// CreateInterruptController creates the interrupt controller of the next
// hardware thread context and returns it.
func (c *Comp) CreateInterruptController() *Interrupts {
	idx := len(c.interrupts)
	name := sim.BuildNameWithIndex(c.Name(), "Interrupts", idx)
	intr := newInterrupts(name)
	c.interrupts = append(c.interrupts, intr)

	c.AddPort(fmt.Sprintf("Interrupts[%d].PIO", idx), intr.pio)
	c.AddPort(fmt.Sprintf("Interrupts[%d].IntRequestor", idx), intr.intRequestor)
	c.AddPort(fmt.Sprintf("Interrupts[%d].IntResponder", idx), intr.intResponder)

	return intr
}

// Interrupts returns the interrupt controllers created so far.
func (c *Comp) Interrupts() []*Interrupts {
	return c.interrupts
}

// SetWorkload binds the process the CPU executes. The executable is not
// inspected here; the engine's loader reports a bad path.
func (c *Comp) SetWorkload(p Process) {
	c.workload = &p
}

// Workload returns the bound process, or nil.
func (c *Comp) Workload() *Process {
	return c.workload
}

// CreateThreads creates one hardware thread per bound workload.
func (c *Comp) CreateThreads() {
	if c.workload == nil {
		panic("cannot create threads before a workload is bound")
	}

	c.numThreads = 1
}

// NumThreads returns the number of hardware threads created.
func (c *Comp) NumThreads() int {
	return c.numThreads
}
