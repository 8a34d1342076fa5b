package system

import (
	"fmt"

	"github.com/sarchlab/memsys/config"
	"github.com/sarchlab/memsys/cpu"
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/mem/cache"
	"github.com/sarchlab/memsys/mem/dram"
	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// Builder can build systems.
type Builder struct {
	options *config.Options
	hooks   []sim.Hook
}

// MakeBuilder creates a builder that uses the default options.
func MakeBuilder() Builder {
	return Builder{options: config.DefaultOptions()}
}

// WithOptions sets the options of the system.
func (b Builder) WithOptions(o *config.Options) Builder {
	b.options = o
	return b
}

// WithHook registers a hook on the built system before it is wired.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), h)
	return b
}

// A buildStep creates components and returns the connections that wire them.
type buildStep struct {
	name string
	run  func(b Builder, s *System) ([]Connection, error)
}

// Each step needs the ports created and connected by the steps before it.
var buildSteps = []buildStep{
	{"domains", Builder.buildDomains},
	{"cpu and caches", Builder.buildCPUAndCaches},
	{"buses and memory controller", Builder.buildBusesAndMemCtrl},
	{"interrupt controller", Builder.buildInterrupts},
	{"system port", Builder.buildSystemPort},
	{"workload", Builder.buildWorkload},
}

// Build assembles a system. The options are checked first. Any error aborts
// the build and the partial system is dropped.
func (b Builder) Build(name string) (*System, error) {
	if err := b.options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	s := New(name)
	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	for _, step := range buildSteps {
		conns, err := step.run(b, s)
		if err == nil {
			err = b.wire(s, conns...)
		}

		if err != nil {
			return nil, fmt.Errorf("failed to build %s of %s: %w",
				step.name, name, err)
		}
	}

	return s, nil
}

func (b Builder) buildDomains(s *System) ([]Connection, error) {
	clock, err := b.options.SystemClock()
	if err != nil {
		return nil, err
	}

	voltage, err := b.options.SystemVolts()
	if err != nil {
		return nil, err
	}

	s.clkDomain = sim.NewClockDomain(
		sim.BuildName(s.Name(), "ClkDomain"),
		clock,
		sim.NewVoltageDomain(
			sim.BuildName(s.Name(), "ClkDomain.VoltageDomain"), voltage),
	)
	s.cpuVoltageDomain = sim.NewVoltageDomain(
		sim.BuildName(s.Name(), "CPUVoltageDomain"), voltage)
	s.cpuClkDomain = sim.NewClockDomain(
		sim.BuildName(s.Name(), "CPUClkDomain"),
		clock,
		sim.NewVoltageDomain(
			sim.BuildName(s.Name(), "CPUClkDomain.VoltageDomain"), voltage),
	)

	return nil, nil
}

func (b Builder) buildCPUAndCaches(s *System) ([]Connection, error) {
	model, err := b.options.CPUModel()
	if err != nil {
		return nil, err
	}

	s.cpu = cpu.MakeBuilder().
		WithModel(model).
		WithClockDomain(s.cpuClkDomain).
		Build(sim.BuildName(s.Name(), "CPU"))

	s.icache, err = b.buildCache(cache.RoleInstruction,
		sim.BuildName(s.cpu.Name(), "ICache"), s.cpuClkDomain)
	if err != nil {
		return nil, err
	}

	s.dcache, err = b.buildCache(cache.RoleData,
		sim.BuildName(s.cpu.Name(), "DCache"), s.cpuClkDomain)
	if err != nil {
		return nil, err
	}

	if b.options.L2 {
		s.l2, err = b.buildCache(cache.RoleUnifiedL2,
			sim.BuildName(s.Name(), "L2Cache"), s.clkDomain)
		if err != nil {
			return nil, err
		}
	}

	return []Connection{ICacheToCPU, DCacheToCPU}, nil
}

func (b Builder) buildCache(
	role cache.Role,
	name string,
	cd *sim.ClockDomain,
) (*cache.Comp, error) {
	return cache.MakeBuilder().
		WithRole(role).
		WithOptions(b.options).
		WithClockDomain(cd).
		Build(name)
}

func (b Builder) buildBusesAndMemCtrl(s *System) ([]Connection, error) {
	s.memMode = b.options.MemMode

	memSize, err := b.options.MemoryBytes()
	if err != nil {
		return nil, err
	}

	s.memRanges = []mem.AddrRange{mem.NewAddrRangeOfSize(memSize)}

	s.memBus = bus.MakeBuilder().
		WithClockDomain(s.clkDomain).
		Build(sim.BuildName(s.Name(), "MemBus"))

	if s.l2 != nil {
		s.l2Bus = bus.MakeL2Builder().
			WithClockDomain(s.clkDomain).
			Build(sim.BuildName(s.Name(), "L2Bus"))
	}

	s.memCtrl = dram.NewComp(sim.BuildName(s.Name(), "MemCtrl"))

	return []Connection{
		ICacheToBus, DCacheToBus, L2ToL2Bus, L2ToBus, MemCtrlToBus,
	}, nil
}

func (b Builder) buildInterrupts(s *System) ([]Connection, error) {
	s.cpu.CreateInterruptController()

	return []Connection{InterruptsToBus}, nil
}

func (b Builder) buildSystemPort(*System) ([]Connection, error) {
	return []Connection{SystemPortToBus}, nil
}

func (b Builder) buildWorkload(s *System) ([]Connection, error) {
	binary := b.options.Binary
	if binary == "" {
		return nil, nil
	}

	s.cpu.SetWorkload(cpu.Process{
		Cmd:        []string{binary},
		Executable: binary,
	})
	s.cpu.CreateThreads()
	s.workload = InitCompatible(binary)

	return nil, nil
}

// wire makes the given connections in order. Connections that do not apply
// to the system, such as the L2 links of a system without L2, are skipped.
func (b Builder) wire(s *System, conns ...Connection) error {
	for _, c := range conns {
		connect := b.connector(s, c)
		if connect == nil {
			continue
		}

		if err := connect(); err != nil {
			return fmt.Errorf("failed to connect %s: %w", c, err)
		}

		s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosConnected, Item: c})
	}

	return nil
}

func (b Builder) connector(s *System, c Connection) func() error {
	switch c {
	case ICacheToCPU:
		return func() error { return s.icache.ConnectToCPU(s.cpu.ICachePort()) }
	case DCacheToCPU:
		return func() error { return s.dcache.ConnectToCPU(s.cpu.DCachePort()) }
	case ICacheToBus:
		return func() error { return s.icache.ConnectToBus(s.l1Bus()) }
	case DCacheToBus:
		return func() error { return s.dcache.ConnectToBus(s.l1Bus()) }
	case L2ToL2Bus:
		if s.l2 == nil {
			return nil
		}

		return func() error { return s.l2.ConnectCPUSideBus(s.l2Bus) }
	case L2ToBus:
		if s.l2 == nil {
			return nil
		}

		return func() error { return s.l2.ConnectToBus(s.memBus) }
	case MemCtrlToBus:
		return func() error { return b.bindMemCtrl(s) }
	case InterruptsToBus:
		return func() error { return wireInterrupts(s) }
	case SystemPortToBus:
		return func() error { return s.memBus.Attach(s.systemPort, bus.CPUSide) }
	default:
		panic(fmt.Sprintf("unknown connection %d", int(c)))
	}
}

func (b Builder) bindMemCtrl(s *System) error {
	model, err := b.options.DRAMModel()
	if err != nil {
		return err
	}

	return s.memCtrl.Bind(model, s.memRanges[0], s.memBus)
}

func wireInterrupts(s *System) error {
	intr := s.cpu.Interrupts()[0]

	if err := s.memBus.Attach(intr.PIO(), bus.MemSide); err != nil {
		return err
	}

	if err := s.memBus.Attach(intr.IntRequestor(), bus.CPUSide); err != nil {
		return err
	}

	return s.memBus.Attach(intr.IntResponder(), bus.MemSide)
}
