// Package system assembles the CPU, the caches, the buses and the memory
// controller into one description that an engine can instantiate.
package system

import (
	"github.com/sarchlab/memsys/cpu"
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/mem/cache"
	"github.com/sarchlab/memsys/mem/dram"
	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// System is the root of an assembled memory system. A System is built once
// per run. After a failed build it must be discarded.
type System struct {
	*sim.ComponentBase
	*sim.HookableBase

	clkDomain        *sim.ClockDomain
	cpuClkDomain     *sim.ClockDomain
	cpuVoltageDomain *sim.VoltageDomain

	memMode   string
	memRanges []mem.AddrRange

	cpu     *cpu.Comp
	icache  *cache.Comp
	dcache  *cache.Comp
	l2      *cache.Comp
	memBus  *bus.Bus
	l2Bus   *bus.Bus
	memCtrl *dram.Comp

	systemPort *sim.Port
	workload   *SEWorkload
}

// New creates a system that has nothing in it yet.
func New(name string) *System {
	s := &System{
		ComponentBase: sim.NewComponentBase(name),
		HookableBase:  sim.NewHookableBase(),
	}
	s.systemPort = sim.NewPort(s, name+".SystemPort",
		sim.PortKindSystem, sim.Requestor)
	s.AddPort("SystemPort", s.systemPort)

	return s
}

// ClockDomain returns the top-level clock domain.
func (s *System) ClockDomain() *sim.ClockDomain {
	return s.clkDomain
}

// CPUClockDomain returns the clock domain of the CPU.
func (s *System) CPUClockDomain() *sim.ClockDomain {
	return s.cpuClkDomain
}

// CPUVoltageDomain returns the voltage domain of the CPU.
func (s *System) CPUVoltageDomain() *sim.VoltageDomain {
	return s.cpuVoltageDomain
}

// MemMode returns the memory access mode, "timing" or "atomic".
func (s *System) MemMode() string {
	return s.memMode
}

// MemRanges returns the physical memory ranges of the system.
func (s *System) MemRanges() []mem.AddrRange {
	return append([]mem.AddrRange(nil), s.memRanges...)
}

// CPU returns the CPU.
func (s *System) CPU() *cpu.Comp {
	return s.cpu
}

// ICache returns the L1 instruction cache.
func (s *System) ICache() *cache.Comp {
	return s.icache
}

// DCache returns the L1 data cache.
func (s *System) DCache() *cache.Comp {
	return s.dcache
}

// L2 returns the L2 cache, or nil if the system has none.
func (s *System) L2() *cache.Comp {
	return s.l2
}

// MemBus returns the system crossbar.
func (s *System) MemBus() *bus.Bus {
	return s.memBus
}

// L2Bus returns the bus between the L1 caches and the L2 cache, or nil.
func (s *System) L2Bus() *bus.Bus {
	return s.l2Bus
}

// MemCtrl returns the memory controller.
func (s *System) MemCtrl() *dram.Comp {
	return s.memCtrl
}

// SystemPort returns the port the engine uses for functional accesses.
func (s *System) SystemPort() *sim.Port {
	return s.systemPort
}

// Workload returns the workload, or nil if no binary is bound.
func (s *System) Workload() *SEWorkload {
	return s.workload
}

// Components returns every component of the system, the system first.
func (s *System) Components() []sim.Component {
	list := []sim.Component{s}

	if s.cpu != nil {
		list = append(list, s.cpu)
	}

	for _, c := range []*cache.Comp{s.icache, s.dcache, s.l2} {
		if c != nil {
			list = append(list, c)
		}
	}

	for _, b := range []*bus.Bus{s.l2Bus, s.memBus} {
		if b != nil {
			list = append(list, b)
		}
	}

	if s.memCtrl != nil {
		list = append(list, s.memCtrl)
	}

	return list
}

// SEWorkload is the syscall-emulation workload of the system.
type SEWorkload struct {
	Binary string
}

// InitCompatible creates a workload that can run the binary.
func InitCompatible(binary string) *SEWorkload {
	return &SEWorkload{Binary: binary}
}
