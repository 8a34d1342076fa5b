package system

import (
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/mem/cache"
	"github.com/sarchlab/memsys/noc/bus"
	"github.com/sarchlab/memsys/sim"
)

// Description is a plain, serializable view of a system.
type Description struct {
	Name        string              `yaml:"name" json:"name"`
	MemMode     string              `yaml:"mem_mode" json:"mem_mode"`
	MemRanges   []string            `yaml:"mem_ranges" json:"mem_ranges"`
	Domains     []DomainDescription `yaml:"domains" json:"domains"`
	CPU         *CPUDescription     `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	Caches      []CacheDescription  `yaml:"caches" json:"caches"`
	Buses       []BusDescription    `yaml:"buses" json:"buses"`
	MemCtrl     *MemCtrlDescription `yaml:"mem_ctrl,omitempty" json:"mem_ctrl,omitempty"`
	Connections []Link              `yaml:"connections" json:"connections"`
	Workload    string              `yaml:"workload,omitempty" json:"workload,omitempty"`
}

// DomainDescription describes a clock domain and its voltage domain.
type DomainDescription struct {
	Name          string `yaml:"name" json:"name"`
	Clock         string `yaml:"clock" json:"clock"`
	VoltageDomain string `yaml:"voltage_domain" json:"voltage_domain"`
	Voltage       string `yaml:"voltage" json:"voltage"`
}

// CPUDescription describes the CPU.
type CPUDescription struct {
	Name       string `yaml:"name" json:"name"`
	Model      string `yaml:"model" json:"model"`
	NumThreads int    `yaml:"num_threads" json:"num_threads"`
}

// CacheDescription describes a cache.
type CacheDescription struct {
	Name            string `yaml:"name" json:"name"`
	Role            string `yaml:"role" json:"role"`
	Size            string `yaml:"size" json:"size"`
	Assoc           int    `yaml:"assoc" json:"assoc"`
	TagLatency      int    `yaml:"tag_latency" json:"tag_latency"`
	DataLatency     int    `yaml:"data_latency" json:"data_latency"`
	ResponseLatency int    `yaml:"response_latency" json:"response_latency"`
	MSHRs           int    `yaml:"mshrs" json:"mshrs"`
	TgtsPerMSHR     int    `yaml:"tgts_per_mshr" json:"tgts_per_mshr"`
}

// BusDescription describes a bus.
type BusDescription struct {
	Name         string `yaml:"name" json:"name"`
	Width        int    `yaml:"width" json:"width"`
	CPUSideSlots int    `yaml:"cpu_side_slots" json:"cpu_side_slots"`
	MemSideSlots int    `yaml:"mem_side_slots" json:"mem_side_slots"`
}

// MemCtrlDescription describes the memory controller.
type MemCtrlDescription struct {
	Name  string `yaml:"name" json:"name"`
	DRAM  string `yaml:"dram" json:"dram"`
	Range string `yaml:"range" json:"range"`
}

// Link is a connection between a requestor port and a responder port.
type Link struct {
	Requestor string `yaml:"requestor" json:"requestor"`
	Responder string `yaml:"responder" json:"responder"`
}

// Describe returns the description of the system.
func (s *System) Describe() Description {
	d := Description{
		Name:        s.Name(),
		MemMode:     s.memMode,
		Connections: s.Links(),
	}

	for _, r := range s.memRanges {
		d.MemRanges = append(d.MemRanges, mem.FormatByteSize(r.Size()))
	}

	for _, cd := range []*sim.ClockDomain{s.clkDomain, s.cpuClkDomain} {
		if cd != nil {
			d.Domains = append(d.Domains, describeDomain(cd))
		}
	}

	if s.cpu != nil {
		d.CPU = &CPUDescription{
			Name:       s.cpu.Name(),
			Model:      string(s.cpu.Model()),
			NumThreads: s.cpu.NumThreads(),
		}
	}

	for _, c := range []*cache.Comp{s.icache, s.dcache, s.l2} {
		if c != nil {
			d.Caches = append(d.Caches, describeCache(c))
		}
	}

	for _, b := range []*bus.Bus{s.l2Bus, s.memBus} {
		if b != nil {
			d.Buses = append(d.Buses, BusDescription{
				Name:         b.Name(),
				Width:        b.Width(),
				CPUSideSlots: b.NumSlots(bus.CPUSide),
				MemSideSlots: b.NumSlots(bus.MemSide),
			})
		}
	}

	if s.memCtrl != nil && s.memCtrl.IsBound() {
		d.MemCtrl = &MemCtrlDescription{
			Name:  s.memCtrl.Name(),
			DRAM:  s.memCtrl.TimingModel().Name,
			Range: s.memCtrl.AddrRange().String(),
		}
	}

	if s.workload != nil {
		d.Workload = s.workload.Binary
	}

	return d
}

func describeDomain(cd *sim.ClockDomain) DomainDescription {
	d := DomainDescription{
		Name:  cd.Name(),
		Clock: cd.Clock().String(),
	}

	if vd := cd.VoltageDomain(); vd != nil {
		d.VoltageDomain = vd.Name()
		d.Voltage = vd.Voltage().String()
	}

	return d
}

func describeCache(c *cache.Comp) CacheDescription {
	return CacheDescription{
		Name:            c.Name(),
		Role:            c.Role().String(),
		Size:            mem.FormatByteSize(c.Size()),
		Assoc:           c.Associativity(),
		TagLatency:      c.TagLatency(),
		DataLatency:     c.DataLatency(),
		ResponseLatency: c.ResponseLatency(),
		MSHRs:           c.NumMSHR(),
		TgtsPerMSHR:     c.TargetsPerMSHR(),
	}
}

// Links lists every connected port pair once, from the requestor side, in
// component order.
func (s *System) Links() []Link {
	var links []Link

	for _, p := range s.allPorts() {
		if p.Direction() == sim.Requestor && p.IsConnected() {
			links = append(links, Link{
				Requestor: p.Name(),
				Responder: p.Peer().Name(),
			})
		}
	}

	return links
}

func (s *System) allPorts() []*sim.Port {
	var ports []*sim.Port
	for _, c := range s.Components() {
		ports = append(ports, c.Ports()...)
	}

	return ports
}
