package cache

import (
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/sim"
)

// Role is the place a cache takes in the hierarchy.
type Role int

// The closed set of cache roles.
const (
	RoleBase Role = iota
	RoleInstruction
	RoleData
	RoleUnifiedL2
)

func (r Role) String() string {
	return r.traits().name
}

type roleTraits struct {
	name            string
	defaultSize     uint64
	sizeOption      string
	cpuPortKind     sim.PortKind
	canBindCPU      bool
	assoc           int
	tagLatency      int
	dataLatency     int
	responseLatency int
	mshrs           int
	tgtsPerMSHR     int
}

var baseTraits = roleTraits{
	name:            "base",
	assoc:           2,
	tagLatency:      2,
	dataLatency:     2,
	responseLatency: 2,
	mshrs:           4,
	tgtsPerMSHR:     20,
}

func (r Role) traits() roleTraits {
	t := baseTraits

	switch r {
	case RoleBase:
	case RoleInstruction:
		t.name = "instruction"
		t.defaultSize = 64 * mem.KB
		t.sizeOption = "l1i_size"
		t.cpuPortKind = sim.PortKindInstFetch
		t.canBindCPU = true
	case RoleData:
		t.name = "data"
		t.defaultSize = 256 * mem.KB
		t.sizeOption = "l1d_size"
		t.cpuPortKind = sim.PortKindDataAccess
		t.canBindCPU = true
	case RoleUnifiedL2:
		t.name = "unified-l2"
		t.defaultSize = 1 * mem.MB
		t.sizeOption = "l2_size"
		t.cpuPortKind = sim.PortKindBusMemSide
		t.canBindCPU = true
		t.assoc = 8
		t.tagLatency = 20
		t.dataLatency = 20
		t.responseLatency = 20
		t.mshrs = 20
		t.tgtsPerMSHR = 12
	default:
		panic("unknown cache role")
	}

	return t
}

// DefaultSize returns the size a cache of the role has when nothing
// overrides it. The base role has no default size.
func (r Role) DefaultSize() uint64 {
	return r.traits().defaultSize
}

// SizeOption returns the key of the option that overrides the size of the
// role, such as "l1d_size".
func (r Role) SizeOption() string {
	return r.traits().sizeOption
}

// CPUPortKind returns the kind of port a cache of the role binds its
// cpu-side port to.
func (r Role) CPUPortKind() sim.PortKind {
	return r.traits().cpuPortKind
}
