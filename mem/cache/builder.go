package cache

import (
	"github.com/sarchlab/memsys/config"
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/sim"
)

// Builder can build caches.
type Builder struct {
	role        Role
	options     *config.Options
	clockDomain *sim.ClockDomain

	size            uint64
	blockSize       int
	assoc           int
	tagLatency      int
	dataLatency     int
	responseLatency int
	mshrs           int
	tgtsPerMSHR     int
}

// MakeBuilder creates a builder for a base cache.
func MakeBuilder() Builder {
	return Builder{blockSize: 64}.WithRole(RoleBase)
}

// WithRole sets the role and resets the geometry to the defaults of the role.
// Call it before the other setters.
func (b Builder) WithRole(role Role) Builder {
	t := role.traits()

	b.role = role
	b.size = t.defaultSize
	b.assoc = t.assoc
	b.tagLatency = t.tagLatency
	b.dataLatency = t.dataLatency
	b.responseLatency = t.responseLatency
	b.mshrs = t.mshrs
	b.tgtsPerMSHR = t.tgtsPerMSHR

	return b
}

// WithOptions sets the options that may override the size of the cache.
func (b Builder) WithOptions(o *config.Options) Builder {
	b.options = o
	return b
}

// WithClockDomain sets the clock domain the cache runs in.
func (b Builder) WithClockDomain(cd *sim.ClockDomain) Builder {
	b.clockDomain = cd
	return b
}

// WithSize sets the capacity in bytes. A size option for the role still
// takes precedence.
func (b Builder) WithSize(size uint64) Builder {
	b.size = size
	return b
}

// WithBlockSize sets the cache line size in bytes.
func (b Builder) WithBlockSize(n int) Builder {
	b.blockSize = n
	return b
}

// WithAssociativity sets the number of ways.
func (b Builder) WithAssociativity(n int) Builder {
	b.assoc = n
	return b
}

// WithTagLatency sets the tag lookup latency in cycles.
func (b Builder) WithTagLatency(cycles int) Builder {
	b.tagLatency = cycles
	return b
}

// WithDataLatency sets the data access latency in cycles.
func (b Builder) WithDataLatency(cycles int) Builder {
	b.dataLatency = cycles
	return b
}

// WithResponseLatency sets the latency of returning a response, in cycles.
func (b Builder) WithResponseLatency(cycles int) Builder {
	b.responseLatency = cycles
	return b
}

// WithNumMSHR sets the number of miss status holding registers.
func (b Builder) WithNumMSHR(n int) Builder {
	b.mshrs = n
	return b
}

// WithTargetsPerMSHR sets the number of requests one MSHR entry can merge.
func (b Builder) WithTargetsPerMSHR(n int) Builder {
	b.tgtsPerMSHR = n
	return b
}

// Build creates the cache. The size option of the role, if present in the
// options, is read here and nowhere else.
func (b Builder) Build(name string) (*Comp, error) {
	size, err := b.effectiveSize(name)
	if err != nil {
		return nil, err
	}

	if err := b.mustBeFullSets(name, size); err != nil {
		return nil, err
	}

	c := &Comp{
		ComponentBase:   sim.NewComponentBase(name),
		role:            b.role,
		clockDomain:     b.clockDomain,
		size:            size,
		blockSize:       b.blockSize,
		assoc:           b.assoc,
		tagLatency:      b.tagLatency,
		dataLatency:     b.dataLatency,
		responseLatency: b.responseLatency,
		mshrs:           b.mshrs,
		tgtsPerMSHR:     b.tgtsPerMSHR,
	}

	c.cpuSide = sim.NewPort(c, name+".CPUSidePort",
		sim.PortKindCacheCPUSide, sim.Responder)
	c.memSide = sim.NewPort(c, name+".MemSidePort",
		sim.PortKindCacheMemSide, sim.Requestor)
	c.AddPort("CPUSide", c.cpuSide)
	c.AddPort("MemSide", c.memSide)

	return c, nil
}

func (b Builder) effectiveSize(name string) (uint64, error) {
	key := b.role.SizeOption()
	if b.options == nil || key == "" {
		return b.size, nil
	}

	size, present, err := b.options.CacheSize(key)
	if err != nil {
		return 0, &InvalidSpecError{Component: name, Reason: err.Error()}
	}

	if !present {
		return b.size, nil
	}

	return size, nil
}

func (b Builder) mustBeFullSets(name string, size uint64) error {
	switch {
	case size == 0:
		return &InvalidSpecError{Component: name, Reason: "size must be positive"}
	case b.assoc <= 0:
		return &InvalidSpecError{
			Component: name,
			Reason:    "associativity must be positive",
		}
	case b.blockSize <= 0:
		return &InvalidSpecError{
			Component: name,
			Reason:    "block size must be positive",
		}
	}

	setSize := uint64(b.blockSize * b.assoc)
	if size%setSize != 0 {
		return &InvalidSpecError{
			Component: name,
			Reason: "size " + mem.FormatByteSize(size) +
				" is not an integer number of sets",
		}
	}

	return nil
}

// NewL1ICache builds an instruction cache.
func NewL1ICache(name string, o *config.Options) (*Comp, error) {
	return MakeBuilder().WithRole(RoleInstruction).WithOptions(o).Build(name)
}

// NewL1DCache builds a data cache.
func NewL1DCache(name string, o *config.Options) (*Comp, error) {
	return MakeBuilder().WithRole(RoleData).WithOptions(o).Build(name)
}

// NewL2Cache builds a unified L2 cache.
func NewL2Cache(name string, o *config.Options) (*Comp, error) {
	return MakeBuilder().WithRole(RoleUnifiedL2).WithOptions(o).Build(name)
}
