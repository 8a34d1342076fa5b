package bus

import "github.com/sarchlab/memsys/sim"

// Builder can build buses.
type Builder struct {
	width                int
	frontendLatency      int
	forwardLatency       int
	responseLatency      int
	snoopResponseLatency int
	clockDomain          *sim.ClockDomain
}

// MakeBuilder creates a builder with the parameters of a system crossbar.
func MakeBuilder() Builder {
	return Builder{
		width:                16,
		frontendLatency:      3,
		forwardLatency:       4,
		responseLatency:      2,
		snoopResponseLatency: 4,
	}
}

// MakeL2Builder creates a builder with the parameters of the crossbar placed
// between the L1 caches and the L2 cache.
func MakeL2Builder() Builder {
	return Builder{
		width:                32,
		frontendLatency:      1,
		forwardLatency:       0,
		responseLatency:      1,
		snoopResponseLatency: 1,
	}
}

// WithWidth sets the data path width in bytes.
func (b Builder) WithWidth(width int) Builder {
	b.width = width
	return b
}

// WithFrontendLatency sets the front end latency in cycles.
func (b Builder) WithFrontendLatency(cycles int) Builder {
	b.frontendLatency = cycles
	return b
}

// WithForwardLatency sets the forward latency in cycles.
func (b Builder) WithForwardLatency(cycles int) Builder {
	b.forwardLatency = cycles
	return b
}

// WithResponseLatency sets the response latency in cycles.
func (b Builder) WithResponseLatency(cycles int) Builder {
	b.responseLatency = cycles
	return b
}

// WithSnoopResponseLatency sets the snoop response latency in cycles.
func (b Builder) WithSnoopResponseLatency(cycles int) Builder {
	b.snoopResponseLatency = cycles
	return b
}

// WithClockDomain sets the clock domain of the bus.
func (b Builder) WithClockDomain(cd *sim.ClockDomain) Builder {
	b.clockDomain = cd
	return b
}

// Build creates a bus with no slots.
func (b Builder) Build(name string) *Bus {
	if b.width <= 0 {
		panic("bus width must be positive")
	}

	return &Bus{
		ComponentBase:        sim.NewComponentBase(name),
		width:                b.width,
		frontendLatency:      b.frontendLatency,
		forwardLatency:       b.forwardLatency,
		responseLatency:      b.responseLatency,
		snoopResponseLatency: b.snoopResponseLatency,
		clockDomain:          b.clockDomain,
		occupied:             make(map[string]int),
	}
}
