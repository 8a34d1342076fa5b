package dram

import (
	"fmt"

	"github.com/sarchlab/memsys/sim"
)

// TimingModel describes the organization and timing of a DRAM device. Timing
// parameters are in cycles of Freq.
type TimingModel struct {
	Name     string
	Protocol Protocol
	Freq     sim.Freq

	BusWidth    int
	BurstLength int
	DeviceWidth int
	NumChannel  int
	NumRank     int
	NumBank     int
	NumRow      int
	NumCol      int

	TCL   int
	TCWL  int
	TRCD  int
	TRP   int
	TRAS  int
	TRRD  int
	TRTP  int
	TWR   int
	TREFI int
	TRFC  int
}

// Capacity returns the number of bytes one controller with this model can
// address.
func (m TimingModel) Capacity() uint64 {
	return uint64(m.BusWidth/8) *
		uint64(m.NumChannel) *
		uint64(m.NumRank) *
		uint64(m.NumBank) *
		uint64(m.NumRow) *
		uint64(m.NumCol)
}

// PeakBandwidth returns the peak transfer rate in bytes per second, assuming
// double data rate.
func (m TimingModel) PeakBandwidth() float64 {
	return float64(m.Freq) * 2 * float64(m.BusWidth/8) * float64(m.NumChannel)
}

// Builder can build DRAM timing models.
type Builder struct {
	protocol    Protocol
	freq        sim.Freq
	busWidth    int
	burstLength int
	deviceWidth int
	numChannel  int
	numRank     int
	numBank     int
	numRow      int
	numCol      int

	tCL   int
	tCWL  int
	tRCD  int
	tRP   int
	tRAS  int
	tRRD  int
	tRTP  int
	tWR   int
	tREFI int
	tRFC  int
}

// MakeBuilder creates a builder with the DDR3-1600 x64 configuration.
func MakeBuilder() Builder {
	return Builder{
		protocol:    DDR3,
		freq:        800 * sim.MHz,
		busWidth:    64,
		burstLength: 8,
		deviceWidth: 8,
		numChannel:  1,
		numRank:     2,
		numBank:     8,
		numRow:      32768,
		numCol:      1024,
		tCL:         11,
		tCWL:        8,
		tRCD:        11,
		tRP:         11,
		tRAS:        28,
		tRRD:        5,
		tRTP:        6,
		tWR:         12,
		tREFI:       6240,
		tRFC:        208,
	}
}

// WithProtocol sets the protocol of the memory.
func (b Builder) WithProtocol(protocol Protocol) Builder {
	b.protocol = protocol
	return b
}

// WithFreq sets the device clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBusWidth sets the number of bits can be transferred out of the banks
// at the same time.
func (b Builder) WithBusWidth(n int) Builder {
	b.busWidth = n
	return b
}

// WithBurstLength sets the number of accesses that take place as one group.
func (b Builder) WithBurstLength(n int) Builder {
	b.burstLength = n
	return b
}

// WithDeviceWidth sets the number of bits each device provides.
func (b Builder) WithDeviceWidth(n int) Builder {
	b.deviceWidth = n
	return b
}

// WithNumChannel sets the number of channels.
func (b Builder) WithNumChannel(n int) Builder {
	b.numChannel = n
	return b
}

// WithNumRank sets the number of ranks per channel.
func (b Builder) WithNumRank(n int) Builder {
	b.numRank = n
	return b
}

// WithNumBank sets the number of banks per rank.
func (b Builder) WithNumBank(n int) Builder {
	b.numBank = n
	return b
}

// WithNumRow sets the number of rows per bank.
func (b Builder) WithNumRow(n int) Builder {
	b.numRow = n
	return b
}

// WithNumCol sets the number of columns per row.
func (b Builder) WithNumCol(n int) Builder {
	b.numCol = n
	return b
}

// WithTCL sets the CAS latency.
func (b Builder) WithTCL(cycle int) Builder {
	b.tCL = cycle
	return b
}

// WithTCWL sets the CAS write latency.
func (b Builder) WithTCWL(cycle int) Builder {
	b.tCWL = cycle
	return b
}

// WithTRCD sets the row-to-column delay.
func (b Builder) WithTRCD(cycle int) Builder {
	b.tRCD = cycle
	return b
}

// WithTRP sets the row precharge time.
func (b Builder) WithTRP(cycle int) Builder {
	b.tRP = cycle
	return b
}

// WithTRAS sets the minimum row active time.
func (b Builder) WithTRAS(cycle int) Builder {
	b.tRAS = cycle
	return b
}

// WithTRRD sets the activate-to-activate delay between banks.
func (b Builder) WithTRRD(cycle int) Builder {
	b.tRRD = cycle
	return b
}

// WithTRTP sets the read-to-precharge delay.
func (b Builder) WithTRTP(cycle int) Builder {
	b.tRTP = cycle
	return b
}

// WithTWR sets the write recovery time.
func (b Builder) WithTWR(cycle int) Builder {
	b.tWR = cycle
	return b
}

// WithTREFI sets the refresh interval.
func (b Builder) WithTREFI(cycle int) Builder {
	b.tREFI = cycle
	return b
}

// WithTRFC sets the refresh cycle time.
func (b Builder) WithTRFC(cycle int) Builder {
	b.tRFC = cycle
	return b
}

// Build creates the timing model.
func (b Builder) Build(name string) (TimingModel, error) {
	if err := b.parametersMustBeValid(); err != nil {
		return TimingModel{}, fmt.Errorf("invalid DRAM model %s: %w", name, err)
	}

	return TimingModel{
		Name:        name,
		Protocol:    b.protocol,
		Freq:        b.freq,
		BusWidth:    b.busWidth,
		BurstLength: b.burstLength,
		DeviceWidth: b.deviceWidth,
		NumChannel:  b.numChannel,
		NumRank:     b.numRank,
		NumBank:     b.numBank,
		NumRow:      b.numRow,
		NumCol:      b.numCol,
		TCL:         b.tCL,
		TCWL:        b.tCWL,
		TRCD:        b.tRCD,
		TRP:         b.tRP,
		TRAS:        b.tRAS,
		TRRD:        b.tRRD,
		TRTP:        b.tRTP,
		TWR:         b.tWR,
		TREFI:       b.tREFI,
		TRFC:        b.tRFC,
	}, nil
}

func (b Builder) parametersMustBeValid() error {
	if b.freq <= 0 {
		return fmt.Errorf("frequency must be positive")
	}

	if b.busWidth <= 0 || b.busWidth%8 != 0 {
		return fmt.Errorf("bus width must be a positive multiple of 8")
	}

	if b.deviceWidth <= 0 || b.busWidth%b.deviceWidth != 0 {
		return fmt.Errorf("bus width must be a multiple of the device width")
	}

	counts := map[string]int{
		"burst length": b.burstLength,
		"channels":     b.numChannel,
		"ranks":        b.numRank,
		"banks":        b.numBank,
		"rows":         b.numRow,
		"columns":      b.numCol,
	}
	for what, n := range counts {
		if n <= 0 {
			return fmt.Errorf("number of %s must be positive", what)
		}
	}

	return nil
}
