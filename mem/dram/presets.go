package dram

import (
	"fmt"
	"sort"

	"github.com/sarchlab/memsys/sim"
)

var presets = map[string]Builder{
	"DDR3_1600_8x8": MakeBuilder(),
	"DDR4_2400_8x8": MakeBuilder().
		WithProtocol(DDR4).
		WithFreq(1200 * sim.MHz).
		WithNumRank(2).
		WithNumBank(16).
		WithNumRow(65536).
		WithTCL(17).
		WithTCWL(12).
		WithTRCD(17).
		WithTRP(17).
		WithTRAS(39).
		WithTRRD(4).
		WithTRTP(9).
		WithTWR(18).
		WithTREFI(9360).
		WithTRFC(420),
	"LPDDR3_1600_1x32": MakeBuilder().
		WithProtocol(LPDDR3).
		WithBusWidth(32).
		WithDeviceWidth(32).
		WithNumRank(1).
		WithNumRow(16384).
		WithTCL(12).
		WithTCWL(6).
		WithTRCD(15).
		WithTRP(15).
		WithTRAS(34).
		WithTRRD(8).
		WithTRTP(6).
		WithTWR(12).
		WithTREFI(3120).
		WithTRFC(104),
	"HBM_1000_4H_1x128": MakeBuilder().
		WithProtocol(HBM).
		WithFreq(500 * sim.MHz).
		WithBusWidth(128).
		WithDeviceWidth(128).
		WithBurstLength(4).
		WithNumRank(1).
		WithNumBank(16).
		WithNumRow(16384).
		WithNumCol(64).
		WithTCL(7).
		WithTCWL(4).
		WithTRCD(7).
		WithTRP(7).
		WithTRAS(17).
		WithTRRD(2).
		WithTRTP(4).
		WithTWR(8).
		WithTREFI(1950).
		WithTRFC(80),
}

// LookupTimingModel returns the named preset, e.g. "DDR3_1600_8x8".
func LookupTimingModel(name string) (TimingModel, error) {
	b, found := presets[name]
	if !found {
		return TimingModel{}, fmt.Errorf(
			"unknown DRAM model %q, available models: %v",
			name, TimingModelNames())
	}

	return b.Build(name)
}

// TimingModelNames lists the available presets in sorted order.
func TimingModelNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}
