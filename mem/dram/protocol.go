package dram

import "fmt"

// Protocol defines the category of the memory controller.
type Protocol int

// A list of all supported DRAM protocols.
const (
	DDR3 Protocol = iota
	DDR4
	GDDR5
	GDDR5X
	GDDR6
	LPDDR
	LPDDR3
	LPDDR4
	HBM
	HBM2
	HMC
)

var protocolNames = []string{
	"DDR3", "DDR4", "GDDR5", "GDDR5X", "GDDR6",
	"LPDDR", "LPDDR3", "LPDDR4", "HBM", "HBM2", "HMC",
}

func (p Protocol) String() string {
	if int(p) < 0 || int(p) >= len(protocolNames) {
		return fmt.Sprintf("Protocol(%d)", int(p))
	}

	return protocolNames[p]
}

// IsGDDR returns true for the graphics DDR family.
func (p Protocol) IsGDDR() bool {
	return p == GDDR5 || p == GDDR5X || p == GDDR6
}

// IsHBM returns true for high bandwidth memory.
func (p Protocol) IsHBM() bool {
	return p == HBM || p == HBM2
}
