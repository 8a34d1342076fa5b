package mem

import "fmt"

// AddrRange is a half-open physical address range [Start, End).
type AddrRange struct {
	Start uint64
	End   uint64
}

// NewAddrRangeOfSize returns the range [0, size).
func NewAddrRangeOfSize(size uint64) AddrRange {
	return AddrRange{Start: 0, End: size}
}

// Size returns the number of bytes covered by the range.
func (r AddrRange) Size() uint64 {
	if r.IsDegenerate() {
		return 0
	}

	return r.End - r.Start
}

// IsDegenerate returns true if the range is empty or inverted.
func (r AddrRange) IsDegenerate() bool {
	return r.End <= r.Start
}

// Contains returns true if the address falls in the range.
func (r AddrRange) Contains(addr uint64) bool {
	return addr >= r.Start && addr < r.End
}

// Covers returns true if the other range is a non-empty subset of r.
func (r AddrRange) Covers(other AddrRange) bool {
	if other.IsDegenerate() {
		return false
	}

	return other.Start >= r.Start && other.End <= r.End
}

func (r AddrRange) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", r.Start, r.End)
}
