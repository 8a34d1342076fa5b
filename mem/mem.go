// Package mem defines the units and address ranges shared by the memory
// hierarchy description.
package mem

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// For capacity
const (
	_       = iota
	KB uint64 = 1 << (10 * iota)
	MB
	GB
	TB
)

var byteUnits = []struct {
	suffixes []string
	unit     uint64
}{
	{[]string{"TiB", "TB"}, TB},
	{[]string{"GiB", "GB"}, GB},
	{[]string{"MiB", "MB"}, MB},
	{[]string{"KiB", "kB", "KB"}, KB},
	{[]string{"B"}, 1},
}

// ParseByteSize parses a capacity such as "64kB", "1MB" or "8192MB". Units
// are binary, following the simulator convention that "kB" is 1024 bytes.
func ParseByteSize(s string) (uint64, error) {
	str := strings.TrimSpace(s)

	for _, u := range byteUnits {
		for _, suffix := range u.suffixes {
			if !strings.HasSuffix(str, suffix) {
				continue
			}

			magnitude := strings.TrimSpace(strings.TrimSuffix(str, suffix))

			return scaleByteSize(s, magnitude, u.unit)
		}
	}

	return 0, fmt.Errorf("invalid byte size %q: unknown unit", s)
}

func scaleByteSize(orig, magnitude string, unit uint64) (uint64, error) {
	if n, err := strconv.ParseUint(magnitude, 10, 64); err == nil {
		if n == 0 {
			return 0, fmt.Errorf("invalid byte size %q: must be positive", orig)
		}

		if n > math.MaxUint64/unit {
			return 0, fmt.Errorf("invalid byte size %q: too large", orig)
		}

		return n * unit, nil
	}

	f, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", orig, err)
	}

	bytes := f * float64(unit)
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("invalid byte size %q: too large", orig)
	}

	if bytes < 1 || bytes != float64(uint64(bytes)) {
		return 0, fmt.Errorf(
			"invalid byte size %q: must be a positive whole number of bytes",
			orig)
	}

	return uint64(bytes), nil
}

// MustParseByteSize is the same as ParseByteSize but panics on error.
func MustParseByteSize(s string) uint64 {
	n, err := ParseByteSize(s)
	if err != nil {
		panic(err)
	}

	return n
}

// FormatByteSize formats a capacity with the largest unit that divides it
// exactly, e.g. 524288 becomes "512kB".
func FormatByteSize(n uint64) string {
	switch {
	case n == 0:
		return "0B"
	case n%TB == 0:
		return strconv.FormatUint(n/TB, 10) + "TB"
	case n%GB == 0:
		return strconv.FormatUint(n/GB, 10) + "GB"
	case n%MB == 0:
		return strconv.FormatUint(n/MB, 10) + "MB"
	case n%KB == 0:
		return strconv.FormatUint(n/KB, 10) + "kB"
	default:
		return strconv.FormatUint(n, 10) + "B"
	}
}
