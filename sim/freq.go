package sim

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
)

// VTimeInSec defines the time in the simulated space in the unit of second.
type VTimeInSec float64

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
	THz Freq = 1e12
)

var freqUnits = []struct {
	suffix string
	unit   Freq
}{
	{"THz", THz},
	{"GHz", GHz},
	{"MHz", MHz},
	{"kHz", KHz},
	{"KHz", KHz},
	{"Hz", Hz},
}

// ParseFreq parses a frequency written as a magnitude followed by a unit, for
// example "4.0GHz" or "1600MHz".
func ParseFreq(s string) (Freq, error) {
	str := strings.TrimSpace(s)

	for _, u := range freqUnits {
		if !strings.HasSuffix(str, u.suffix) {
			continue
		}

		magnitude, err := parseMagnitude(strings.TrimSuffix(str, u.suffix))
		if err != nil {
			return 0, fmt.Errorf("invalid frequency %q: %w", s, err)
		}

		return Freq(magnitude) * u.unit, nil
	}

	return 0, fmt.Errorf("invalid frequency %q: unknown unit", s)
}

// MustParseFreq is the same as ParseFreq but panics on error.
func MustParseFreq(s string) Freq {
	f, err := ParseFreq(s)
	if err != nil {
		panic(err)
	}

	return f
}

// String formats the frequency with the largest unit that keeps the
// magnitude at or above one, e.g. "4.0GHz".
func (f Freq) String() string {
	for _, u := range freqUnits {
		if u.suffix == "KHz" {
			continue
		}

		if f >= u.unit {
			return formatMagnitude(float64(f/u.unit)) + u.suffix
		}
	}

	return formatMagnitude(float64(f)) + "Hz"
}

// Period returns the time between two consecutive ticks
func (f Freq) Period() VTimeInSec {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return VTimeInSec(1.0 / f)
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(time VTimeInSec) uint64 {
	return uint64(math.Round(float64(time) * float64(f)))
}

func parseMagnitude(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("magnitude must be positive")
	}

	return v, nil
}

// formatMagnitude always keeps at least one decimal so that "4GHz" reads back
// as "4.0GHz".
func formatMagnitude(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
