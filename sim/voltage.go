package sim

import (
	"fmt"
	"strings"
)

// Voltage defines the type of a supply voltage, in volts.
type Voltage float64

// Defines the unit of voltage
const (
	MilliVolt Voltage = 1e-3
	Volt      Voltage = 1
)

// ParseVoltage parses a voltage such as "1.0V" or "850mV".
func ParseVoltage(s string) (Voltage, error) {
	str := strings.TrimSpace(s)

	unit := Volt
	switch {
	case strings.HasSuffix(str, "mV"):
		unit = MilliVolt
		str = strings.TrimSuffix(str, "mV")
	case strings.HasSuffix(str, "V"):
		str = strings.TrimSuffix(str, "V")
	default:
		return 0, fmt.Errorf("invalid voltage %q: unknown unit", s)
	}

	magnitude, err := parseMagnitude(str)
	if err != nil {
		return 0, fmt.Errorf("invalid voltage %q: %w", s, err)
	}

	return Voltage(magnitude) * unit, nil
}

// MustParseVoltage is the same as ParseVoltage but panics on error.
func MustParseVoltage(s string) Voltage {
	v, err := ParseVoltage(s)
	if err != nil {
		panic(err)
	}

	return v
}

// String formats the voltage, e.g. "1.0V" or "850.0mV".
func (v Voltage) String() string {
	if v < Volt && v > 0 {
		return formatMagnitude(float64(v)*1e3) + "mV"
	}

	return formatMagnitude(float64(v)) + "V"
}
