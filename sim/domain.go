package sim

// A VoltageDomain is a group of components that share a supply voltage.
type VoltageDomain struct {
	name    string
	voltage Voltage
}

// NewVoltageDomain creates a new VoltageDomain
func NewVoltageDomain(name string, voltage Voltage) *VoltageDomain {
	NameMustBeValid(name)

	return &VoltageDomain{
		name:    name,
		voltage: voltage,
	}
}

// Name returns the name of the domain.
func (d *VoltageDomain) Name() string {
	return d.name
}

// Voltage returns the current supply voltage.
func (d *VoltageDomain) Voltage() Voltage {
	return d.voltage
}

// SetVoltage changes the supply voltage. Outside of construction, only the
// DVFS controller should call it, together with a clock change.
func (d *VoltageDomain) SetVoltage(v Voltage) {
	d.voltage = v
}

// A ClockDomain is a source clock domain. Every clock domain is powered by a
// voltage domain.
type ClockDomain struct {
	name          string
	clock         Freq
	voltageDomain *VoltageDomain
}

// NewClockDomain creates a new ClockDomain. The voltage domain may be nil and
// set later.
func NewClockDomain(
	name string,
	clock Freq,
	voltageDomain *VoltageDomain,
) *ClockDomain {
	NameMustBeValid(name)

	return &ClockDomain{
		name:          name,
		clock:         clock,
		voltageDomain: voltageDomain,
	}
}

// Name returns the name of the domain.
func (d *ClockDomain) Name() string {
	return d.name
}

// Clock returns the frequency of the domain.
func (d *ClockDomain) Clock() Freq {
	return d.clock
}

// SetClock changes the frequency. Outside of construction, only the DVFS
// controller should call it, together with a voltage change.
func (d *ClockDomain) SetClock(f Freq) {
	d.clock = f
}

// VoltageDomain returns the voltage domain that powers the clock domain.
func (d *ClockDomain) VoltageDomain() *VoltageDomain {
	return d.voltageDomain
}

// SetVoltageDomain links the clock domain to a voltage domain.
func (d *ClockDomain) SetVoltageDomain(vd *VoltageDomain) {
	d.voltageDomain = vd
}
