// Package dvfs changes the operating point, the clock frequency and the supply
// voltage, of an assembled system.
package dvfs

import (
	"fmt"
	"strings"

	"github.com/sarchlab/memsys/datarecording"
	"github.com/sarchlab/memsys/sim"
)

// A Target is something whose operating point can be changed. A target
// without any domain has not been configured yet.
type Target interface {
	CPUClockDomain() *sim.ClockDomain
	ClockDomain() *sim.ClockDomain
	CPUVoltageDomain() *sim.VoltageDomain
}

// State is the state of a controller.
type State int

// A controller is Idle until the target has domains, Configured once they
// exist and Gated after an operating point has been applied.
const (
	Idle State = iota
	Configured
	Gated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Configured:
		return "configured"
	case Gated:
		return "gated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// An OperatingPoint is a frequency and voltage pair that has been applied.
type OperatingPoint struct {
	Seq     int
	Freq    sim.Freq
	Voltage sim.Voltage
}

func (p OperatingPoint) String() string {
	return p.Freq.String() + "@" + p.Voltage.String()
}

// TransitionTableName is the table that recorded transitions go to.
const TransitionTableName = "dvfs_transitions"

type transitionEntry struct {
	Target  string
	Seq     int
	Freq    float64
	Voltage float64
}

// HookPosOperatingPointApplied is invoked after an operating point has been
// applied. The item is the OperatingPoint.
var HookPosOperatingPointApplied = &sim.HookPos{Name: "OperatingPointApplied"}

// Controller applies operating points to a target.
type Controller[T Target] struct {
	*sim.HookableBase

	target   T
	gated    bool
	history  []OperatingPoint
	recorder datarecording.DataRecorder
}

// NewController creates a controller for the target.
func NewController[T Target](target T) *Controller[T] {
	return &Controller[T]{
		HookableBase: sim.NewHookableBase(),
		target:       target,
	}
}

// Name returns the name of the target.
func (c *Controller[T]) Name() string {
	return c.targetName()
}

// AttachRecorder makes the controller record every successful transition.
func (c *Controller[T]) AttachRecorder(r datarecording.DataRecorder) {
	c.recorder = r
	r.CreateTable(TransitionTableName, transitionEntry{})
}

// Target returns the controlled target.
func (c *Controller[T]) Target() T {
	return c.target
}

// State returns the current state.
func (c *Controller[T]) State() State {
	if c.gated {
		return Gated
	}

	if len(c.missingDomains()) == len(domainNames) {
		return Idle
	}

	return Configured
}

// History returns the operating points applied so far, oldest first.
func (c *Controller[T]) History() []OperatingPoint {
	return append([]OperatingPoint(nil), c.history...)
}

// Apply sets the CPU clock, the top-level clock, the CPU voltage and the
// voltage of the CPU clock domain's voltage domain. Either all four change or
// none does. Applying the point that is already in effect does not change
// the target. The target is returned so that callers can continue configuring
// it.
func (c *Controller[T]) Apply(freq sim.Freq, voltage sim.Voltage) (T, error) {
	if freq <= 0 || voltage <= 0 {
		return c.target, &InvalidOperatingPointError{
			Freq:    freq,
			Voltage: voltage,
		}
	}

	missing := c.missingDomains()
	if len(missing) == len(domainNames) {
		return c.target, &DomainNotInitializedError{Target: c.targetName()}
	}

	if len(missing) > 0 {
		return c.target, &PartialGateApplicationError{
			Target:  c.targetName(),
			Missing: missing,
		}
	}

	cpuClk := c.target.CPUClockDomain()
	cpuClk.SetClock(freq)
	c.target.ClockDomain().SetClock(freq)
	c.target.CPUVoltageDomain().SetVoltage(voltage)
	cpuClk.VoltageDomain().SetVoltage(voltage)

	c.gated = true
	c.record(freq, voltage)

	return c.target, nil
}

// ApplyText parses an operating point such as ("4.0GHz", "1.0V") and applies
// it.
func (c *Controller[T]) ApplyText(freq, voltage string) (T, error) {
	f, err := sim.ParseFreq(freq)
	if err != nil {
		return c.target, err
	}

	v, err := sim.ParseVoltage(voltage)
	if err != nil {
		return c.target, err
	}

	return c.Apply(f, v)
}

func (c *Controller[T]) record(freq sim.Freq, voltage sim.Voltage) {
	p := OperatingPoint{
		Seq:     len(c.history),
		Freq:    freq,
		Voltage: voltage,
	}
	c.history = append(c.history, p)

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosOperatingPointApplied,
		Item:   p,
	})

	if c.recorder == nil {
		return
	}

	c.recorder.InsertData(TransitionTableName, transitionEntry{
		Target:  c.targetName(),
		Seq:     p.Seq,
		Freq:    float64(p.Freq),
		Voltage: float64(p.Voltage),
	})
}

var domainNames = []string{
	"cpu clock domain",
	"clock domain",
	"cpu voltage domain",
	"cpu clock domain voltage domain",
}

func (c *Controller[T]) missingDomains() []string {
	var missing []string

	cpuClk := c.target.CPUClockDomain()
	if cpuClk == nil {
		missing = append(missing, domainNames[0])
	}

	if c.target.ClockDomain() == nil {
		missing = append(missing, domainNames[1])
	}

	if c.target.CPUVoltageDomain() == nil {
		missing = append(missing, domainNames[2])
	}

	if cpuClk == nil || cpuClk.VoltageDomain() == nil {
		missing = append(missing, domainNames[3])
	}

	return missing
}

func (c *Controller[T]) targetName() string {
	if named, ok := any(c.target).(sim.Named); ok {
		return named.Name()
	}

	return fmt.Sprintf("%T", c.target)
}

// DomainNotInitializedError is returned when an operating point is applied
// before the target has any domain.
type DomainNotInitializedError struct {
	Target string
}

func (e *DomainNotInitializedError) Error() string {
	return fmt.Sprintf("%s has no clock or voltage domain yet", e.Target)
}

// PartialGateApplicationError is returned when only some of the domains an
// operating point changes exist. Nothing is changed.
type PartialGateApplicationError struct {
	Target  string
	Missing []string
}

func (e *PartialGateApplicationError) Error() string {
	return fmt.Sprintf(
		"cannot apply operating point to %s: missing %s",
		e.Target, strings.Join(e.Missing, ", "),
	)
}

// InvalidOperatingPointError is returned for a non-positive frequency or
// voltage.
type InvalidOperatingPointError struct {
	Freq    sim.Freq
	Voltage sim.Voltage
}

func (e *InvalidOperatingPointError) Error() string {
	return fmt.Sprintf(
		"invalid operating point %s, %s: both must be positive",
		e.Freq, e.Voltage,
	)
}
