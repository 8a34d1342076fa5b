// Package simulation hands a validated system to a simulation engine and
// keeps track of the run.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/memsys/datarecording"
	"github.com/sarchlab/memsys/sim"
	"github.com/sarchlab/memsys/system"
)

// OutcomeTableName is the table that run outcomes are recorded to.
const OutcomeTableName = "simulation_outcomes"

type outcomeEntry struct {
	SimulationID string
	System       string
	FinalTick    uint64
	Cause        string
}

// ErrNoSystem is returned when running a simulation without a system.
var ErrNoSystem = errors.New("no system is registered")

// A Simulation runs one system on one engine.
type Simulation struct {
	id           string
	engine       Engine
	dataRecorder datarecording.DataRecorder
	out          io.Writer

	system        *system.System
	components    []sim.Component
	compNameIndex map[string]int
	ports         []*sim.Port
	portNameIndex map[string]int

	outcome *Outcome
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// RegisterSystem sets the system to run and registers all its components.
func (s *Simulation) RegisterSystem(sys *system.System) {
	if s.system != nil {
		panic("system " + s.system.Name() + " already registered")
	}

	s.system = sys
	for _, c := range sys.Components() {
		s.RegisterComponent(c)
	}
}

// System returns the registered system.
func (s *Simulation) System() *system.System {
	return s.system
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	for _, p := range c.Ports() {
		s.registerPort(p)
	}
}

func (s *Simulation) registerPort(p *sim.Port) {
	portName := p.Name()
	if _, found := s.portNameIndex[portName]; found {
		panic("port " + portName + " already registered")
	}

	s.ports = append(s.ports, p)
	s.portNameIndex[portName] = len(s.ports) - 1
}

// Components returns the registered components in registration order.
func (s *Simulation) Components() []sim.Component {
	return append([]sim.Component(nil), s.components...)
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	idx, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[idx]
}

// GetPortByName returns the port with the given name, or nil.
func (s *Simulation) GetPortByName(name string) *sim.Port {
	idx, found := s.portNameIndex[name]
	if !found {
		return nil
	}

	return s.ports[idx]
}

// Outcome returns the outcome of the run, or nil before the run ends.
func (s *Simulation) Outcome() *Outcome {
	return s.outcome
}

// Run validates the system, lets the engine instantiate it and runs the
// engine. A system that fails validation never reaches the engine.
func (s *Simulation) Run(ctx context.Context) (Outcome, error) {
	if s.system == nil {
		return Outcome{}, ErrNoSystem
	}

	if s.outcome != nil {
		return Outcome{}, fmt.Errorf("simulation %s has already run", s.id)
	}

	if err := s.system.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("cannot instantiate %s: %w",
			s.system.Name(), err)
	}

	if err := s.engine.Instantiate(s.system); err != nil {
		return Outcome{}, fmt.Errorf("failed to instantiate %s: %w",
			s.system.Name(), err)
	}

	fmt.Fprintln(s.out, "Beginning simulation!")

	outcome, err := s.engine.Simulate(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Fprintf(s.out, "Exiting @ tick %d because %s\n",
		outcome.FinalTick, outcome.Cause)

	s.outcome = &outcome
	s.recordOutcome(outcome)

	return outcome, nil
}

func (s *Simulation) recordOutcome(o Outcome) {
	if s.dataRecorder == nil {
		return
	}

	s.dataRecorder.InsertData(OutcomeTableName, outcomeEntry{
		SimulationID: s.id,
		System:       s.system.Name(),
		FinalTick:    o.FinalTick,
		Cause:        o.Cause,
	})
}

// Terminate flushes and closes the data recorder.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	return s.dataRecorder.Close()
}
