package simulation

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/memsys/system"
)

// Outcome is what an engine reports when a run ends.
type Outcome struct {
	FinalTick uint64
	Cause     string
}

// An Engine instantiates a validated system and runs it.
type Engine interface {
	// Instantiate creates the engine's model of the system. It is called once.
	Instantiate(root *system.System) error

	// Simulate runs until the engine decides to exit.
	Simulate(ctx context.Context) (Outcome, error)
}

// CauseDescriptionExported is the exit cause of a DescriptionEngine.
const CauseDescriptionExported = "description exported"

// DescriptionEngine is an engine that does not simulate. It writes the
// description of the instantiated system as YAML and exits at tick 0.
type DescriptionEngine struct {
	w    io.Writer
	root *system.System
}

// NewDescriptionEngine creates an engine that writes to w.
func NewDescriptionEngine(w io.Writer) *DescriptionEngine {
	return &DescriptionEngine{w: w}
}

// Instantiate records the system to describe.
func (e *DescriptionEngine) Instantiate(root *system.System) error {
	if e.root != nil {
		return fmt.Errorf("engine already instantiated %s", e.root.Name())
	}

	e.root = root

	return nil
}

// Simulate writes the description.
func (e *DescriptionEngine) Simulate(ctx context.Context) (Outcome, error) {
	if e.root == nil {
		return Outcome{}, fmt.Errorf("nothing is instantiated")
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)

	if err := enc.Encode(e.root.Describe()); err != nil {
		return Outcome{}, fmt.Errorf("failed to write description: %w", err)
	}

	if err := enc.Close(); err != nil {
		return Outcome{}, err
	}

	return Outcome{Cause: CauseDescriptionExported}, nil
}
