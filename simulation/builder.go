package simulation

import (
	"io"
	"os"

	"github.com/rs/xid"

	"github.com/sarchlab/memsys/datarecording"
)

// Builder can be used to build a simulation.
type Builder struct {
	engine         Engine
	recorder       datarecording.DataRecorder
	recordingOff   bool
	outputFileName string
	out            io.Writer
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{out: os.Stdout}
}

// WithEngine sets the engine that runs the system.
func (b Builder) WithEngine(e Engine) Builder {
	b.engine = e
	return b
}

// WithDataRecorder sets the data recorder to use instead of creating one.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithoutRecording disables the data recorder.
func (b Builder) WithoutRecording() Builder {
	b.recordingOff = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithOutput sets where the run notices are printed.
func (b Builder) WithOutput(w io.Writer) Builder {
	b.out = w
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if b.recordingOff && (b.recorder != nil || b.outputFileName != "") {
		panic("recording is disabled but a recorder or file is set")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		engine:        b.engine,
		out:           b.out,
		compNameIndex: make(map[string]int),
		portNameIndex: make(map[string]int),
	}

	switch {
	case b.recordingOff:
	case b.recorder != nil:
		s.dataRecorder = b.recorder
	default:
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "memsys_sim_" + s.id
		}
		s.dataRecorder = datarecording.New(outputPath)
	}

	if s.dataRecorder != nil {
		s.dataRecorder.CreateTable(OutcomeTableName, outcomeEntry{})
	}

	return s
}
