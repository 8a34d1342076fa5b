package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsys/datarecording"
	"github.com/sarchlab/memsys/simulation"
)

func newRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build a system and hand it to the engine.",
		Long: "`run` builds the system like `build` and then hands it to " +
			"the bundled engine, which exports the description and ends " +
			"the run.",
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}

	addBuildFlags(runCmd)
	runCmd.Flags().StringP("output", "o", "",
		"file the engine writes the description to (default stdout)")
	runCmd.Flags().String("record", "",
		"SQLite file (without extension) to record the run into")

	return runCmd
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	o, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	if o.Binary == "" {
		return errors.New("no workload binary given, use -c")
	}

	var rec datarecording.DataRecorder
	if path, _ := cmd.Flags().GetString("record"); path != "" {
		rec = datarecording.New(path)
	}

	s, _, err := assemble(o, rec, hooks(cmd)...)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOut()

	builder := simulation.MakeBuilder().
		WithEngine(simulation.NewDescriptionEngine(out)).
		WithOutput(cmd.OutOrStdout())
	if rec != nil {
		builder = builder.WithDataRecorder(rec)
	} else {
		builder = builder.WithoutRecording()
	}

	sim := builder.Build()
	sim.RegisterSystem(s)

	_, err = sim.Run(cmd.Context())
	if err != nil {
		return err
	}

	return sim.Terminate()
}
