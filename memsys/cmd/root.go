// Package cmd provides the command-line interface of memsys.
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memsys",
		Short: "memsys builds single-CPU memory system configurations.",
		Long: `memsys builds a memory hierarchy of a CPU, L1 caches, an ` +
			`optional L2, a memory bus and a DRAM controller, applies a DVFS ` +
			`operating point and hands the result to a simulation engine.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "",
		"YAML file with build options")
	rootCmd.PersistentFlags().StringSlice("env-file", nil,
		"dotenv files to read MEMSYS_* options from (default .env)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"log with timestamps and source locations")

	rootCmd.AddCommand(
		newBuildCommand(),
		newRunCommand(),
		newReportCommand(),
		newServeCommand(),
		newPresetsCommand(),
	)

	return rootCmd
}

// Execute runs the command line and exits through atexit so that data
// recorders flush.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
