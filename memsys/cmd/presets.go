package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsys/cpu"
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/mem/dram"
)

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the CPU models and DRAM presets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "CPU models:")
			for _, m := range cpu.Models() {
				fmt.Fprintf(out, "  %s\n", m)
			}

			fmt.Fprintln(out, "DRAM presets:")
			for _, name := range dram.TimingModelNames() {
				t, err := dram.LookupTimingModel(name)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "  %-20s %s, %.1f GB/s\n",
					name, mem.FormatByteSize(t.Capacity()),
					t.PeakBandwidth()/float64(mem.GB))
			}

			return nil
		},
	}
}
