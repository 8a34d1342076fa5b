package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/memsys/config"
	"github.com/sarchlab/memsys/datarecording"
	"github.com/sarchlab/memsys/dvfs"
	"github.com/sarchlab/memsys/sim"
	"github.com/sarchlab/memsys/system"
)

// optionFlags are the build options that can be set from the command line.
var optionFlags = []struct {
	key   string
	usage string
}{
	{"l1i_size", "L1 instruction cache size, e.g. 64kB"},
	{"l1d_size", "L1 data cache size, e.g. 256kB"},
	{"l2_size", "L2 cache size, e.g. 1MB"},
	{"cpu_type", "CPU model"},
	{"cpu_freq", "CPU frequency applied through DVFS"},
	{"cpu_voltage", "CPU voltage applied through DVFS"},
	{"sys_clock", "system clock frequency"},
	{"sys_voltage", "system voltage"},
	{"mem_size", "system memory size"},
	{"mem_mode", "memory mode, timing or atomic"},
	{"dram", "DRAM timing preset"},
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func addBuildFlags(cmd *cobra.Command) {
	for _, f := range optionFlags {
		cmd.Flags().String(flagName(f.key), "", f.usage)
	}

	cmd.Flags().Bool("l2", false, "add a unified L2 cache and an L2 bus")
	cmd.Flags().StringP("cmd", "c", "", "binary to run as the workload")
}

// loadOptions layers the defaults, the config file, the environment and the
// flags that are explicitly set.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	o := config.DefaultOptions()

	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		var err error

		o, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	if err := config.ApplyEnv(o, envFiles...); err != nil {
		return nil, err
	}

	for _, f := range optionFlags {
		if err := setFromFlag(cmd, o, f.key, flagName(f.key)); err != nil {
			return nil, err
		}
	}

	if err := setFromFlag(cmd, o, "l2", "l2"); err != nil {
		return nil, err
	}

	if err := setFromFlag(cmd, o, "binary", "cmd"); err != nil {
		return nil, err
	}

	return o, nil
}

func setFromFlag(cmd *cobra.Command, o *config.Options, key, name string) error {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return nil
	}

	return o.Set(key, flag.Value.String())
}

// hooks returns the hooks requested on the command line. With --verbose,
// every connection and DVFS transition is logged.
func hooks(cmd *cobra.Command) []sim.Hook {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}

	return []sim.Hook{sim.NewLogHook(log.Default())}
}

// assemble builds the system, applies the CPU operating point and validates
// the result. The recorder, if not nil, receives the DVFS transition.
func assemble(
	o *config.Options,
	rec datarecording.DataRecorder,
	hooks ...sim.Hook,
) (*system.System, *dvfs.Controller[*system.System], error) {
	builder := system.MakeBuilder().WithOptions(o)
	for _, h := range hooks {
		builder = builder.WithHook(h)
	}

	s, err := builder.Build("System")
	if err != nil {
		return nil, nil, err
	}

	ctrl := dvfs.NewController(s)
	for _, h := range hooks {
		ctrl.AcceptHook(h)
	}

	if rec != nil {
		ctrl.AttachRecorder(rec)
	}

	_, err = ctrl.ApplyText(o.CPUFreq, o.CPUVoltage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to apply DVFS: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	return s, ctrl, nil
}
