// Package config collects the options that shape a memory system build.
//
// Options are layered. Compiled defaults come first, then a YAML file, then
// MEMSYS_* environment variables (optionally read from a .env file), and
// finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/memsys/cpu"
	"github.com/sarchlab/memsys/mem"
	"github.com/sarchlab/memsys/mem/dram"
	"github.com/sarchlab/memsys/sim"
)

// EnvPrefix is prepended to the upper-cased option key to form the name of
// the environment variable that sets the option.
const EnvPrefix = "MEMSYS_"

// Memory modes understood by the engine.
const (
	MemModeTiming = "timing"
	MemModeAtomic = "atomic"
)

// Options are the named build options. An empty size option means that the
// cache uses the default size of its role.
type Options struct {
	L1ISize    string `yaml:"l1i_size,omitempty"`
	L1DSize    string `yaml:"l1d_size,omitempty"`
	L2Size     string `yaml:"l2_size,omitempty"`
	L2         bool   `yaml:"l2"`
	CPUType    string `yaml:"cpu_type"`
	CPUFreq    string `yaml:"cpu_freq"`
	CPUVoltage string `yaml:"cpu_voltage"`
	SysClock   string `yaml:"sys_clock"`
	SysVoltage string `yaml:"sys_voltage"`
	MemSize    string `yaml:"mem_size"`
	MemMode    string `yaml:"mem_mode"`
	DRAM       string `yaml:"dram"`
	Binary     string `yaml:"binary,omitempty"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() *Options {
	return &Options{
		CPUType:    string(cpu.TimingSimpleCPU),
		CPUFreq:    "4.0GHz",
		CPUVoltage: "1.0V",
		SysClock:   "1GHz",
		SysVoltage: "1.0V",
		MemSize:    "8192MB",
		MemMode:    MemModeTiming,
		DRAM:       "DDR3_1600_8x8",
	}
}

// LoadFile overlays the options in a YAML file on top of the defaults.
func LoadFile(path string) (*Options, error) {
	o := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return o, nil
}

// Keys returns all the option keys in sorted order.
func Keys() []string {
	o := &Options{}
	keys := make([]string, 0)
	for k := range o.stringFields() {
		keys = append(keys, k)
	}
	keys = append(keys, "l2")

	sort.Strings(keys)

	return keys
}

func (o *Options) stringFields() map[string]*string {
	return map[string]*string{
		"l1i_size":    &o.L1ISize,
		"l1d_size":    &o.L1DSize,
		"l2_size":     &o.L2Size,
		"cpu_type":    &o.CPUType,
		"cpu_freq":    &o.CPUFreq,
		"cpu_voltage": &o.CPUVoltage,
		"sys_clock":   &o.SysClock,
		"sys_voltage": &o.SysVoltage,
		"mem_size":    &o.MemSize,
		"mem_mode":    &o.MemMode,
		"dram":        &o.DRAM,
		"binary":      &o.Binary,
	}
}

// Set assigns an option by its key, e.g. Set("l1d_size", "512kB").
func (o *Options) Set(key, value string) error {
	if key == "l2" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("option l2: %w", err)
		}

		o.L2 = b

		return nil
	}

	field, found := o.stringFields()[key]
	if !found {
		return fmt.Errorf("unknown option %q", key)
	}

	*field = value

	return nil
}

// ApplyEnv reads MEMSYS_* variables from the environment. The given .env
// files are loaded first without overriding variables that are already set.
// When no file is given, ".env" is loaded if it exists.
func ApplyEnv(o *Options, envFiles ...string) error {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return fmt.Errorf("failed to load env files: %w", err)
		}
	}

	for _, key := range Keys() {
		value, found := os.LookupEnv(EnvName(key))
		if !found {
			continue
		}

		if err := o.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}

	return nil
}

// EnvName returns the environment variable for an option key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// CacheSize returns the size override under the given key. The second return
// value is false if the option is absent.
func (o *Options) CacheSize(key string) (uint64, bool, error) {
	field, found := o.stringFields()[key]
	if !found {
		return 0, false, fmt.Errorf("unknown option %q", key)
	}

	if *field == "" {
		return 0, false, nil
	}

	size, err := mem.ParseByteSize(*field)
	if err != nil {
		return 0, false, fmt.Errorf("option %s: %w", key, err)
	}

	return size, true, nil
}

// CPUFrequency returns the parsed cpu_freq option.
func (o *Options) CPUFrequency() (sim.Freq, error) {
	return sim.ParseFreq(o.CPUFreq)
}

// CPUVolts returns the parsed cpu_voltage option.
func (o *Options) CPUVolts() (sim.Voltage, error) {
	return sim.ParseVoltage(o.CPUVoltage)
}

// SystemClock returns the parsed sys_clock option.
func (o *Options) SystemClock() (sim.Freq, error) {
	return sim.ParseFreq(o.SysClock)
}

// SystemVolts returns the parsed sys_voltage option.
func (o *Options) SystemVolts() (sim.Voltage, error) {
	return sim.ParseVoltage(o.SysVoltage)
}

// MemoryBytes returns the parsed mem_size option.
func (o *Options) MemoryBytes() (uint64, error) {
	return mem.ParseByteSize(o.MemSize)
}

// CPUModel returns the parsed cpu_type option.
func (o *Options) CPUModel() (cpu.Model, error) {
	return cpu.ParseModel(o.CPUType)
}

// DRAMModel returns the timing model named by the dram option.
func (o *Options) DRAMModel() (dram.TimingModel, error) {
	return dram.LookupTimingModel(o.DRAM)
}

// Validate checks that every option that is present can be parsed. All the
// problems found are reported together.
func (o *Options) Validate() error {
	var errs []error

	for _, key := range []string{"l1i_size", "l1d_size", "l2_size"} {
		if _, _, err := o.CacheSize(key); err != nil {
			errs = append(errs, err)
		}
	}

	checks := []struct {
		key string
		err error
	}{
		{"cpu_freq", second(o.CPUFrequency())},
		{"cpu_voltage", second(o.CPUVolts())},
		{"sys_clock", second(o.SystemClock())},
		{"sys_voltage", second(o.SystemVolts())},
		{"mem_size", second(o.MemoryBytes())},
		{"cpu_type", second(o.CPUModel())},
		{"dram", second(o.DRAMModel())},
	}
	for _, c := range checks {
		if c.err != nil {
			errs = append(errs, fmt.Errorf("option %s: %w", c.key, c.err))
		}
	}

	if o.MemMode != MemModeTiming && o.MemMode != MemModeAtomic {
		errs = append(errs, fmt.Errorf(
			"option mem_mode: must be %q or %q, got %q",
			MemModeTiming, MemModeAtomic, o.MemMode))
	}

	return errors.Join(errs...)
}

func second[T any](_ T, err error) error {
	return err
}
