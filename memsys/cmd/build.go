package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newBuildCommand() *cobra.Command {
	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build a system and dump its description.",
		Long: "`build` assembles the system from the options, applies the " +
			"CPU operating point, validates the topology and writes the " +
			"description as YAML.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}

			s, _, err := assemble(o, nil, hooks(cmd)...)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(cmd)
			if err != nil {
				return err
			}
			defer closeOut()

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)

			if err := enc.Encode(s.Describe()); err != nil {
				return fmt.Errorf("failed to write description: %w", err)
			}

			return enc.Close()
		},
	}

	addBuildFlags(buildCmd)
	buildCmd.Flags().StringP("output", "o", "",
		"file to write the description to (default stdout)")

	return buildCmd
}

// openOutput returns the writer selected by the --output flag.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return f, func() { f.Close() }, nil
}
