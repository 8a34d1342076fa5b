package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsys/monitoring"
)

func newServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Build a system and serve it for inspection.",
		Long: "`serve` builds the system and starts the monitoring server " +
			"until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := loadOptions(cmd)
			if err != nil {
				return err
			}

			s, ctrl, err := assemble(o, nil, hooks(cmd)...)
			if err != nil {
				return err
			}

			m := monitoring.NewMonitor()
			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				m.WithPortNumber(port)
			}

			m.RegisterSystem(s)
			m.RegisterDVFS(ctrl)

			url, err := m.StartServer()
			if err != nil {
				return err
			}
			defer m.Close()

			if open, _ := cmd.Flags().GetBool("open"); open {
				if err := browser.OpenURL(url); err != nil {
					fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
				}
			}

			<-cmd.Context().Done()

			return nil
		},
	}

	addBuildFlags(serveCmd)
	serveCmd.Flags().Int("port", 0,
		"port to listen on, a random port is used if not set")
	serveCmd.Flags().Bool("open", false, "open the monitor in a browser")

	return serveCmd
}
