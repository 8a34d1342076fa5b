package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/memsys/datarecording"
	"github.com/sarchlab/memsys/stats"
)

func newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:       "report cache|dvfs STATS_FILE",
		Short:     "Summarize a statistics file.",
		Long:      "`report` reads a statistics file and prints a bar report.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"cache", "dvfs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := stats.LookupReport(args[0])
			if err != nil {
				return err
			}

			values, err := reportValues(cmd, report, args[1])
			if err != nil {
				return err
			}

			err = stats.Render(cmd.OutOrStdout(), report.Title, values)
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("record")
			if path == "" || cmd.Flags().Changed("from-db") {
				return nil
			}

			rec := datarecording.New(path)
			stats.Record(rec, args[1], report, values)

			return rec.Close()
		},
	}

	reportCmd.Flags().String("record", "",
		"SQLite file (without extension) to record the values into")

	reportCmd.Flags().String("from-db", "",
		"SQLite file (without extension) to read recorded values from, "+
			"STATS_FILE then names the recorded source")

	return reportCmd
}

func reportValues(
	cmd *cobra.Command,
	report stats.Report,
	source string,
) ([]stats.Value, error) {
	db, _ := cmd.Flags().GetString("from-db")
	if db == "" {
		f, err := stats.ParseFile(source)
		if err != nil {
			return nil, err
		}

		return report.Evaluate(f)
	}

	reader, err := datarecording.NewReader(db + ".sqlite3")
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return stats.Recall(cmd.Context(), reader, source, report)
}
