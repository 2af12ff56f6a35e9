package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"summit-abstract-miner/internal/envutil"
	"summit-abstract-miner/internal/status"
)

// newRootCmd builds the status command. Every expected condition,
// including a scraper that was never started, renders a report and
// exits zero; only flag misuse is an error.
func newRootCmd() *cobra.Command {
	var (
		opts   status.Options
		asJSON bool
	)

	rootCmd := &cobra.Command{
		Use:           "statuscheck",
		Short:         "Print whether the scraper is running and how far it has got",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := status.Collect(opts)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			report.WriteText(cmd.OutOrStdout())
			return nil
		},
	}

	getenv := os.Getenv
	var allCSV, hitsCSV string

	rootCmd.Flags().StringVar(&opts.Dir, "dir", envutil.String(getenv, "SCRAPER_DIR", "."), "Directory holding the scraper artifacts")
	rootCmd.Flags().StringVar(&opts.PIDFile, "pid-file", envutil.String(getenv, "SCRAPER_PID_FILE", "scraper.pid"), "PID file name")
	rootCmd.Flags().StringVar(&opts.LogFile, "log-file", envutil.String(getenv, "SCRAPER_LOG_FILE", "scraper.log"), "Log file name")
	rootCmd.Flags().StringVar(&allCSV, "all-csv", envutil.String(getenv, "SCRAPER_ALL_EVENTS_CSV", "aps_summit_all_events.csv"), "All-events CSV file name")
	rootCmd.Flags().StringVar(&hitsCSV, "hits-csv", envutil.String(getenv, "SCRAPER_HITS_CSV", "aps_summit_superconducting_qubits.csv"), "Keyword-hits CSV file name")
	rootCmd.Flags().IntVar(&opts.TailLines, "tail", envutil.Int(getenv, "SCRAPER_TAIL_LINES", 20), "Number of log lines to show")
	rootCmd.Flags().BoolVar(&asJSON, "json", envutil.Bool(getenv, "SCRAPER_STATUS_JSON", false), "Emit the report as JSON instead of text")

	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		opts.CSVFiles = []string{allCSV, hitsCSV}
	}

	return rootCmd
}
