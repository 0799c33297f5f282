package main

import (
	"github.com/spf13/cobra"

	"github.com/q-beau/NBS-TP/internal/cli"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a briefing over completed runs",
	Long: `Builds a markdown briefing from the summary tables in the results
directory, or from the archive store with --from-store. The output is
styled when stdout is a terminal and plain markdown when piped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		resultsDir, _ := cmd.Flags().GetString("results-dir")
		fromStore, _ := cmd.Flags().GetBool("from-store")
		plain, _ := cmd.Flags().GetBool("plain")

		return cli.ExecuteReport(cmd.Context(), cli.ReportOptions{
			ConfigPath: configPath,
			ResultsDir: resultsDir,
			FromStore:  fromStore,
			Plain:      plain,
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("results-dir", "", "Override the results directory")
	reportCmd.Flags().Bool("from-store", false, "Read runs from the archive store instead of CSV files")
	reportCmd.Flags().Bool("plain", false, "Print raw markdown even on a terminal")
}
