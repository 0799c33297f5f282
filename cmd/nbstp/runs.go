package main

import (
	"github.com/spf13/cobra"

	"github.com/q-beau/NBS-TP/internal/cli"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the runs in the archive store",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		return cli.ExecuteRuns(cmd.Context(), cli.RunsOptions{ConfigPath: configPath})
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
