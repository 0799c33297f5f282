package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/q-beau/NBS-TP/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate the scenario grid, or one prepared input table",
	Long: `Simulates every scenario in the configured grid against the data
directory, writing one summary CSV and one prepared input table per
scenario into the results directory. With --input, simulates a single
already-prepared table instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")
		input, _ := cmd.Flags().GetString("input")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		resultsDir, _ := cmd.Flags().GetString("results-dir")
		trials, _ := cmd.Flags().GetInt("trials")
		workers, _ := cmd.Flags().GetInt("workers")
		seed, _ := cmd.Flags().GetUint64("seed")
		perturbation, _ := cmd.Flags().GetFloat64("perturbation")
		storeDriver, _ := cmd.Flags().GetString("store")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.ExecuteRun(ctx, cli.RunOptions{
			ConfigPath:   configPath,
			InputPath:    input,
			DataDir:      dataDir,
			ResultsDir:   resultsDir,
			Trials:       trials,
			Workers:      workers,
			Seed:         seed,
			SeedSet:      cmd.Flags().Changed("seed"),
			Perturbation: perturbation,
			StoreDriver:  storeDriver,
			MetricsAddr:  metricsAddr,
			Debug:        debug,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("input", "", "Simulate this prepared input table instead of the grid")
	runCmd.Flags().String("data-dir", "", "Override the scenario data directory")
	runCmd.Flags().String("results-dir", "", "Override the results directory")
	runCmd.Flags().Int("trials", 0, "Override the number of Monte Carlo trials")
	runCmd.Flags().Int("workers", 0, "Override the worker count (0 = one per spare CPU)")
	runCmd.Flags().Uint64("seed", 0, "Override the ensemble seed")
	runCmd.Flags().Float64("perturbation", 0, "Override the rate perturbation half-width")
	runCmd.Flags().String("store", "", "Override the archive driver (memory, file, redis, sqlite)")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")
}
