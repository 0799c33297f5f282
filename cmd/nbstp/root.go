package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nbstp",
	Short: "nbstp projects soil organic carbon under climate and management scenarios",
	Long: `nbstp runs a five-pool soil carbon model over regional climate projections
and reports how much carbon cropland keeps, or loses, under different
warming pathways, straw-return policies and crop rotations. Each scenario
is simulated as a Monte Carlo ensemble with perturbed decomposition rates,
so every projection comes with its spread.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
