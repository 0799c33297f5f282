package main

import (
	"fmt"

	"github.com/spf13/cobra"

	nbstp "github.com/q-beau/NBS-TP"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nbstp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nbstp version %s\n", nbstp.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
