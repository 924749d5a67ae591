package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowtree",
	Short: "Flowtree converts process graphs into nested execution trees",
	Long: `Flowtree reads graph-structured process models (tasks, gateways,
subprocesses connected by directed flows) and converts them into strictly
nested, order-preserving execution trees plus a per-node metadata table.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
