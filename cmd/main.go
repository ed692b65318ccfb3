package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFlag string
	rootCmd    = &cobra.Command{
		Use:           "healthdash",
		Short:         "Personal health dashboard: habits, diet, workouts and an AI coach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "YAML config file (optional)")

	rootCmd.AddCommand(newServeCmd(), newSummaryCmd(), newProgressCmd(), newAdviseCmd(), newPlanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
