package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "tracker-api",
	Short: "Job application tracker api",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
