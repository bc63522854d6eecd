package main

import (
	"os"

	"github.com/kubev2v/job-tracker/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	command := NewTrackerCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewTrackerCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker [flags] [options]",
		Short: "tracker keeps track of your job applications.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdLogout())
	cmd.AddCommand(cli.NewCmdWhoami())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdUpdate())
	cmd.AddCommand(cli.NewCmdDelete())

	return cmd
}
