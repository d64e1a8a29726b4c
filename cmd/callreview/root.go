package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cs4273g/callreview/internal/projectconfig"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "callreview",
		Short: "callreview - review and grade 911 dispatcher calls",
		Long: `callreview is a command-line tool for reviewing 911 dispatcher calls.

It uploads call recordings and transcripts, grades transcripts against the
scripted-questioning standard, and keeps a per-dispatcher record of every
file and grade.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newUploadCommand())
	cmd.AddCommand(newRecordsCommand())
	cmd.AddCommand(newPlayCommand())
	cmd.AddCommand(newServeCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadConfig loads the project configuration from the working directory.
func loadConfig() (*projectconfig.ProjectConfig, error) {
	return projectconfig.Load(".")
}
