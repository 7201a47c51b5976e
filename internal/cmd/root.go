// Package cmd implements the careconnect CLI commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careconnect",
	Short: "CareConnect patient portal client",
	Long: `careconnect is the command-line client for the CareConnect patient portal.
It signs you in, keeps your session alive while you are active, books
appointments and carries your conversation threads with doctors and the
care assistant.

Sessions end automatically when the login token expires or after 30
minutes without activity; the reason is shown the next time you run a
command.`,
	SilenceUsage: true,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
