package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	applog "github.com/nao1215/depobs/internal/log"
)

// NewRootCmd creates the root command for depobs.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depobs",
		Short: "Request dependency-risk reports for npm packages",
		Long: `depobs asks a dependency observatory for the risk report of an npm package.

When a recent report for the requested version exists, depobs prints its URL.
Otherwise it queues a scan and prints the URL of the scan's log page.

Use "depobs serve" to run a local development report service.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitising logger selected by the global flags.
// Logs go to stderr so command output stays clean.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	jsonLog, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		jsonLog, _ = cmd.Root().PersistentFlags().GetBool("log-json")
	}
	if jsonLog {
		return applog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
