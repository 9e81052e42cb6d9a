// Package cmd wires the CLI surface: the root deployment command and the
// operational subcommands for an existing stack.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/erpstack/erpstack/internal/log"
	"github.com/erpstack/erpstack/internal/tui"
)

var (
	flagLogLevel string
	flagNoColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "erpstack",
	Short: "Deploy and operate ERPNext on Docker Compose",
	Long: `erpstack deploys a complete ERPNext stack (database, cache, backend and
frontend containers) with Docker Compose, on this machine or on a remote
host over SSH.

Run without arguments for the interactive wizard. Pass --config <file>
to deploy from a saved file, or the full flag set for unattended runs.

Examples:
  # Interactive deployment
  erpstack

  # Deploy from a saved configuration
  erpstack --config deploy.yml

  # Unattended local deployment
  erpstack --mode local --site-name erp.localhost --version v16.7.3 \
    --db-password secret1 --admin-password secret2
`,
	RunE:          runDeploy,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with the given context. Cancelling the context
// aborts the running command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn",
		"log verbosity (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false,
		"disable colored output")
}

// setupLogging configures the process logger from the persistent flags.
// Logs go to stderr so they never interleave with the styled output.
func setupLogging() {
	log.SetDefaultLogger(log.New(log.Config{
		Level:  log.ParseLevel(flagLogLevel),
		Format: log.FormatText,
		Output: log.OutputStderr(),
	}))
}

// newPrinter builds the styled stdout printer honoring --no-color.
func newPrinter() *tui.Printer {
	return tui.NewPrinter(nil, flagNoColor)
}
