package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the evlens CLI.
// It wires up configuration loading, logging, and tracing, and registers the
// events, review, and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evlens",
		Short:   "Camera event review dashboard",
		Long:    "evlens: browse, review, and curate camera events linked to tracked entities",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupCommand(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupCommand()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to the console")
	cmd.PersistentFlags().String("config", "", "path to the configuration file (default ~/.evlens/config.yaml)")
	cmd.PersistentFlags().String("server", "", "backend server URL (overrides config file and environment)")
	cmd.PersistentFlags().
		Bool("skip-version-check", false, "skip backend version compatibility check")

	cmd.AddCommand(newEventsCmd(), NewReviewCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Review an entity's events interactively
  evlens review person-42

  # List events linked to an entity
  evlens events list person-42

  # List the second page, 25 events per page
  evlens events list person-42 --page 2 --page-size 25

  # Remove an event from an entity's collection
  evlens events unlink person-42 evt-01J9 --yes

  # Initialize configuration
  evlens config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
