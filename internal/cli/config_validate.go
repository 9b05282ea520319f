package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating
// configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness.

This includes:
- YAML syntax validation
- Server URL presence and scheme
- List rendering bounds (page size, virtualization threshold, overscan,
  estimated row height)`,
		Example: `  # Validate current configuration
  evlens config validate

  # Validate and show detailed information
  evlens config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		cfg = config.New()
		if err := cfg.Load(); err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Println("Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Configuration file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Server URL: %s\n", cfg.Server.URL)
	cmd.Printf("  Request timeout: %s\n", cfg.Server.Timeout())
	cmd.Printf("  Page size: %d\n", cfg.List.PageSize)
	cmd.Printf("  Virtualization threshold: %d\n", cfg.List.VirtualizationThreshold)
	cmd.Printf("  Overscan: %d\n", cfg.List.Overscan)
	cmd.Printf("  Estimated row height: %d\n", cfg.List.EstimatedRowHeight)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
