package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing
// configuration at ~/.evlens/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values at
~/.evlens/config.yaml (or the path given with --config).

The generated file documents every setting, including the server URL, the
fetch page size, and the list rendering knobs.`,
		Example: `  # Create the configuration file
  evlens config init

  # Create configuration, overwriting existing
  evlens config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	cfg := config.New()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.SetConfigPath(path)
	}

	if !force {
		if _, err := os.Stat(cfg.ConfigPath()); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())
	cmd.Printf("Set server.url (or EVLENS_SERVER_URL) before running 'evlens review'\n")

	return nil
}
