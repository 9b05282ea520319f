package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evlens/evlens/internal/api"
	"github.com/evlens/evlens/internal/config"
	"github.com/evlens/evlens/internal/logging"
)

// setupCommand loads configuration and initializes logging and tracing for
// one command invocation. Cobra child commands inherit this through the root
// command's PersistentPreRunE.
func setupCommand(cmd *cobra.Command) error {
	cfg := config.New()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.SetConfigPath(path)
	}
	if err := cfg.Load(); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// The --server flag outranks both the config file and the environment.
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Server.URL = server
	}

	debug, _ := cmd.Flags().GetBool("debug")
	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	// Console output is reserved for --debug so the TUI stays clean.
	if err := config.InitLogger(level, debug, cfg.Logging.File); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	config.SetGlobalConfig(cfg)
	logger = logging.ComponentLogger(config.Logger, "cli")

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")

	return nil
}

// cleanupCommand releases the log file handle opened during setup.
func cleanupCommand() error {
	return config.CloseLogFile()
}

// newAPIClient builds the backend client from the loaded configuration and
// runs the version handshake unless --skip-version-check is set.
func newAPIClient(cmd *cobra.Command) (*api.Client, *config.Config, error) {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		return nil, nil, errors.New("configuration not loaded")
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrNoServerURL) {
			return nil, nil, fmt.Errorf("%w (set server.url in the config file, EVLENS_SERVER_URL, or --server)", err)
		}
		return nil, nil, err
	}

	client := api.New(cfg.Server)

	if skip, _ := cmd.Flags().GetBool("skip-version-check"); !skip {
		if err := client.CheckCompatibility(cmd.Context()); err != nil {
			if errors.Is(err, api.ErrIncompatibleServer) {
				return nil, nil, fmt.Errorf("%w (use --skip-version-check to proceed anyway)", err)
			}
			return nil, nil, err
		}
	}

	return client, cfg, nil
}
