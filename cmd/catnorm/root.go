package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"catnorm/internal/config"
	"catnorm/internal/infrastructure"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "catnorm",
		Short:         "Normalize categorical columns against closed level sets",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to catnorm.yaml (default: search standard locations)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	cmd.AddCommand(newApplyCommand(opts))
	cmd.AddCommand(newLevelsCommand(opts))
	cmd.AddCommand(newServeCommand(opts))
	return cmd
}

// setup loads configuration and initializes the global logger
func (o *globalOptions) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
