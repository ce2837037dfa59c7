// Package commands implements the dbdeck subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dbdeck-io/dbdeck/internal/admin"
	"github.com/dbdeck-io/dbdeck/internal/cli/config"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Service *admin.Service
}

// NewCommandContext creates a CommandContext with a connected admin service.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := currentConfig()
	logger := config.GetLogger(cmd.Context())

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	svc := admin.New(cfg.ToConnConfig(), logger)
	cleanup := func() {
		_ = svc.Close()
	}

	return &CommandContext{
		Cfg:     cfg,
		Logger:  logger,
		Service: svc,
	}, cleanup, nil
}

// currentConfig returns the configuration loaded by the root command, or an
// empty config when invoked outside the normal command lifecycle.
func currentConfig() *config.Config {
	if cfg := config.Current(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Listen:   config.DefaultListen,
		PageSize: config.DefaultPageSize,
	}
}

// resolveSchema returns the schema argument when given, otherwise the
// configured default schema for the target.
func resolveSchema(cfg *config.Config, arg string) string {
	if arg != "" {
		return arg
	}
	return cfg.DefaultSchema()
}
