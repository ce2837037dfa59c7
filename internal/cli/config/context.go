package config

import (
	"context"
	"log/slog"
)

// currentConfig stores the config loaded by the root command for access by
// subcommands.
var currentConfig *Config

// SetCurrent records the loaded configuration.
func SetCurrent(cfg *Config) { currentConfig = cfg }

// Current returns the configuration loaded by the root command, or nil when
// none has been loaded yet.
func Current() *Config { return currentConfig }

// loggerKey is used to store the logger in a command context.
type loggerKey struct{}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from ctx, or a discard logger when absent.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
