package config

import (
	"context"
	"os"
)

type configKey struct{}

type workDirKey struct{}

// WithConfig returns a new context carrying the loaded config.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext returns the config stored in ctx, or nil when none was
// stored. Commands load the config once in the root command and read
// it from here.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey{}).(*Config); ok {
		return cfg
	}
	return nil
}

// WithWorkDir returns a new context carrying an explicit working
// directory. Tests use this to pin commands to a temp dir.
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey{}, dir)
}

// WorkDirFromContext returns the working directory stored in ctx,
// falling back to os.Getwd.
func WorkDirFromContext(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey{}).(string); ok && dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
