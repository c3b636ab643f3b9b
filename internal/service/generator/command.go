package generator

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/gen-version/internal/config"
	"github.com/oshokin/gen-version/internal/logger"
	"github.com/oshokin/gen-version/internal/repository/git"
)

// Options contains inputs for the generator entry point.
type Options struct {
	// ConfigPath is an optional path to the YAML settings (defaults to gen-version.yaml).
	ConfigPath string
	// WorkDir overrides the configured directory in which git runs.
	WorkDir string
	// LogLevel overrides the configured diagnostic level.
	LogLevel string
	// Args are the positional arguments: <label> [commit-id].
	Args []string
	// Stdout receives the rendered version. Defaults to os.Stdout.
	Stdout io.Writer
}

// Run resolves the version and writes it to Stdout without a trailing newline.
// Resolution problems only degrade the output; errors are returned for an
// unusable explicit settings file, an invalid flag override or a failed write.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	// Scope the configured level and logger name to this run.
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	ctx = logger.ToContext(ctx, logger.FromContext(ctx).WithOptions(logger.WithLevel(level)))
	ctx = logger.WithName(ctx, "gen-version")

	repo := git.NewCLIRepository(
		git.WithBinary(cfg.GitBinary),
		git.WithDir(cfg.WorkDir),
		git.WithCallTimeout(cfg.GitTimeout()),
	)

	stamp := NewResolver(repo).Resolve(ctx, ParseRequest(opts.Args))

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	if _, err = io.WriteString(out, stamp.String()); err != nil {
		return fmt.Errorf("write version: %w", err)
	}

	return nil
}

// loadConfig reads the settings file and applies command line overrides.
// A broken default settings file is reported and replaced with defaults.
func loadConfig(ctx context.Context, opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		if config.IsExplicit(opts.ConfigPath) {
			return nil, fmt.Errorf("load settings: %w", err)
		}

		logger.Warnf(ctx, "Ignoring settings file %s, using defaults: %v", config.DefaultConfigFilename, err)

		cfg = config.Default()
	}

	if opts.WorkDir != "" {
		cfg.WorkDir = opts.WorkDir
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}
