package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/gen-version/internal/logger"
)

// Config holds settings for version generation.
type Config struct {
	// GitBinary is the git executable name or path.
	GitBinary string `yaml:"git_binary"`
	// WorkDir is the directory where git queries run. Empty means the current directory.
	WorkDir string `yaml:"work_dir"`
	// Timeout bounds every git query. Zero disables the bound.
	Timeout *time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of diagnostics written to stderr.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "gen-version.yaml"

	// DefaultGitBinary is the git executable looked up in PATH.
	DefaultGitBinary = "git"

	// DefaultTimeout is the default duration of a single git query.
	DefaultTimeout = 10 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeTimeout is returned when the git timeout is below zero.
	errNegativeTimeout = errors.New("timeout must not be negative")
	// errUnknownLogLevel is returned for unsupported log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a validated configuration with default values.
func Default() *Config {
	cfg := new(Config)

	// Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// A missing file is not an error when path is empty or the default filename.
func Load(path string) (*Config, error) {
	explicit := IsExplicit(path)
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.GitBinary == "" {
		cfg.GitBinary = DefaultGitBinary
	}

	if cfg.Timeout == nil {
		timeout := DefaultTimeout
		cfg.Timeout = &timeout
	}

	if *cfg.Timeout < 0 {
		return fmt.Errorf("%w: %s", errNegativeTimeout, *cfg.Timeout)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	// WorkDir is not checked here: an unusable directory only means git finds no repository.
	return nil
}

// IsExplicit reports whether path names a settings file other than the optional default.
func IsExplicit(path string) bool {
	return path != "" && path != DefaultConfigFilename
}

// GitTimeout returns the configured git timeout or the default.
func (c *Config) GitTimeout() time.Duration {
	if c == nil || c.Timeout == nil {
		return DefaultTimeout
	}

	return *c.Timeout
}
