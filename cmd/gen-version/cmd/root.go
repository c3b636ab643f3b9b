package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/gen-version/internal/config"
	"github.com/oshokin/gen-version/internal/service/generator"
	"github.com/oshokin/gen-version/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// workDir is the directory in which git queries run.
	workDir string
	// logLevel overrides the configured diagnostic verbosity.
	logLevel string

	// rootCmd represents the base command for generating a version string.
	rootCmd = &cobra.Command{
		Use:   "gen-version <version-label> [commit-id]",
		Short: "Print a version string derived from git metadata.",
		Long: `Prints "v<label> <commit> <DD-MM-YYYY (HH:MM:SS)>" to stdout without a trailing newline.

With only a label, the commit id is read from HEAD of the git repository in the
working directory and suffixed with "-dirty" when tracked files were modified.
With a label and a commit id, the supplied hex id is used as is.
If the commit id cannot be determined, 000000000000-invalid is printed instead.

The build time is taken from SOURCE_DATE_EPOCH when it holds a valid Unix epoch,
otherwise from the HEAD commit time, otherwise from the current time. All times are UTC.
Diagnostics are written to stderr.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &generator.Options{
				ConfigPath: configPath,
				WorkDir:    workDir,
				LogLevel:   logLevel,
				Args:       args,
				Stdout:     cmd.OutOrStdout(),
			}

			return generator.Run(ctx, options)
		},
	}
)

// Execute runs the gen-version CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionFlag(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&workDir, "dir", "C", "", "run git queries in this directory")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "diagnostic verbosity (debug, info, warn, error)")
}
