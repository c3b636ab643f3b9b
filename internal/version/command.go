package version

import (
	"github.com/spf13/cobra"
)

// AttachCobraVersionFlag adds a `--version` flag to the provided root command.
// A flag is used instead of a subcommand because every positional argument is a version label.
func AttachCobraVersionFlag(root *cobra.Command) {
	root.Version = Full()
	root.SetVersionTemplate("{{.Version}}\n")
}
