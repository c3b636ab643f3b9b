package version

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
}

// TestAttachCobraVersionFlag checks that the root command exposes build info.
func TestAttachCobraVersionFlag(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "gen-version"}
	AttachCobraVersionFlag(root)

	require.Equal(t, Full(), root.Version)
}
