package generator

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/gen-version/internal/config"
	"github.com/oshokin/gen-version/internal/logger"
)

// newFixtureRepository initializes a repository with one commit made at 1700000000.
// The test is skipped when no git binary is available.
func newFixtureRepository(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary is not available")
	}

	dir := t.TempDir()

	gitRun(t, dir, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.4.2\n"), 0o600))
	gitRun(t, dir, "add", "VERSION")
	gitRun(t, dir,
		"-c", "user.name=Build Bot",
		"-c", "user.email=bot@example.com",
		"-c", "commit.gpgsign=false",
		"commit", "-q", "-m", "release")

	return dir
}

// gitRun runs git in dir with a fixed commit date and fails the test on error.
func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_DATE=@1700000000 +0000",
		"GIT_COMMITTER_DATE=@1700000000 +0000",
	)

	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// TestRun_SuppliedCommit renders a supplied id with a reproducible timestamp.
func TestRun_SuppliedCommit(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "1700000000")

	var stdout bytes.Buffer

	err := Run(context.Background(), &Options{
		Args:   []string{"1.4.2", "ABCDEF1234567890"},
		Stdout: &stdout,
	})

	require.NoError(t, err)
	require.Equal(t, "v1.4.2 abcdef123456 14-11-2023 (22:13:20)", stdout.String())
}

// TestRun_Degrades ensures invalid requests still produce output.
func TestRun_Degrades(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "1700000000")

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	var stdout bytes.Buffer

	// Too many arguments.
	err := Run(context.Background(), &Options{
		Args:   []string{"1.4.2", "abc", "def", "ghi"},
		Stdout: &stdout,
	})

	require.NoError(t, err)
	require.Equal(t, "v1.4.2 000000000000-invalid 14-11-2023 (22:13:20)", stdout.String())

	// Derive outside of any repository.
	stdout.Reset()

	err = Run(context.Background(), &Options{
		WorkDir:  dir,
		LogLevel: "error",
		Args:     []string{"2.0"},
		Stdout:   &stdout,
	})

	require.NoError(t, err)
	require.Equal(t, "v2.0 000000000000-invalid 14-11-2023 (22:13:20)", stdout.String())
}

// TestRun_BadSettings verifies that unusable settings are reported as errors.
func TestRun_BadSettings(t *testing.T) {
	dir := t.TempDir()

	var stdout bytes.Buffer

	// Explicit settings file that does not exist.
	err := Run(context.Background(), &Options{
		ConfigPath: filepath.Join(dir, "missing.yaml"),
		Args:       []string{"1.4.2"},
		Stdout:     &stdout,
	})
	require.ErrorIs(t, err, os.ErrNotExist)

	// Unknown log level override.
	err = Run(context.Background(), &Options{
		LogLevel: "loud",
		Args:     []string{"1.4.2"},
		Stdout:   &stdout,
	})
	require.Error(t, err)
	require.Empty(t, stdout.String())
}

// TestRun_DeriveFromRepository renders HEAD of a real repository with its commit time.
func TestRun_DeriveFromRepository(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "")

	dir := newFixtureRepository(t)

	var stdout bytes.Buffer

	err := Run(context.Background(), &Options{
		WorkDir: dir,
		Args:    []string{"1.4.2"},
		Stdout:  &stdout,
	})

	require.NoError(t, err)
	require.Regexp(t, `^v1\.4\.2 [0-9a-f]{12} 14-11-2023 \(22:13:20\)$`, stdout.String())

	// Modified tracked file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.4.3-rc.1\n"), 0o600))
	stdout.Reset()

	err = Run(context.Background(), &Options{
		WorkDir: dir,
		Args:    []string{"1.4.2"},
		Stdout:  &stdout,
	})

	require.NoError(t, err)
	require.Regexp(t, `^v1\.4\.2 [0-9a-f]{12}-dirty 14-11-2023 \(22:13:20\)$`, stdout.String())
}

// TestRun_BrokenDefaultSettings falls back to defaults when the optional settings file is unusable.
func TestRun_BrokenDefaultSettings(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "1700000000")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFilename), []byte("timeout: [\n"), 0o600))
	t.Chdir(dir)

	for _, path := range []string{"", config.DefaultConfigFilename} {
		var stdout, stderr bytes.Buffer

		ctx := logger.ToContext(context.Background(), logger.NewWithSink(zapcore.AddSync(&stderr), zapcore.InfoLevel))

		err := Run(ctx, &Options{
			ConfigPath: path,
			Args:       []string{"1.4.2", "abcdef"},
			Stdout:     &stdout,
		})

		require.NoError(t, err, path)
		require.Equal(t, "v1.4.2 abcdef 14-11-2023 (22:13:20)", stdout.String(), path)
		require.Contains(t, stderr.String(), "Ignoring settings file", path)
	}
}

// TestRun_MissingWorkDir degrades to the invalid commit id instead of failing.
func TestRun_MissingWorkDir(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "1700000000")

	var stdout bytes.Buffer

	err := Run(context.Background(), &Options{
		WorkDir:  filepath.Join(t.TempDir(), "missing"),
		LogLevel: "error",
		Args:     []string{"1.4.2"},
		Stdout:   &stdout,
	})

	require.NoError(t, err)
	require.Equal(t, "v1.4.2 000000000000-invalid 14-11-2023 (22:13:20)", stdout.String())
}

// TestRun_DiagnosticsStayOffStdout checks that warnings go to the logger and stdout holds only the version.
func TestRun_DiagnosticsStayOffStdout(t *testing.T) {
	t.Setenv(SourceDateEpochVariable, "yesterday")

	var stdout, stderr bytes.Buffer

	ctx := logger.ToContext(context.Background(), logger.NewWithSink(zapcore.AddSync(&stderr), zapcore.InfoLevel))

	err := Run(ctx, &Options{
		Args:   []string{"1.4.2", "ABCDEF1234567890", "extra"},
		Stdout: &stdout,
	})

	require.NoError(t, err)
	require.Regexp(t, `^v1\.4\.2 000000000000-invalid \d{2}-\d{2}-\d{4} \(\d{2}:\d{2}:\d{2}\)$`, stdout.String())
	require.Contains(t, stderr.String(), "Invalid SOURCE_DATE_EPOCH")
	require.Contains(t, stderr.String(), ErrInvalidArgCount.Error())
	require.NotContains(t, stdout.String(), "SOURCE_DATE_EPOCH")
}
