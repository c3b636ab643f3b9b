package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Repository defines the version control queries needed to derive a version.
type Repository interface {
	// IsRepository reports whether the working directory is inside a repository.
	IsRepository(ctx context.Context) bool
	// HeadCommit returns the full commit id of HEAD.
	HeadCommit(ctx context.Context) (string, error)
	// HeadEpoch returns the committer time of HEAD in Unix seconds.
	HeadEpoch(ctx context.Context) (int64, error)
	// IsDirty reports whether tracked files differ from HEAD.
	IsDirty(ctx context.Context) (bool, error)
}

const (
	// DefaultBinary is the git executable looked up in PATH.
	DefaultBinary = "git"

	// DefaultTimeout bounds a single git invocation.
	DefaultTimeout = 10 * time.Second

	// diffIndexChanges is the exit status of `git diff-index --quiet` when changes exist.
	diffIndexChanges = 1
)

var (
	// ErrEmptyOutput is returned when git succeeds but prints nothing.
	ErrEmptyOutput = errors.New("empty git output")
	// ErrNotNumeric is returned when the commit time is not a plain number.
	ErrNotNumeric = errors.New("commit time is not numeric")
)

// CLIRepository runs the git command-line tool.
type CLIRepository struct {
	// binary is the git executable name or path.
	binary string
	// dir is the working directory for git; empty means the process cwd.
	dir string
	// callTimeout bounds each invocation; zero disables the bound.
	callTimeout time.Duration
}

// Option configures CLIRepository behaviour.
type Option func(*CLIRepository)

// WithBinary overrides the git executable.
func WithBinary(binary string) Option {
	return func(r *CLIRepository) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithDir runs git inside dir.
func WithDir(dir string) Option {
	return func(r *CLIRepository) {
		if dir != "" {
			r.dir = filepath.Clean(dir)
		}
	}
}

// WithCallTimeout sets the timeout of a single git invocation.
// A non-positive value disables it.
func WithCallTimeout(timeout time.Duration) Option {
	return func(r *CLIRepository) {
		r.callTimeout = max(timeout, 0)
	}
}

// NewCLIRepository creates a repository backed by the git binary.
func NewCLIRepository(opts ...Option) *CLIRepository {
	r := &CLIRepository{
		binary:      DefaultBinary,
		callTimeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// IsRepository runs `git rev-parse --git-dir`.
func (r *CLIRepository) IsRepository(ctx context.Context) bool {
	_, err := r.run(ctx, "rev-parse", "--git-dir")

	return err == nil
}

// HeadCommit runs `git rev-parse --verify HEAD`.
func (r *CLIRepository) HeadCommit(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--verify", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	id := strings.TrimRight(out, "\r\n")
	if id == "" {
		return "", fmt.Errorf("resolve HEAD: %w", ErrEmptyOutput)
	}

	return id, nil
}

// HeadEpoch runs `git show --no-patch --format=%ct HEAD`.
func (r *CLIRepository) HeadEpoch(ctx context.Context) (int64, error) {
	out, err := r.run(ctx, "show", "--no-patch", "--format=%ct", "HEAD")
	if err != nil {
		return 0, fmt.Errorf("read HEAD commit time: %w", err)
	}

	return ParseEpoch(out)
}

// IsDirty runs `git diff-index --quiet HEAD`.
// Exit status 1 means the tree is dirty; any other failure is returned as an error.
func (r *CLIRepository) IsDirty(ctx context.Context) (bool, error) {
	_, err := r.run(ctx, "diff-index", "--quiet", "HEAD")
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == diffIndexChanges {
		return true, nil
	}

	return false, fmt.Errorf("check working tree: %w", err)
}

// ParseEpoch converts git's %ct output into Unix seconds.
// Only a plain run of ASCII digits surrounded by whitespace is accepted.
func ParseEpoch(out string) (int64, error) {
	s := strings.TrimSpace(out)
	if s == "" {
		return 0, ErrEmptyOutput
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
		}
	}

	epoch, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotNumeric, err)
	}

	return epoch, nil
}

// run executes git with args and returns its stdout. Stderr is discarded.
func (r *CLIRepository) run(ctx context.Context, args ...string) (string, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	var stdout bytes.Buffer

	cmd := exec.CommandContext(callCtx, r.binary, args...)
	cmd.Dir = r.dir
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}

// callContext returns a context with the call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (r *CLIRepository) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, r.callTimeout)
}
