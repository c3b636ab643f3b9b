package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/gen-version/internal/domain/revision"
	"github.com/oshokin/gen-version/internal/logger"
	"github.com/oshokin/gen-version/internal/repository/git"
)

// SourceDateEpochVariable holds a reproducible-build timestamp override.
const SourceDateEpochVariable = "SOURCE_DATE_EPOCH"

const (
	// minEpoch is 0001-01-01T00:00:00Z.
	minEpoch = -62135596800
	// maxEpoch is 9999-12-31T23:59:59Z.
	maxEpoch = 253402300799
)

var (
	// ErrInvalidArgCount is returned for an unsupported number of positional arguments.
	ErrInvalidArgCount = errors.New("invalid number of command line arguments")
	// ErrNotRepository is returned when the working directory is not inside a git repository.
	ErrNotRepository = errors.New("invalid git directory")
	// ErrInvalidCommit is returned when HEAD cannot be resolved.
	ErrInvalidCommit = errors.New("invalid git commit")
	// ErrInvalidSourceDateEpoch is returned when the override is not a usable epoch.
	ErrInvalidSourceDateEpoch = errors.New("invalid SOURCE_DATE_EPOCH")
)

// Resolver turns requests into version stamps.
type Resolver struct {
	// repo answers version control queries in ModeDerive.
	repo git.Repository
	// lookupEnv reads environment variables.
	lookupEnv func(string) (string, bool)
	// now returns the wall-clock time used as the last fallback.
	now func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookupEnv func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		if lookupEnv != nil {
			r.lookupEnv = lookupEnv
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResolver creates a resolver that queries repo.
func NewResolver(repo git.Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo:      repo,
		lookupEnv: os.LookupEnv,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve produces the stamp for req. It never fails: any invalid request
// degrades to the sentinel commit id and is reported through the logger.
func (r *Resolver) Resolve(ctx context.Context, req Request) *revision.Stamp {
	ctx = logger.WithKV(ctx, "mode", req.Mode.String())

	commit, epoch, err := r.commit(ctx, req)
	if err != nil {
		logger.ErrorKV(ctx, "Falling back to invalid commit id", "error", err)

		commit, epoch = revision.InvalidCommit(), nil
	}

	return &revision.Stamp{
		Label:     req.Label,
		Commit:    commit,
		BuildTime: r.buildTime(ctx, epoch),
	}
}

// commit selects the commit id and, in ModeDerive, the commit epoch.
// A nil epoch means it is unavailable.
func (r *Resolver) commit(ctx context.Context, req Request) (revision.Commit, *int64, error) {
	switch req.Mode {
	case ModeDerive:
		return r.derive(ctx)
	case ModeSupplied:
		commit, err := revision.Supplied(req.SuppliedID)

		return commit, nil, err
	default:
		return revision.Commit{}, nil, fmt.Errorf("%w: got %d", ErrInvalidArgCount, req.ArgCount)
	}
}

// derive reads HEAD, its commit time and the working tree state.
func (r *Resolver) derive(ctx context.Context) (revision.Commit, *int64, error) {
	if r.repo == nil || !r.repo.IsRepository(ctx) {
		return revision.Commit{}, nil, ErrNotRepository
	}

	head, err := r.repo.HeadCommit(ctx)
	if err != nil {
		return revision.Commit{}, nil, fmt.Errorf("%w: %w", ErrInvalidCommit, err)
	}

	var epoch *int64

	if value, epochErr := r.repo.HeadEpoch(ctx); epochErr != nil {
		logger.DebugKV(ctx, "Commit time is unavailable", "error", epochErr)
	} else {
		epoch = &value
	}

	dirty, err := r.repo.IsDirty(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Working tree check failed, assuming clean", "error", err)

		dirty = false
	}

	commit := revision.Derived(head, dirty)

	logger.DebugKV(ctx, "Derived commit id", "commit", commit.String())

	return commit, epoch, nil
}

// buildTime applies the override, commit time, wall clock precedence.
func (r *Resolver) buildTime(ctx context.Context, commitEpoch *int64) time.Time {
	if raw, ok := r.lookupEnv(SourceDateEpochVariable); ok && raw != "" {
		ts, err := ParseSourceDateEpoch(raw)
		if err == nil {
			return ts
		}

		logger.WarnKV(ctx, "Invalid SOURCE_DATE_EPOCH, falling back to commit/build time", "error", err)
	}

	if commitEpoch != nil {
		if ts, ok := fromEpoch(*commitEpoch); ok {
			return ts
		}

		logger.DebugKV(ctx, "Commit time is out of range", "epoch", *commitEpoch)
	}

	return r.now().UTC()
}

// ParseSourceDateEpoch parses an integer Unix epoch into a UTC time.
// Surrounding whitespace and a leading sign are accepted.
func ParseSourceDateEpoch(raw string) (time.Time, error) {
	epoch, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidSourceDateEpoch, raw, err)
	}

	ts, ok := fromEpoch(epoch)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q is out of range", ErrInvalidSourceDateEpoch, raw)
	}

	return ts, nil
}

// fromEpoch converts Unix seconds to UTC when the year fits in four digits.
func fromEpoch(epoch int64) (time.Time, bool) {
	if epoch < minEpoch || epoch > maxEpoch {
		return time.Time{}, false
	}

	return time.Unix(epoch, 0).UTC(), true
}
