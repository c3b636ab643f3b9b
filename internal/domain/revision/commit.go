package revision

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Digits is the number of hex characters kept from a commit id.
	Digits = 12

	// DirtySuffix marks a working tree that differs from HEAD.
	DirtySuffix = "-dirty"

	// InvalidSuffix marks the sentinel used when no commit id could be determined.
	InvalidSuffix = "-invalid"
)

// ErrInvalidSHA is returned when a supplied commit id is not a hex string.
var ErrInvalidSHA = errors.New("invalid git sha")

// Commit is a short commit identifier ready for rendering.
type Commit struct {
	// ID holds at most Digits lowercase hex characters.
	ID string
	// Dirty reports uncommitted changes relative to the commit.
	Dirty bool
	// Invalid marks the fallback sentinel.
	Invalid bool
}

// InvalidCommit returns the sentinel used whenever derivation or validation fails.
func InvalidCommit() Commit {
	return Commit{
		ID:      strings.Repeat("0", Digits),
		Invalid: true,
	}
}

// Derived builds a commit from a HEAD id reported by version control.
func Derived(head string, dirty bool) Commit {
	return Commit{
		ID:    Truncate(strings.TrimRight(head, "\r\n")),
		Dirty: dirty,
	}
}

// Supplied validates a caller-provided commit id.
// The value is trimmed and lowercased; it must be a non-empty hex string.
func Supplied(raw string) (Commit, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if !IsHex(id) {
		return InvalidCommit(), fmt.Errorf("%w: %q", ErrInvalidSHA, raw)
	}

	return Commit{ID: Truncate(id)}, nil
}

// IsHex reports whether s is non-empty and made only of hex digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// Truncate cuts id to Digits characters. Shorter ids are returned unchanged.
func Truncate(id string) string {
	if len(id) > Digits {
		return id[:Digits]
	}

	return id
}

// String renders the identifier with its suffix, e.g. "abcdef123456-dirty".
func (c Commit) String() string {
	switch {
	case c.Invalid:
		return c.ID + InvalidSuffix
	case c.Dirty:
		return c.ID + DirtySuffix
	default:
		return c.ID
	}
}
