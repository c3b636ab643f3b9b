package revision

import (
	"fmt"
	"time"
)

// TimeLayout renders timestamps as DD-MM-YYYY (HH:MM:SS).
const TimeLayout = "02-01-2006 (15:04:05)"

// Stamp is the fully resolved version of a build.
type Stamp struct {
	// Label is the product version, e.g. "1.4.2".
	Label string
	// Commit identifies the sources the build came from.
	Commit Commit
	// BuildTime is when the build is considered to have happened.
	BuildTime time.Time
}

// String renders the stamp as "v<label> <commit> <DD-MM-YYYY (HH:MM:SS)>" in UTC.
func (s *Stamp) String() string {
	return fmt.Sprintf("v%s %s %s", s.Label, s.Commit, s.BuildTime.UTC().Format(TimeLayout))
}
