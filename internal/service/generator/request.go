package generator

// Mode selects where the commit id comes from.
type Mode int

const (
	// ModeInvalid marks a request with an unsupported number of arguments.
	ModeInvalid Mode = iota
	// ModeDerive reads the commit id from the local repository.
	ModeDerive
	// ModeSupplied uses a commit id given by the caller.
	ModeSupplied
)

// String returns a human-readable mode name for logs.
func (m Mode) String() string {
	switch m {
	case ModeDerive:
		return "derive"
	case ModeSupplied:
		return "supplied"
	default:
		return "invalid"
	}
}

// Request describes what version to produce.
type Request struct {
	// Label is the product version, e.g. "1.4.2".
	Label string
	// Mode is derived from the number of positional arguments.
	Mode Mode
	// SuppliedID is the raw caller-provided commit id for ModeSupplied.
	SuppliedID string
	// ArgCount is the number of positional arguments, label included.
	ArgCount int
}

// ParseRequest maps positional arguments to a request:
// <label> selects ModeDerive, <label> <commit-id> selects ModeSupplied,
// anything else yields ModeInvalid.
func ParseRequest(args []string) Request {
	req := Request{ArgCount: len(args)}
	if len(args) > 0 {
		req.Label = args[0]
	}

	switch len(args) {
	case 1:
		req.Mode = ModeDerive
	case 2: //nolint:mnd // Label and commit id.
		req.Mode = ModeSupplied
		req.SuppliedID = args[1]
	default:
		req.Mode = ModeInvalid
	}

	return req
}
