// Package generator derives the version string of a build.
//
// A Request is parsed from positional arguments, the Resolver turns it into a
// revision.Stamp using git metadata (or a supplied commit id) and the
// SOURCE_DATE_EPOCH override, and Run wires configuration, logging and output.
// Resolution never fails: invalid requests fall back to the sentinel commit id
// and the build time falls back to the wall clock.
package generator
