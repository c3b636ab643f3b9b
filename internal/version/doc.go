// Package version exposes build metadata of gen-version itself.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags, typically with values produced by gen-version on its own tree.
// Helper functions Short and Full render them for the --version flag.
package version
