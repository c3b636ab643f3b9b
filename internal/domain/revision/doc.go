// Package revision contains the core types of a rendered build version.
//
// It defines Commit (a short commit identifier that is derived from the
// repository, supplied by the caller, or the invalid sentinel) and Stamp
// (label, commit and build time) with the canonical text rendering.
package revision
