// Package git queries version control metadata for the working tree.
//
// The Repository interface is what the generator depends on; CLIRepository
// implements it by running the git binary once per query.
package git
