// Package config defines the optional settings of gen-version and provides
// helpers to load and validate them in YAML format.
//
// The Config type holds the git executable, the directory in which git runs,
// the per-query timeout and the diagnostic log level.
package config
