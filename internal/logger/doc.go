// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (DebugKV, Warnf, WarnKV, ErrorKV).
//
// Diagnostics never go to stdout: stdout carries only the rendered version.
package logger
