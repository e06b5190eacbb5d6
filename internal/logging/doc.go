// Package logging assembles structured slog loggers and formatting helpers used
// across pizzahunt binaries.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so HTTP handlers and the offline
// agent can tag log lines with request identifiers. Console output is
// colourised only when the destination is a terminal. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
