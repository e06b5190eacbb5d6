// Package sqlitedb opens the SQLite databases used by pizzahunt and wraps
// statement execution with a short busy-retry so the CLI and the offline
// agent can share one file.
package sqlitedb
