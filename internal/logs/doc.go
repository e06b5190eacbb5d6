// Package logs reads the log files written under the configured log
// directory.
//
// Last returns the trailing lines of a file with bounded memory, and Follow
// polls for appended lines until its context ends. A file that has been
// truncated or rotated is read again from the start.
package logs
