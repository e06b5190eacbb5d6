package offline

import "errors"

var (
	// ErrUnavailable is returned when the local store could not be opened and
	// the queue runs degraded for the session.
	ErrUnavailable = errors.New("offline store unavailable")
	// ErrFlushInProgress is returned when a flush is attempted while another
	// one is still running and the flush guard is enabled.
	ErrFlushInProgress = errors.New("flush already in progress")
	// ErrRejected wraps the server's message when it answered a flush with a
	// failure body.
	ErrRejected = errors.New("server rejected saved pizzas")
	// ErrSchemaMismatch indicates the store was written by a newer version.
	ErrSchemaMismatch = errors.New("offline store version mismatch")
)
