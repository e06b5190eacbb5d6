package netwatch

import "time"

// Transition reports a change of host connectivity. Watchers only emit a
// Transition when the state differs from the previous one.
type Transition struct {
	Online bool
	At     time.Time
	// Reason names what prompted the check that observed the change, for
	// example "probe", "udev" or "rtnetlink".
	Reason string
}
