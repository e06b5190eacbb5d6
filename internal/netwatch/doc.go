// Package netwatch tracks whether the host can reach the pizza API.
//
// A Watcher probes a TCP endpoint, optionally on an interval, and re-probes
// whenever a hint source reports a kernel network event. On Linux the hint
// sources are udev "net" subsystem events and rtnetlink link/address
// notifications. Only state changes are published on Transitions.
package netwatch
