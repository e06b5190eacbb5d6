// Package notifications delivers offline-queue events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. A console
// notifier prints the same messages for interactive CLI sessions, and Fanout
// combines several notifiers so the agent can reach both.
//
// Callers depend only on the Service interface.
package notifications
