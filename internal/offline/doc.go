// Package offline keeps pizza submissions that could not reach the server and
// resubmits them when connectivity returns.
//
// Store is the local record store: one SQLite file holding the new_pizza
// partition, versioned through PRAGMA user_version and created by embedded
// migrations on first open. Queue coordinates it: SaveRecord appends a
// payload, Flush drains every pending payload to the server in one batched
// call and clears the partition only after the server confirms, and Run
// flushes on every offline to online transition reported by a netwatch
// Watcher.
//
// Delivery is at-least-once. A response lost after the server stored a batch
// leaves the records queued, and they are submitted again on the next flush.
package offline
