// Package tracking implements the in-process pub/sub hub for live delivery
// progress. Observers join a room per delivery id and receive location,
// stop-completion, and delivery-completion events broadcast by the command
// handlers, plus membership acks addressed to them alone.
//
// Delivery is at-most-once with no replay: a late joiner must query the
// delivery snapshot to catch up.
package tracking
