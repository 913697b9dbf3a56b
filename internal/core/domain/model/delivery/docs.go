// Package delivery contains the Delivery aggregate: one execution of an
// optimized route. It tracks the courier's last reported position, the set
// of stops already served, and the run's lifecycle status.
//
// A delivery is created in InProgress status when a route starts and reaches
// the terminal Completed status when the run finishes. All mutations are
// rejected once the delivery is Completed; completing an already served stop
// is an idempotent no-op.
package delivery
