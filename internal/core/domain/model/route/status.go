package route

import (
	"fmt"

	"routeplanner/internal/pkg/errs"
)

// Status represents the lifecycle state of an optimized route.
// It implements a state machine with defined transitions:
//
//	Optimized ──> InProgress ──> Completed
//
// A route is born Optimized when the solver produces its visiting order,
// moves to InProgress when a delivery starts executing it, and reaches the
// terminal Completed state when that delivery finishes.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Optimized is the initial status: the visiting order has been solved
	// but no delivery is executing the route yet.
	Optimized

	// InProgress indicates a delivery is currently executing the route.
	InProgress

	// Completed indicates the route's delivery has finished.
	// This is a final state with no further transitions allowed.
	Completed
)

// getStatusStrings returns a map of Status values to their wire representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Optimized:  "optimized",
		InProgress: "in_progress",
		Completed:  "completed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Optimized:  "optimized",
		InProgress: "in_progress",
		Completed:  "completed",
	}
}

// StatusFromString parses a wire representation into a Status.
// Used when rehydrating routes from persistence or API payloads.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid route status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are: Optimized, InProgress, Completed.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status: "optimized", "in_progress",
// or "completed". Returns "unknown" for invalid values. Implements the
// fmt.Stringer interface and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Start transitions the status to InProgress.
//
// Valid transitions:
//   - Optimized -> InProgress (delivery begins)
//
// Returns:
//   - (InProgress, nil) on valid transition
//   - (0, error) if the route is not in Optimized status
func (s Status) Start() (Status, error) {
	if s != Optimized {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to start", s.String()),
		)
	}

	return InProgress, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - InProgress -> Completed (delivery finished)
//
// Completed is a final state with no further transitions possible.
func (s Status) Complete() (Status, error) {
	if s != InProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
}
