package delivery

import (
	"fmt"

	"routeplanner/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery run.
// It implements a state machine with a single transition:
//
//	InProgress ──> Completed
//
// A delivery is born InProgress the moment a courier starts executing a
// route, and reaches the terminal Completed state when the run finishes.
// Every mutation of the aggregate is rejected once the delivery is Completed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// InProgress is the initial status: the courier is executing the route.
	InProgress

	// Completed indicates the delivery run has finished.
	// This is a final state with no further transitions allowed.
	Completed
)

// getStatusStrings returns a map of Status values to their wire representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		InProgress: "in_progress",
		Completed:  "completed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		InProgress: "in_progress",
		Completed:  "completed",
	}
}

// StatusFromString parses a wire representation into a Status.
// Used when rehydrating deliveries from persistence or API payloads.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid", fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are: InProgress, Completed.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status: "in_progress" or "completed".
// Returns "unknown" for invalid values. Implements the fmt.Stringer
// interface and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - InProgress -> Completed (run finished)
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
