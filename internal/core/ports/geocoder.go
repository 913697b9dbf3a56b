package ports

import (
	"context"
	"errors"
	"fmt"

	"routeplanner/internal/core/domain/model/kernel"
)

// ErrAddressNotResolved is the sentinel for geocoding failures.
var ErrAddressNotResolved = errors.New("address could not be resolved")

// AddressNotResolvedError reports a geocoding failure together with the
// offending address so callers can retry with a corrected input.
type AddressNotResolvedError struct {
	Address string
	Cause   error
}

// NewAddressNotResolvedError creates an AddressNotResolvedError for the
// given address with an optional underlying cause.
func NewAddressNotResolvedError(address string, cause error) *AddressNotResolvedError {
	return &AddressNotResolvedError{Address: address, Cause: cause}
}

func (e *AddressNotResolvedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %q (cause: %s)", ErrAddressNotResolved, e.Address, e.Cause)
	}
	return fmt.Sprintf("%s: %q", ErrAddressNotResolved, e.Address)
}

func (e *AddressNotResolvedError) Unwrap() error {
	return ErrAddressNotResolved
}

// Geocoder resolves a free-text address into a coordinate.
//
// Implementations are selected at construction time: a live provider backed
// by an external search API, or a deterministic offline generator so that
// solver behavior is exercisable without network access. Resolution
// failures are reported with the offending address so callers can surface
// it to the requester.
type Geocoder interface {
	// Resolve returns the coordinate for the given address.
	Resolve(ctx context.Context, address string) (kernel.Coordinate, error)
}
