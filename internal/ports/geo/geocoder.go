package geo

import (
	"context"
	"errors"
	"fmt"
)

// ReverseGeocoder turns coordinates into a human-readable address.
type ReverseGeocoder interface {
	CoordToAddress(ctx context.Context, lat, lng float64) (string, error)
}

var (
	ErrUpstream = errors.New("geocoding provider error")

	// ErrNoAddress is an upstream failure too: the provider answered but
	// carried no usable address component. It wraps ErrUpstream so both
	// cases land in the same error class.
	ErrNoAddress = fmt.Errorf("%w: no address for coordinates", ErrUpstream)
)
