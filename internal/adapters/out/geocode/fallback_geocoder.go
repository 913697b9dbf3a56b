package geocode

import (
	"context"
	"log/slog"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
)

// FallbackGeocoder tries a primary geocoder and falls back to a secondary
// one per address. Resolution fails only when both fail, so a flaky live
// provider degrades to deterministic coordinates instead of surfacing
// errors to the requester.
type FallbackGeocoder struct {
	primary  ports.Geocoder
	fallback ports.Geocoder
	logger   *slog.Logger
}

// NewFallbackGeocoder creates a geocoder chaining primary and fallback.
// A nil logger falls back to slog.Default.
func NewFallbackGeocoder(primary, fallback ports.Geocoder, logger *slog.Logger) *FallbackGeocoder {
	if logger == nil {
		logger = slog.Default()
	}

	return &FallbackGeocoder{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With("component", "geocode-fallback"),
	}
}

// Resolve resolves through the primary geocoder, switching to the fallback
// when the primary fails for the given address.
func (g *FallbackGeocoder) Resolve(ctx context.Context, address string) (kernel.Coordinate, error) {
	coordinate, err := g.primary.Resolve(ctx, address)
	if err == nil {
		return coordinate, nil
	}

	g.logger.Warn("primary geocoder failed, using fallback",
		"address", address, "error", err)

	return g.fallback.Resolve(ctx, address)
}
