package geocode

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"strings"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
)

// Base corner and span of the synthetic service area (Mumbai).
const (
	offlineBaseLat = 19.0
	offlineBaseLng = 72.8
	offlineSpan    = 0.2
)

// OfflineGeocoder derives coordinates from the address text itself. The
// same address always maps to the same point inside a small synthetic
// service area, which keeps route optimization meaningful without any
// network dependency. Used when no geocoding API is configured.
type OfflineGeocoder struct{}

// NewOfflineGeocoder creates a deterministic offline geocoder.
func NewOfflineGeocoder() *OfflineGeocoder {
	return &OfflineGeocoder{}
}

// Resolve maps the address onto a deterministic coordinate. The first
// eight digest bytes drive latitude, the next eight drive longitude.
// Only blank addresses fail to resolve.
func (g *OfflineGeocoder) Resolve(_ context.Context, address string) (kernel.Coordinate, error) {
	if strings.TrimSpace(address) == "" {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, nil)
	}

	digest := md5.Sum([]byte(address))
	latSeed := binary.BigEndian.Uint32(digest[0:4])
	lngSeed := binary.BigEndian.Uint32(digest[4:8])

	lat := offlineBaseLat + float64(latSeed)/float64(^uint32(0))*offlineSpan
	lng := offlineBaseLng + float64(lngSeed)/float64(^uint32(0))*offlineSpan

	coordinate, err := kernel.NewCoordinate(address, lat, lng)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, err)
	}

	return coordinate, nil
}
