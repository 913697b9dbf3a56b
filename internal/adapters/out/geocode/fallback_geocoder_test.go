package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"routeplanner/internal/adapters/out/geocode"
	"routeplanner/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackGeocoderResolve_PrimaryWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"18.9220","lon":"72.8347"}]`))
	}))
	defer server.Close()

	geocoder := geocode.NewFallbackGeocoder(
		geocode.NewHTTPGeocoder(server.Client(), server.URL, ""),
		geocode.NewOfflineGeocoder(),
		nil,
	)

	coordinate, err := geocoder.Resolve(context.Background(), "Gateway of India")

	require.NoError(t, err)
	assert.InDelta(t, 18.9220, coordinate.Latitude(), 1e-9)
}

func TestFallbackGeocoderResolve_FallsBackOnPrimaryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	geocoder := geocode.NewFallbackGeocoder(
		geocode.NewHTTPGeocoder(server.Client(), server.URL, ""),
		geocode.NewOfflineGeocoder(),
		nil,
	)

	coordinate, err := geocoder.Resolve(context.Background(), "Gateway of India")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, coordinate.Latitude(), 19.0)
	assert.LessOrEqual(t, coordinate.Latitude(), 19.2)
}

func TestFallbackGeocoderResolve_BothFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	geocoder := geocode.NewFallbackGeocoder(
		geocode.NewHTTPGeocoder(server.Client(), server.URL, ""),
		geocode.NewOfflineGeocoder(),
		nil,
	)

	_, err := geocoder.Resolve(context.Background(), "   ")

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)
}
