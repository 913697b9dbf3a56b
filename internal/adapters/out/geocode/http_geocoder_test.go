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

func TestHTTPGeocoderResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Gateway of India, Mumbai", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"18.9220","lon":"72.8347","display_name":"Gateway of India"}]`))
	}))
	defer server.Close()

	geocoder := geocode.NewHTTPGeocoder(server.Client(), server.URL, "secret")

	coordinate, err := geocoder.Resolve(context.Background(), "Gateway of India, Mumbai")

	require.NoError(t, err)
	assert.Equal(t, "Gateway of India, Mumbai", coordinate.Address())
	assert.InDelta(t, 18.9220, coordinate.Latitude(), 1e-9)
	assert.InDelta(t, 72.8347, coordinate.Longitude(), 1e-9)
}

func TestHTTPGeocoderResolve_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geocoder := geocode.NewHTTPGeocoder(server.Client(), server.URL, "")

	_, err := geocoder.Resolve(context.Background(), "Nowhere Street 404")

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)

	var notResolved *ports.AddressNotResolvedError
	require.ErrorAs(t, err, &notResolved)
	assert.Equal(t, "Nowhere Street 404", notResolved.Address)
}

func TestHTTPGeocoderResolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	geocoder := geocode.NewHTTPGeocoder(server.Client(), server.URL, "")

	_, err := geocoder.Resolve(context.Background(), "Gateway of India")

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)
}

func TestHTTPGeocoderResolve_MalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"not-a-number","lon":"72.8347"}]`))
	}))
	defer server.Close()

	geocoder := geocode.NewHTTPGeocoder(server.Client(), server.URL, "")

	_, err := geocoder.Resolve(context.Background(), "Gateway of India")

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)
}

func TestHTTPGeocoderResolve_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	geocoder := geocode.NewHTTPGeocoder(nil, server.URL, "")

	_, err := geocoder.Resolve(context.Background(), "Gateway of India")

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)
}
