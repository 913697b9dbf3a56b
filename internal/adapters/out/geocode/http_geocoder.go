// Package geocode provides the address resolution adapters. Two
// implementations of ports.Geocoder live here: an HTTP client for a
// Nominatim-style search API and an offline resolver that derives
// deterministic coordinates from the address text. The composition root
// picks one at startup based on configuration.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
)

const defaultRequestTimeout = 10 * time.Second

// searchResult mirrors one entry of the search endpoint's JSON response.
// The API returns coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// HTTPGeocoder resolves addresses against a Nominatim-style search API.
type HTTPGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPGeocoder creates a geocoder for the given API base URL. The API
// key is optional; when set it is passed as a query parameter. A nil
// client falls back to a default with a request timeout.
func NewHTTPGeocoder(client *http.Client, baseURL, apiKey string) *HTTPGeocoder {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}

	return &HTTPGeocoder{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Resolve converts an address into a coordinate using the search endpoint.
// Returns a ports.AddressNotResolvedError when the API yields no usable
// result or cannot be reached.
func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (kernel.Coordinate, error) {
	endpoint, err := url.Parse(g.baseURL + "/search")
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, err)
	}

	query := endpoint.Query()
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	if g.apiKey != "" {
		query.Set("key", g.apiKey)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(
			address, fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var results []searchResult
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(
			address, fmt.Errorf("decode search response: %w", err))
	}

	if len(results) == 0 {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(
			address, errors.New("no search results"))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(
			address, fmt.Errorf("parse latitude: %w", err))
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(
			address, fmt.Errorf("parse longitude: %w", err))
	}

	coordinate, err := kernel.NewCoordinate(address, lat, lon)
	if err != nil {
		return kernel.Coordinate{}, ports.NewAddressNotResolvedError(address, err)
	}

	return coordinate, nil
}
