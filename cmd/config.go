package cmd

import "time"

// Config carries the runtime settings of the service. Values are read from
// the environment (optionally seeded from a .env file) in cmd/app.
type Config struct {
	HTTPPort string

	// Database settings. When DBHost is empty the service runs on the
	// in-memory store instead of postgres.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Geocoder settings. When GeocoderBaseURL is empty the deterministic
	// offline geocoder is used. GeocoderOfflineFallback additionally falls
	// back to offline coordinates when the live provider fails.
	GeocoderBaseURL         string
	GeocoderAPIKey          string
	GeocoderOfflineFallback bool

	SolverBudget        time.Duration
	AvgSpeedKmh         float64
	StopDwellMinutes    float64
	MaxConcurrentSolves int
}
