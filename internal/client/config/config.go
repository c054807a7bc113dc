// Package config handles configuration for the client component.
package config

import "time"

// Config holds runtime settings for the Story Atlas client.
//
// Fields:
//   - ServerBaseURL: base URL of the Story Atlas JSON API.
//   - GeocoderEndpoint: Nominatim-compatible search endpoint.
//   - UserAgent: User-Agent header for geocoder requests.
//   - HTTPTimeout: per-request timeout for outbound calls.
type Config struct {
	ServerBaseURL    string
	GeocoderEndpoint string
	UserAgent        string
	HTTPTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.GeocoderEndpoint = "https://nominatim.openstreetmap.org/search"
	c.UserAgent = "storyatlas/1.0"
	c.HTTPTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
