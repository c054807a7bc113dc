package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/storyatlas/storyatlas/internal/flagx"
	"github.com/storyatlas/storyatlas/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as
// a string like "10s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL    string         `json:"server_base_url"`
	GeocoderEndpoint string         `json:"geocoder_endpoint"`
	UserAgent        string         `json:"user_agent"`
	HTTPTimeout      timex.Duration `json:"http_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flags via flagx.JsonConfigFlags(); if
// neither is set, no JSON is loaded. Panics on read or unmarshal errors,
// matching flag-parse behavior.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerBaseURL = jc.ServerBaseURL
	cfg.GeocoderEndpoint = jc.GeocoderEndpoint
	cfg.UserAgent = jc.UserAgent
	cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
}
