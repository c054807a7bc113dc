package config

import (
	"flag"
	"os"
	"time"

	"github.com/storyatlas/storyatlas/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the Story Atlas server (default from Config)
//	-n string   geocoder search endpoint (default from Config)
//	-g string   user agent for geocoder requests (default from Config)
//	-i int      outbound HTTP timeout in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-n", "-g", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the server")
	fs.StringVar(&cfg.GeocoderEndpoint, "n", cfg.GeocoderEndpoint, "geocoder search endpoint")
	fs.StringVar(&cfg.UserAgent, "g", cfg.UserAgent, "user agent for geocoder requests")
	httpTimeout := fs.Int("i", int(cfg.HTTPTimeout.Seconds()), "outbound HTTP timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.HTTPTimeout = time.Duration(*httpTimeout) * time.Second
}
