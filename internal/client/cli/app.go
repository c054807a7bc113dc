// Package cli implements the interactive Story Atlas client: a small
// REPL over the story-map flow and the archive sync client.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/storyatlas/storyatlas/internal/client/archive"
	"github.com/storyatlas/storyatlas/internal/client/config"
	"github.com/storyatlas/storyatlas/internal/client/storymap"
	"github.com/storyatlas/storyatlas/internal/geocode"
	"github.com/storyatlas/storyatlas/internal/logging"
)

type App struct {
	config  *config.Config
	archive *archive.Client
	flow    *storymap.Flow

	archiveState archive.State
	mapState     storymap.State

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	// Diagnostics go to stderr so they do not interleave with the prompt.
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	geocoder := geocode.NewClient(
		geocode.WithEndpoint(c.GeocoderEndpoint),
		geocode.WithUserAgent(c.UserAgent),
		geocode.WithTimeout(c.HTTPTimeout),
	)

	flow := storymap.NewFlow(geocoder, logger,
		storymap.WithPinStore(storymap.NewHTTPPinStore(c.ServerBaseURL, c.HTTPTimeout)))

	return &App{
		config:   c,
		archive:  archive.NewClient(c.ServerBaseURL, c.HTTPTimeout, logger),
		flow:     flow,
		mapState: storymap.NewState(),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	runREPL(ctx, bufio.NewScanner(os.Stdin), a.out, a)
}
