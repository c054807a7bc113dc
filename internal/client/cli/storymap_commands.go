package cli

import (
	"context"
	"fmt"

	"github.com/storyatlas/storyatlas/internal/client/models"
)

// Pick chooses a spot on the map as the draft location.
func (a *App) Pick(lat, lng float64) {
	a.mapState = a.flow.SelectLocation(a.mapState, models.Coords{Lat: lat, Lng: lng})
	fmt.Fprintf(a.out, "Selected %.3f, %.3f\n", a.mapState.Draft.Lat, a.mapState.Draft.Lng)
}

// Find searches for a place and recenters the map on the best match.
func (a *App) Find(ctx context.Context, query string) error {
	next, applied := a.flow.LookupPlace(ctx, a.mapState, query)
	if applied {
		a.mapState = next
		fmt.Fprintln(a.out, a.mapState.Status)
	}
	return nil
}

// Story saves a note at the currently selected spot.
func (a *App) Story(ctx context.Context, note string) error {
	a.mapState = a.flow.Submit(ctx, a.mapState, note)
	fmt.Fprintln(a.out, a.mapState.Status)
	return nil
}

// Pins lists the story pins added during this session.
func (a *App) Pins() {
	if len(a.mapState.Pins) == 0 {
		fmt.Fprintln(a.out, "No stories on the map yet.")
		return
	}
	for _, p := range a.mapState.Pins {
		fmt.Fprintf(a.out, "%s  %.3f, %.3f  %s\n", p.ID, p.Lat, p.Lng, p.Note)
	}
}
