// Package storymap implements the map-side story flow: picking a spot,
// attaching a short note, and jumping to a searched place.
//
// State is treated as an immutable snapshot: every operation takes the
// current State and returns the next one, never mutating its input. The
// caller (a UI loop, a REPL, a test) owns the current snapshot.
package storymap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/storyatlas/storyatlas/internal/client/models"
	"github.com/storyatlas/storyatlas/internal/common"
	"github.com/storyatlas/storyatlas/internal/geocode"
	"github.com/storyatlas/storyatlas/internal/geox"
	"github.com/storyatlas/storyatlas/internal/logging"
)

// Status messages surfaced to the user.
const (
	StatusNoDraft      = "Tap the map to choose where your note belongs."
	StatusEmptyNote    = "Write a short story or feeling before saving."
	StatusSaved        = "Story added to the map. Thank you."
	StatusEmptyQuery   = "Type a city, town, or landmark to jump there."
	StatusNoMatch      = "No results found. Try another place or add more detail."
	StatusLookupFailed = "Could not reach the global search service right now."
)

// DefaultFocus is the initial map center (central London).
var DefaultFocus = models.Coords{Lat: 51.5074, Lng: -0.1278}

// State is one snapshot of the story map.
//
// Pins is append-only within a session. Draft is the currently selected
// location, nil when none is picked. Focus is where the map view is
// centered. Status is the last user-visible message.
type State struct {
	Pins   []models.Pin
	Draft  *models.Coords
	Focus  models.Coords
	Note   string
	Status string
}

// NewState returns the initial snapshot, centered on DefaultFocus.
func NewState() State {
	return State{Focus: DefaultFocus}
}

// withStatus returns a copy of s with only the status replaced.
func (s State) withStatus(status string) State {
	s.Status = status
	return s
}

// Geocoder resolves a free-text place query to its best match.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (*geocode.Place, error)
}

// PinStore persists submitted pins. Optional: without one, pins live only
// in the session snapshot and vanish when it ends.
type PinStore interface {
	Save(ctx context.Context, pin models.Pin) error
}

// Flow drives story-map state transitions.
type Flow struct {
	geocoder Geocoder
	store    PinStore
	logger   logging.Logger
	now      func() time.Time

	// lookupGen guards against a slow lookup overwriting the result of a
	// later one: only the most recent generation may apply its response.
	lookupGen atomic.Uint64
}

// FlowOption customizes a Flow.
type FlowOption func(*Flow)

// WithPinStore enables durable pin persistence.
func WithPinStore(store PinStore) FlowOption {
	return func(f *Flow) { f.store = store }
}

// NewFlow returns a Flow using the given geocoder.
func NewFlow(geocoder Geocoder, logger logging.Logger, opts ...FlowOption) *Flow {
	f := &Flow{
		geocoder: geocoder,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SelectLocation replaces the draft pin with coords (rounded) and
// recenters the view there. It never appends to the pin list.
func (f *Flow) SelectLocation(s State, coords models.Coords) State {
	c := models.Coords{Lat: geox.Round(coords.Lat), Lng: geox.Round(coords.Lng)}
	s.Draft = &c
	s.Focus = c
	return s
}

// Submit turns the draft pin and note into a story pin. Without a draft,
// or with a blank note, it only sets a status and changes nothing else.
// On success the new pin is appended, the draft and note are cleared, and
// the pin is persisted when a store is configured.
func (f *Flow) Submit(ctx context.Context, s State, noteText string) State {
	if s.Draft == nil {
		return s.withStatus(StatusNoDraft)
	}
	note := strings.TrimSpace(noteText)
	if note == "" {
		return s.withStatus(StatusEmptyNote)
	}

	pin := models.Pin{
		ID:   fmt.Sprintf("pin-%d", f.now().UnixMilli()),
		Lat:  geox.Round(s.Draft.Lat),
		Lng:  geox.Round(s.Draft.Lng),
		Note: note,
	}

	if f.store != nil {
		if err := f.store.Save(ctx, pin); err != nil {
			// The session keeps the pin either way.
			f.logger.Warn(ctx, "pin not persisted", "id", pin.ID, "error", err.Error())
		}
	}

	s.Pins = append(s.Pins[:len(s.Pins):len(s.Pins)], pin)
	s.Draft = nil
	s.Note = ""
	s.Status = StatusSaved
	return s
}

// LookupPlace resolves query and, on a match, sets both the draft and the
// focus to the rounded coordinates. Each call takes a fresh generation
// token; if a newer lookup started while this one was in flight, the
// response is stale and the second return value is false — the caller
// must then keep its current snapshot instead of applying the returned
// one.
func (f *Flow) LookupPlace(ctx context.Context, s State, query string) (State, bool) {
	if strings.TrimSpace(query) == "" {
		return s.withStatus(StatusEmptyQuery), true
	}

	gen := f.lookupGen.Add(1)

	place, err := f.geocoder.Lookup(ctx, strings.TrimSpace(query))

	if f.lookupGen.Load() != gen {
		return s, false
	}

	switch {
	case errors.Is(err, common.ErrNoMatch):
		return s.withStatus(StatusNoMatch), true
	case err != nil:
		f.logger.Warn(ctx, "place lookup failed", "error", err.Error())
		return s.withStatus(StatusLookupFailed), true
	}

	c := models.Coords{Lat: geox.Round(place.Lat), Lng: geox.Round(place.Lng)}
	s.Draft = &c
	s.Focus = c
	s.Status = fmt.Sprintf("Centered on %s.", place.DisplayName)
	return s, true
}
