package models

import "time"

// StoryPin is an anonymous note anchored to a map coordinate. Coordinates
// are rounded to three decimal places before storage.
type StoryPin struct {
	ID        string    `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
