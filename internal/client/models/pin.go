// Package models contains data structures shared by the client-side
// flows and their HTTP calls against the server API.
package models

// Coords is a latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pin is a story pin as the client sees it.
type Pin struct {
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Note string  `json:"note"`
}
