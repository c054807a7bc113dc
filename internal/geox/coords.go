// Package geox contains small geographic helpers shared by the map client
// and the pins service.
package geox

import "math"

// Precision is the number of decimal places coordinates are rounded to
// before they are stored or displayed. Three decimals is roughly 110 m at
// the equator, coarse enough to avoid pinpointing a contributor's location.
const Precision = 3

// Round rounds a coordinate to Precision decimal places.
func Round(v float64) float64 {
	const factor = 1000 // 10^Precision
	return math.Round(v*factor) / factor
}

// ValidLat reports whether v is a finite latitude in [-90, 90].
func ValidLat(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -90 && v <= 90
}

// ValidLng reports whether v is a finite longitude in [-180, 180].
func ValidLng(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -180 && v <= 180
}
