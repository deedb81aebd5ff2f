package domain

import "math"

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// IsZero reports whether the coordinates are unset. (0, 0) is open ocean,
// never a real quarry or site location for this fleet.
func (c Coordinates) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }

// Rounded truncates to five decimal places (roughly one metre), the
// precision used for route cache keys.
func (c Coordinates) Rounded() Coordinates {
	return Coordinates{
		Lat: math.Round(c.Lat*1e5) / 1e5,
		Lng: math.Round(c.Lng*1e5) / 1e5,
	}
}
