package mapview

import (
	"math"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

// calculateBounds returns the bounding box of the valid coordinates.
func calculateBounds(coordinates []models.Coordinate) (Bounds, bool) {
	b := Bounds{
		South: math.MaxFloat64,
		North: -math.MaxFloat64,
		West:  math.MaxFloat64,
		East:  -math.MaxFloat64,
	}
	found := false

	for _, c := range coordinates {
		if !c.Valid() {
			continue
		}
		found = true
		b.South = math.Min(b.South, c.Latitude)
		b.North = math.Max(b.North, c.Latitude)
		b.West = math.Min(b.West, c.Longitude)
		b.East = math.Max(b.East, c.Longitude)
	}

	if !found {
		return Bounds{}, false
	}
	return b, true
}

// pad grows the box by ratio of its height and width on every side, clamped to the globe.
func (b Bounds) pad(ratio float64) Bounds {
	latBuffer := (b.North - b.South) * ratio
	lngBuffer := (b.East - b.West) * ratio
	return Bounds{
		South: math.Max(b.South-latBuffer, -90),
		North: math.Min(b.North+latBuffer, 90),
		West:  math.Max(b.West-lngBuffer, -180),
		East:  math.Min(b.East+lngBuffer, 180),
	}
}
