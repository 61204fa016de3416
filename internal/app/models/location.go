package models

import (
	"fmt"
	"math"
)

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DefaultCenter is downtown Toronto, used when no device location is available.
var DefaultCenter = Coordinate{Latitude: 43.6532, Longitude: -79.3832}

// Valid reports whether c is finite and inside the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	return ValidateCoordinates(c.Latitude, c.Longitude)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// ValidateCoordinates checks if latitude and longitude are usable.
// Latitude must be between -90 and 90
// Longitude must be between -180 and 180
func ValidateCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// LocationKind tags which half of LocationMode is set.
type LocationKind int

const (
	LocationUnknown LocationKind = iota
	LocationCoordinate
	LocationFreeText
)

func (k LocationKind) String() string {
	switch k {
	case LocationCoordinate:
		return "coordinate"
	case LocationFreeText:
		return "free_text"
	default:
		return "unknown"
	}
}

// LocationMode is either a device coordinate or a manually entered place name.
type LocationMode struct {
	Kind       LocationKind
	Coordinate Coordinate
	Text       string
}

func CoordinateMode(c Coordinate) LocationMode {
	return LocationMode{Kind: LocationCoordinate, Coordinate: c}
}

func FreeTextMode(text string) LocationMode {
	return LocationMode{Kind: LocationFreeText, Text: text}
}

// Center returns the coordinate to search around, falling back to DefaultCenter for free text.
func (m LocationMode) Center() Coordinate {
	if m.Kind == LocationCoordinate {
		return m.Coordinate
	}
	return DefaultCenter
}

// PermissionState mirrors the browser geolocation permission lifecycle.
type PermissionState string

const (
	PermissionIdle        PermissionState = "idle"
	PermissionLoading     PermissionState = "loading"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
	PermissionUnsupported PermissionState = "unsupported"
)

// ParsePermissionState maps client supplied text onto a PermissionState, defaulting to idle.
func ParsePermissionState(s string) PermissionState {
	switch PermissionState(s) {
	case PermissionLoading, PermissionGranted, PermissionDenied, PermissionUnsupported:
		return PermissionState(s)
	default:
		return PermissionIdle
	}
}

// LocationState is everything the resolver needs to pick a LocationMode.
type LocationState struct {
	Status     PermissionState `json:"status"`
	Coordinate *Coordinate     `json:"coordinate,omitempty"`
	Error      string          `json:"error,omitempty"`
	ManualText string          `json:"manual"`
	Watching   bool            `json:"watching"`
}
