package mapview

import (
	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

const (
	TileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	Attribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	// ZoomUser frames the user's own position; ZoomRegion is used without one.
	ZoomUser   = 13
	ZoomRegion = 5

	boundsPadding = 0.2
)

// CategoryColor is the pin color of a category, in hex.
var CategoryColor = map[models.Category]string{
	models.CategoryGroceries: "#3B82F6",
	models.CategoryClothing:  "#8B5CF6",
	models.CategoryGas:       "#F97316",
	models.CategoryOther:     "#6B7280",
}

type MarkerKind string

const (
	MarkerUser  MarkerKind = "user"
	MarkerPlace MarkerKind = "place"
)

type Marker struct {
	Kind     MarkerKind        `json:"kind"`
	Index    int               `json:"index"`
	Title    string            `json:"title,omitempty"`
	Category models.Category   `json:"category,omitempty"`
	Color    string            `json:"color"`
	Position models.Coordinate `json:"position"`
	Selected bool              `json:"selected"`
}

// Bounds is a south-west / north-east box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// View is everything a client needs to draw the result map.
type View struct {
	Center      models.Coordinate `json:"center"`
	Zoom        int               `json:"zoom"`
	TileURL     string            `json:"tileUrl"`
	Attribution string            `json:"attribution"`
	Markers     []Marker          `json:"markers"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
}

func userCoordinate(loc models.LocationState) (models.Coordinate, bool) {
	if loc.Status != models.PermissionGranted || loc.Coordinate == nil || !loc.Coordinate.Valid() {
		return models.Coordinate{}, false
	}
	return *loc.Coordinate, true
}

// Build lays out the user marker and one marker per place. Bounds cover every
// marker, padded by a fifth of their span on each side; with no markers they are nil.
func Build(loc models.LocationState, places []models.Place, selected *int) View {
	view := View{
		Center:      models.DefaultCenter,
		Zoom:        ZoomRegion,
		TileURL:     TileURL,
		Attribution: Attribution,
		Markers:     make([]Marker, 0, len(places)+1),
	}

	if user, ok := userCoordinate(loc); ok {
		view.Center = user
		view.Zoom = ZoomUser
		view.Markers = append(view.Markers, Marker{
			Kind:     MarkerUser,
			Index:    -1,
			Color:    "#2563EB",
			Position: user,
		})
	}

	for i, p := range places {
		color, ok := CategoryColor[p.Category]
		if !ok {
			color = CategoryColor[models.CategoryOther]
		}
		view.Markers = append(view.Markers, Marker{
			Kind:     MarkerPlace,
			Index:    i,
			Title:    p.Title,
			Category: p.Category,
			Color:    color,
			Position: p.Location,
			Selected: selected != nil && *selected == i,
		})
	}

	points := make([]models.Coordinate, 0, len(view.Markers))
	for _, m := range view.Markers {
		points = append(points, m.Position)
	}
	if b, ok := calculateBounds(points); ok {
		padded := b.pad(boundsPadding)
		view.Bounds = &padded
	}

	return view
}
