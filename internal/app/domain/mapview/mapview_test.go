package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

func inside(b Bounds, c models.Coordinate) bool {
	return c.Latitude >= b.South && c.Latitude <= b.North &&
		c.Longitude >= b.West && c.Longitude <= b.East
}

func place(title string, category models.Category, lat, lng float64) models.Place {
	return models.Place{Title: title, Category: category, Location: models.Coordinate{Latitude: lat, Longitude: lng}}
}

func TestBuild_NoLocationNoPlaces(t *testing.T) {
	view := Build(models.LocationState{Status: models.PermissionDenied}, nil, nil)

	assert.Equal(t, models.DefaultCenter, view.Center)
	assert.Equal(t, ZoomRegion, view.Zoom)
	assert.Equal(t, TileURL, view.TileURL)
	assert.Empty(t, view.Markers)
	assert.Nil(t, view.Bounds)
}

func TestBuild_UserAndPlaces(t *testing.T) {
	user := models.Coordinate{Latitude: 43.0, Longitude: -79.0}
	loc := models.LocationState{Status: models.PermissionGranted, Coordinate: &user}
	places := []models.Place{
		place("No Frills", models.CategoryGroceries, 44.0, -80.0),
		place("Zara", models.CategoryClothing, 43.5, -79.5),
		place("Esso", models.CategoryGas, 43.2, -79.2),
		place("Dollarama", models.Category("unknown"), 43.1, -79.1),
	}
	selected := 1

	view := Build(loc, places, &selected)

	assert.Equal(t, user, view.Center)
	assert.Equal(t, ZoomUser, view.Zoom)
	require.Len(t, view.Markers, 5)

	assert.Equal(t, MarkerUser, view.Markers[0].Kind)
	assert.Equal(t, "#3B82F6", view.Markers[1].Color)
	assert.Equal(t, "#8B5CF6", view.Markers[2].Color)
	assert.Equal(t, "#F97316", view.Markers[3].Color)
	assert.Equal(t, "#6B7280", view.Markers[4].Color)

	for i, m := range view.Markers[1:] {
		assert.Equal(t, i, m.Index)
		assert.Equal(t, i == selected, m.Selected, m.Title)
	}

	require.NotNil(t, view.Bounds)
	assert.InDelta(t, 43.0-0.2, view.Bounds.South, 1e-9)
	assert.InDelta(t, 44.0+0.2, view.Bounds.North, 1e-9)
	assert.InDelta(t, -80.0-0.2, view.Bounds.West, 1e-9)
	assert.InDelta(t, -79.0+0.2, view.Bounds.East, 1e-9)
	for _, m := range view.Markers {
		assert.True(t, inside(*view.Bounds, m.Position), m.Title)
	}
}

func TestBuild_GrantedWithoutCoordinate(t *testing.T) {
	view := Build(models.LocationState{Status: models.PermissionGranted}, []models.Place{place("A", models.CategoryGas, 0, 0)}, nil)
	assert.Equal(t, ZoomRegion, view.Zoom)
	require.Len(t, view.Markers, 1)
	require.NotNil(t, view.Bounds)
	assert.Equal(t, Bounds{}, *view.Bounds)
}

func TestBoundsPadClamps(t *testing.T) {
	b := Bounds{South: -89, North: 89, West: -179, East: 179}.pad(0.5)
	assert.Equal(t, Bounds{South: -90, North: 90, West: -180, East: 180}, b)
}
