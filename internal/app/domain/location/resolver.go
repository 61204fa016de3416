package location

import (
	"strings"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

// Resolve picks the search location for query: the device coordinate when
// permission is granted, otherwise the manually entered place name.
// The location is checked before the query.
func Resolve(query string, state models.LocationState) (models.LocationMode, error) {
	var mode models.LocationMode
	switch {
	case state.Status == models.PermissionGranted && state.Coordinate != nil && state.Coordinate.Valid():
		mode = models.CoordinateMode(*state.Coordinate)
	case strings.TrimSpace(state.ManualText) != "":
		mode = models.FreeTextMode(strings.TrimSpace(state.ManualText))
	default:
		return models.LocationMode{}, models.NewInvalidInput(models.MsgMissingLocation)
	}

	if strings.TrimSpace(query) == "" {
		return models.LocationMode{}, models.NewInvalidInput(models.MsgMissingQuery)
	}
	return mode, nil
}
