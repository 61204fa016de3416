package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

func TestResolve(t *testing.T) {
	coord := &models.Coordinate{Latitude: 43.7, Longitude: -79.4}

	tests := []struct {
		name    string
		query   string
		state   models.LocationState
		want    models.LocationMode
		wantMsg string
	}{
		{
			name:  "granted coordinate wins over manual text",
			query: "milk",
			state: models.LocationState{Status: models.PermissionGranted, Coordinate: coord, ManualText: "Ottawa"},
			want:  models.CoordinateMode(*coord),
		},
		{
			name:  "manual text when denied",
			query: "milk",
			state: models.LocationState{Status: models.PermissionDenied, Coordinate: coord, ManualText: "  Ottawa "},
			want:  models.FreeTextMode("Ottawa"),
		},
		{
			name:  "manual text when granted without coordinate",
			query: "milk",
			state: models.LocationState{Status: models.PermissionGranted, ManualText: "Ottawa"},
			want:  models.FreeTextMode("Ottawa"),
		},
		{
			name:    "no location",
			query:   "milk",
			state:   models.LocationState{Status: models.PermissionIdle, ManualText: "   "},
			wantMsg: models.MsgMissingLocation,
		},
		{
			name:    "location is checked before query",
			query:   "",
			state:   models.LocationState{Status: models.PermissionIdle},
			wantMsg: models.MsgMissingLocation,
		},
		{
			name:    "empty query",
			query:   " \t",
			state:   models.LocationState{ManualText: "Toronto"},
			wantMsg: models.MsgMissingQuery,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.query, tc.state)
			if tc.wantMsg != "" {
				require.ErrorIs(t, err, models.ErrInvalidInput)
				assert.Equal(t, tc.wantMsg, models.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
