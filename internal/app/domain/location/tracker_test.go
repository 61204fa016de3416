package location

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	return newTrackerWithClock("Toronto", clock.now), clock
}

func TestTracker_Lifecycle(t *testing.T) {
	tr, clock := newTestTracker()

	state := tr.Snapshot()
	assert.Equal(t, models.PermissionIdle, state.Status)
	assert.Equal(t, "Toronto", state.ManualText)
	assert.Nil(t, state.Coordinate)

	deadline := tr.Request()
	assert.Equal(t, clock.t.Add(RequestTimeout), deadline)
	assert.Equal(t, models.PermissionLoading, tr.Snapshot().Status)

	require.NoError(t, tr.Report(models.Coordinate{Latitude: 43.7, Longitude: -79.4}))
	state = tr.Snapshot()
	assert.Equal(t, models.PermissionGranted, state.Status)
	require.NotNil(t, state.Coordinate)
	assert.Equal(t, 43.7, state.Coordinate.Latitude)
	assert.Empty(t, state.Error)
}

func TestTracker_Timeout(t *testing.T) {
	tr, clock := newTestTracker()
	tr.Request()

	clock.t = clock.t.Add(RequestTimeout - time.Millisecond)
	assert.Equal(t, models.PermissionLoading, tr.Snapshot().Status)

	clock.t = clock.t.Add(time.Millisecond)
	state := tr.Snapshot()
	assert.Equal(t, models.PermissionDenied, state.Status)
	assert.Equal(t, "Timeout expired", state.Error)
}

func TestTracker_Fail(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Request()
	tr.Fail("")
	state := tr.Snapshot()
	assert.Equal(t, models.PermissionDenied, state.Status)
	assert.Equal(t, "User denied Geolocation", state.Error)

	tr.Fail("Position unavailable")
	assert.Equal(t, "Position unavailable", tr.Snapshot().Error)
}

func TestTracker_ReportRejectsBadCoordinates(t *testing.T) {
	tr, _ := newTestTracker()
	err := tr.Report(models.Coordinate{Latitude: 95, Longitude: 0})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, models.PermissionIdle, tr.Snapshot().Status)
}

func TestTracker_Unsupported(t *testing.T) {
	tr, _ := newTestTracker()
	tr.MarkUnsupported()

	assert.True(t, tr.Request().IsZero())
	assert.Error(t, tr.Report(models.Coordinate{}))
	tr.Watch()
	state := tr.Snapshot()
	assert.Equal(t, models.PermissionUnsupported, state.Status)
	assert.False(t, state.Watching)
	assert.NotEmpty(t, state.Error)
}

func TestTracker_Watch(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Watch()
	tr.Watch()
	require.NoError(t, tr.Report(models.Coordinate{Latitude: 1, Longitude: 1}))
	assert.True(t, tr.Snapshot().Watching)

	tr.Unwatch()
	assert.Equal(t, models.PermissionGranted, tr.Snapshot().Status)

	tr.Unwatch()
	state := tr.Snapshot()
	assert.False(t, state.Watching)
	assert.Equal(t, models.PermissionIdle, state.Status)

	// extra releases are ignored
	tr.Unwatch()
	assert.Equal(t, models.PermissionIdle, tr.Snapshot().Status)
}

func TestTracker_SetManual(t *testing.T) {
	tr, _ := newTestTracker()
	tr.SetManual("Montreal")
	assert.Equal(t, "Montreal", tr.Snapshot().ManualText)
}
