package location

import (
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

const (
	// RequestTimeout bounds a single geolocation acquisition.
	RequestTimeout = 10 * time.Second

	msgTimeout     = "Timeout expired"
	msgUnsupported = "Geolocation is not supported by your browser."
	msgDenied      = "User denied Geolocation"
)

// Tracker mirrors a client's geolocation permission and position.
// The browser acquires the position; the tracker records the lifecycle it reports.
type Tracker struct {
	mu       sync.Mutex
	now      func() time.Time
	status   models.PermissionState
	coord    *models.Coordinate
	err      string
	manual   string
	deadline time.Time
	watchers int
}

// NewTracker starts idle with manual set to the default location text.
func NewTracker(defaultManual string) *Tracker {
	return newTrackerWithClock(defaultManual, time.Now)
}

func newTrackerWithClock(defaultManual string, now func() time.Time) *Tracker {
	return &Tracker{now: now, status: models.PermissionIdle, manual: defaultManual}
}

// Request starts an acquisition. It returns the deadline the client must report by.
func (t *Tracker) Request() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == models.PermissionUnsupported {
		return time.Time{}
	}
	t.status = models.PermissionLoading
	t.err = ""
	t.deadline = t.now().Add(RequestTimeout)
	return t.deadline
}

// Report records a position fix.
func (t *Tracker) Report(c models.Coordinate) error {
	if !c.Valid() {
		return models.NewInvalidInput("Coordinates are out of range.")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == models.PermissionUnsupported {
		return models.NewInvalidInput(msgUnsupported)
	}
	t.expire()
	t.status = models.PermissionGranted
	t.coord = &c
	t.err = ""
	t.deadline = time.Time{}
	return nil
}

// Fail records a denied or failed acquisition.
func (t *Tracker) Fail(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.status == models.PermissionUnsupported {
		return
	}
	if strings.TrimSpace(message) == "" {
		message = msgDenied
	}
	t.status = models.PermissionDenied
	t.coord = nil
	t.err = message
	t.deadline = time.Time{}
}

// MarkUnsupported records that the client has no geolocation API.
func (t *Tracker) MarkUnsupported() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = models.PermissionUnsupported
	t.coord = nil
	t.err = msgUnsupported
	t.deadline = time.Time{}
	t.watchers = 0
}

func (t *Tracker) Watch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == models.PermissionUnsupported {
		return
	}
	t.watchers++
}

// Unwatch releases a watch. Releasing the last one while granted returns to idle.
func (t *Tracker) Unwatch() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.watchers == 0 {
		return
	}
	t.watchers--
	if t.watchers == 0 && t.status == models.PermissionGranted {
		t.status = models.PermissionIdle
	}
}

func (t *Tracker) SetManual(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.manual = text
}

func (t *Tracker) Snapshot() models.LocationState {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expire()
	state := models.LocationState{
		Status:     t.status,
		Error:      t.err,
		ManualText: t.manual,
		Watching:   t.watchers > 0,
	}
	if t.coord != nil {
		c := *t.coord
		state.Coordinate = &c
	}
	return state
}

// expire turns an overdue request into a denial. Callers hold mu.
func (t *Tracker) expire() {
	if t.status == models.PermissionLoading && !t.deadline.IsZero() && !t.now().Before(t.deadline) {
		t.status = models.PermissionDenied
		t.err = msgTimeout
		t.deadline = time.Time{}
	}
}
