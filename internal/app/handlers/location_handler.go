package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

type LocationHandler struct {
	*BaseHandler
}

func NewLocationHandler(base *BaseHandler) *LocationHandler {
	return &LocationHandler{BaseHandler: base}
}

type reportRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type errorRequest struct {
	Message     string `json:"message"`
	Unsupported bool   `json:"unsupported"`
}

type manualRequest struct {
	Text string `json:"text"`
}

type requestResponse struct {
	Location models.LocationState `json:"location"`
	Deadline *time.Time           `json:"deadline,omitempty"`
}

func (h *LocationHandler) Get(c *gin.Context) {
	h.ok(c, h.session(c).Tracker.Snapshot())
}

// Request marks the session as waiting for a position fix and returns the deadline.
func (h *LocationHandler) Request(c *gin.Context) {
	tracker := h.session(c).Tracker
	resp := requestResponse{}
	if deadline := tracker.Request(); !deadline.IsZero() {
		resp.Deadline = &deadline
	}
	resp.Location = tracker.Snapshot()
	h.ok(c, resp)
}

func (h *LocationHandler) Report(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Latitude and longitude are required.")
		return
	}
	tracker := h.session(c).Tracker
	if err := tracker.Report(models.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}); err != nil {
		h.fail(c, err, nil)
		return
	}
	h.ok(c, tracker.Snapshot())
}

func (h *LocationHandler) ReportError(c *gin.Context) {
	var req errorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid location error report.")
		return
	}
	tracker := h.session(c).Tracker
	if req.Unsupported {
		tracker.MarkUnsupported()
	} else {
		tracker.Fail(req.Message)
	}
	h.ok(c, tracker.Snapshot())
}

func (h *LocationHandler) Watch(c *gin.Context) {
	tracker := h.session(c).Tracker
	tracker.Watch()
	h.ok(c, tracker.Snapshot())
}

func (h *LocationHandler) Unwatch(c *gin.Context) {
	tracker := h.session(c).Tracker
	tracker.Unwatch()
	h.ok(c, tracker.Snapshot())
}

func (h *LocationHandler) SetManual(c *gin.Context) {
	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid manual location.")
		return
	}
	tracker := h.session(c).Tracker
	tracker.SetManual(req.Text)
	h.ok(c, tracker.Snapshot())
}
