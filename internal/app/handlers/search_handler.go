package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
)

type SearchHandler struct {
	*BaseHandler
}

func NewSearchHandler(base *BaseHandler) *SearchHandler {
	return &SearchHandler{BaseHandler: base}
}

type locationPayload struct {
	Status    string   `json:"status"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Manual    string   `json:"manual"`
}

type searchRequest struct {
	Query    string           `json:"query"`
	Location *locationPayload `json:"location"`
}

type searchResponse struct {
	Seq    uint64         `json:"seq"`
	Places []models.Place `json:"places"`
}

type selectionRequest struct {
	Index *int `json:"index" binding:"required"`
}

// toState converts a client reported location into LocationState.
func (p locationPayload) toState() (models.LocationState, error) {
	state := models.LocationState{
		Status:     models.ParsePermissionState(p.Status),
		ManualText: p.Manual,
	}
	if p.Latitude == nil && p.Longitude == nil {
		return state, nil
	}
	if p.Latitude == nil || p.Longitude == nil || !models.ValidateCoordinates(*p.Latitude, *p.Longitude) {
		return state, models.NewInvalidInput("Coordinates are out of range.")
	}
	state.Coordinate = &models.Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}
	return state, nil
}

// Search runs a search for the session. Without a location in the body the
// session's tracked location is used.
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid search request.")
		return
	}

	sess := h.session(c)
	loc := sess.Tracker.Snapshot()
	if req.Location != nil {
		var err error
		if loc, err = req.Location.toState(); err != nil {
			h.fail(c, err, nil)
			return
		}
	}

	state, err := sess.Controller.Search(c.Request.Context(), req.Query, loc)
	if err != nil {
		h.fail(c, err, searchResponse{Seq: state.Seq, Places: state.Places})
		return
	}
	h.ok(c, searchResponse{Seq: state.Seq, Places: state.Places})
}

func (h *SearchHandler) State(c *gin.Context) {
	h.ok(c, h.session(c).Controller.State())
}

func (h *SearchHandler) Select(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "A place index is required.")
		return
	}
	state, err := h.session(c).Controller.Select(*req.Index)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	h.ok(c, state)
}

func (h *SearchHandler) ClearSelection(c *gin.Context) {
	h.ok(c, h.session(c).Controller.ClearSelection())
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: "ok"})
}
