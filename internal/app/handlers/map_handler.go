package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/mapview"
)

type MapHandler struct {
	*BaseHandler
}

func NewMapHandler(base *BaseHandler) *MapHandler {
	return &MapHandler{BaseHandler: base}
}

func (h *MapHandler) View(c *gin.Context) {
	sess := h.session(c)
	state := sess.Controller.State()
	h.ok(c, mapview.Build(sess.Tracker.Snapshot(), state.Places, state.Selected))
}
