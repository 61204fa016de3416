package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/history"
)

type HistoryHandler struct {
	*BaseHandler
	history history.Service
}

func NewHistoryHandler(base *BaseHandler, hist history.Service) *HistoryHandler {
	return &HistoryHandler{BaseHandler: base, history: hist}
}

func (h *HistoryHandler) List(c *gin.Context) {
	terms, err := h.history.List(c.Request.Context(), h.session(c).ID)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	h.ok(c, terms)
}
