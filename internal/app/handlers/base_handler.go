package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/session"
	"github.com/FACorreiaa/frugal-finder/internal/app/models"
	"github.com/FACorreiaa/frugal-finder/internal/pkg/middleware"
)

const statusClientClosedRequest = 499

// Response is the JSON envelope every API route answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type BaseHandler struct {
	Logger   *zap.Logger
	Sessions *session.Registry
}

func NewBaseHandler(sessions *session.Registry, logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger, Sessions: sessions}
}

// session returns the caller's session, issuing a fresh id if middleware did not run.
func (h *BaseHandler) session(c *gin.Context) *session.Session {
	id, ok := middleware.SessionID(c)
	if !ok {
		id = uuid.New()
	}
	return h.Sessions.Get(id)
}

func (h *BaseHandler) ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Status: "ok", Data: data})
}

func (h *BaseHandler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: "error", Message: message})
}

// fail maps an error class onto a status code and writes the envelope.
func (h *BaseHandler) fail(c *gin.Context, err error, data any) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, Response{Status: "error", Message: models.UserMessage(err), Data: data})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, models.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrSearchFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
