package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/history"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/session"
	"github.com/FACorreiaa/frugal-finder/internal/app/handlers"
	"github.com/FACorreiaa/frugal-finder/internal/pkg/config"
	"github.com/FACorreiaa/frugal-finder/internal/pkg/middleware"
)

// Dependencies are the services the routes are built from.
type Dependencies struct {
	Config   *config.Config
	Sessions *session.Registry
	History  history.Service
	Logger   *zap.Logger
}

type AppHandlers struct {
	Search   *handlers.SearchHandler
	Location *handlers.LocationHandler
	History  *handlers.HistoryHandler
	Map      *handlers.MapHandler
}

func NewAppHandlers(deps Dependencies) *AppHandlers {
	base := handlers.NewBaseHandler(deps.Sessions, deps.Logger)
	return &AppHandlers{
		Search:   handlers.NewSearchHandler(base),
		Location: handlers.NewLocationHandler(base),
		History:  handlers.NewHistoryHandler(base, deps.History),
		Map:      handlers.NewMapHandler(base),
	}
}

// Setup registers every API route on r.
func Setup(r *gin.Engine, deps Dependencies) {
	h := NewAppHandlers(deps)

	r.GET("/healthz", handlers.Health)

	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware(deps.Config.Search.SessionTTL))
	{
		api.POST("/search",
			middleware.SearchRateLimiter(deps.Config.Search.RateLimit, deps.Config.Search.RateInterval),
			h.Search.Search)
		api.GET("/state", h.Search.State)
		api.POST("/selection", h.Search.Select)
		api.DELETE("/selection", h.Search.ClearSelection)

		api.GET("/history", h.History.List)
		api.GET("/map", h.Map.View)

		loc := api.Group("/location")
		{
			loc.GET("", h.Location.Get)
			loc.POST("/request", h.Location.Request)
			loc.POST("/report", h.Location.Report)
			loc.POST("/error", h.Location.ReportError)
			loc.POST("/watch", h.Location.Watch)
			loc.DELETE("/watch", h.Location.Unwatch)
			loc.PUT("/manual", h.Location.SetManual)
		}
	}
}
