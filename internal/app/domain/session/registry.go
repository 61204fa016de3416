package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/history"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/location"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/search"
	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

// Session groups everything the API keeps per browser session.
type Session struct {
	ID         uuid.UUID
	Controller *Controller
	Tracker    *location.Tracker
}

// Registry hands out sessions by id and expires idle ones.
type Registry struct {
	mu              sync.Mutex
	sessions        *cache.Cache
	searcher        search.Searcher
	history         history.Service
	defaultLocation string
	logger          *zap.Logger
}

func NewRegistry(searcher search.Searcher, hist history.Service, defaultLocation string, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		sessions:        cache.New(ttl, ttl/2),
		searcher:        searcher,
		history:         hist,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
	r.sessions.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Controller.Close()
		}
		r.logger.Debug("Session expired", zap.String("session", id))
		r.reportActive()
	})
	return r
}

// Get returns the session for id, creating it on first use. Each access extends its lifetime.
func (r *Registry) Get(id uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := id.String()
	if v, ok := r.sessions.Get(key); ok {
		s := v.(*Session)
		r.sessions.SetDefault(key, s)
		return s
	}

	s := &Session{
		ID:         id,
		Controller: NewController(id, r.searcher, r.history, r.logger),
		Tracker:    location.NewTracker(r.defaultLocation),
	}
	r.sessions.SetDefault(key, s)
	r.logger.Debug("Session created", zap.String("session", key))
	r.reportActive()
	return s
}

func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}

func (r *Registry) reportActive() {
	metrics.Get().ActiveSessionsGauge.Record(context.Background(), int64(r.sessions.ItemCount()))
}
