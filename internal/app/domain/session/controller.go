package session

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/domain/history"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/location"
	"github.com/FACorreiaa/frugal-finder/internal/app/domain/search"
	"github.com/FACorreiaa/frugal-finder/internal/app/models"
	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

// Controller owns one session's display state. A new search cancels the one in
// flight, and an outcome is applied only while its sequence number is the latest.
type Controller struct {
	owner    uuid.UUID
	searcher search.Searcher
	history  history.Service
	logger   *zap.Logger

	mu     sync.Mutex
	state  models.AppState
	cancel context.CancelFunc
}

func NewController(owner uuid.UUID, searcher search.Searcher, hist history.Service, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		owner:    owner,
		searcher: searcher,
		history:  hist,
		logger:   logger.With(zap.String("session", owner.String())),
		state:    models.AppState{Places: []models.Place{}},
	}
}

// Search resolves the location, records the query and runs the search.
// It returns the state after the outcome is applied, or ErrSuperseded when a
// newer search replaced this one.
func (c *Controller) Search(ctx context.Context, query string, loc models.LocationState) (models.AppState, error) {
	mode, err := location.Resolve(query, loc)
	if err != nil {
		c.mu.Lock()
		c.state.Error = models.UserMessage(err)
		state := c.snapshot()
		c.mu.Unlock()
		return state, err
	}

	if c.history != nil {
		if err := c.history.Add(ctx, c.owner, query); err != nil {
			c.logger.Warn("Search history not recorded", zap.Error(err))
		}
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.state.Seq++
	seq := c.state.Seq
	c.state.Query = query
	c.state.Places = []models.Place{}
	c.state.Selected = nil
	c.state.Error = ""
	c.state.Loading = true
	c.mu.Unlock()

	places, err := c.searcher.Search(searchCtx, query, mode)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Seq != seq {
		c.logger.Debug("Discarding stale search result",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.state.Seq))
		metrics.Get().StaleResponsesTotal.Add(context.WithoutCancel(ctx), 1,
			metric.WithAttributes(attribute.Bool("error", err != nil)))
		return c.snapshot(), models.ErrSuperseded
	}

	c.cancel = nil
	c.state.Loading = false
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.state.Error = ""
		} else {
			c.state.Error = models.UserMessage(err)
		}
		return c.snapshot(), err
	}

	c.state.Error = ""
	c.state.Places = places
	return c.snapshot(), nil
}

// Select marks the place at index as selected.
func (c *Controller) Select(index int) (models.AppState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.state.Places) {
		return c.snapshot(), models.ErrNotFound
	}
	c.state.Selected = &index
	return c.snapshot(), nil
}

func (c *Controller) ClearSelection() models.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Selected = nil
	return c.snapshot()
}

func (c *Controller) State() models.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Close cancels any search in flight.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// snapshot copies the state. Callers hold mu.
func (c *Controller) snapshot() models.AppState {
	s := c.state
	s.Places = slices.Clone(c.state.Places)
	if s.Places == nil {
		s.Places = []models.Place{}
	}
	if c.state.Selected != nil {
		idx := *c.state.Selected
		s.Selected = &idx
	}
	return s
}
