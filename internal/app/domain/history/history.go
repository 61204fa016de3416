package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

// DefaultLimit is how many distinct recent searches are remembered per owner.
const DefaultLimit = 5

// Store persists an owner's recent search terms, most recent first.
type Store interface {
	List(ctx context.Context, owner uuid.UUID, limit int) ([]string, error)
	Add(ctx context.Context, owner uuid.UUID, term string, limit int) error
}

// Service is the recent-search collaborator used by the search controller and the API.
type Service interface {
	List(ctx context.Context, owner uuid.UUID) ([]string, error)
	Add(ctx context.Context, owner uuid.UUID, term string) error
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	store   Store
	limit   int
	backend string
	logger  *zap.Logger
}

func NewService(store Store, backend string, limit int, logger *zap.Logger) *ServiceImpl {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{store: store, limit: limit, backend: backend, logger: logger}
}

func (s *ServiceImpl) List(ctx context.Context, owner uuid.UUID) ([]string, error) {
	start := time.Now()
	terms, err := s.store.List(ctx, owner, s.limit)
	s.observe(ctx, "list", start, err)
	if err != nil {
		s.logger.Error("Failed to list search history", zap.String("owner", owner.String()), zap.Error(err))
		return nil, err
	}
	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// Add records term as the most recent search. Blank terms are ignored.
func (s *ServiceImpl) Add(ctx context.Context, owner uuid.UUID, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}

	start := time.Now()
	err := s.store.Add(ctx, owner, term, s.limit)
	s.observe(ctx, "add", start, err)
	if err != nil {
		s.logger.Error("Failed to record search history",
			zap.String("owner", owner.String()),
			zap.String("term", term),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *ServiceImpl) observe(ctx context.Context, op string, start time.Time, err error) {
	metrics.Get().HistoryQueryDuration.Record(context.WithoutCancel(ctx), time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("backend", s.backend),
			attribute.String("operation", op),
			attribute.Bool("error", err != nil),
		))
}

// termKey is the case-insensitive identity of a term.
func termKey(term string) string {
	return cases.Fold().String(strings.TrimSpace(term))
}

// Push places term first, removes case-insensitive duplicates and caps the list at limit.
func Push(terms []string, term string, limit int) []string {
	key := termKey(term)
	out := make([]string, 0, min(len(terms)+1, limit))
	out = append(out, term)
	for _, existing := range terms {
		if len(out) == limit {
			break
		}
		if termKey(existing) == key {
			continue
		}
		out = append(out, existing)
	}
	return out
}
