package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

// Searcher runs one search for a query around a resolved location.
type Searcher interface {
	Search(ctx context.Context, query string, mode models.LocationMode) ([]models.Place, error)
}

var _ Searcher = (*ServiceImpl)(nil)

// ServiceImpl orchestrates build, provider call and normalization.
// It holds no per-search state and is safe for concurrent use.
type ServiceImpl struct {
	logger      *zap.Logger
	builder     *RequestBuilder
	normalizer  *ResponseNormalizer
	provider    Provider
	placeholder *placeholderSource
}

// NewService returns a search service. A nil provider serves placeholder results.
func NewService(provider Provider, model string, logger *zap.Logger) *ServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		logger:      logger,
		builder:     NewRequestBuilder(model),
		normalizer:  NewResponseNormalizer(logger.Named("normalizer")),
		provider:    provider,
		placeholder: newPlaceholderSource(),
	}
}

// WithFallbackDelay sets how long placeholder searches wait before answering.
func (s *ServiceImpl) WithFallbackDelay(d time.Duration) *ServiceImpl {
	if d >= 0 {
		s.placeholder.delay = d
	}
	return s
}

func (s *ServiceImpl) Search(ctx context.Context, query string, mode models.LocationMode) ([]models.Place, error) {
	ctx, span := otel.Tracer("SearchService").Start(ctx, "Search", trace.WithAttributes(
		attribute.String("query", query),
		attribute.String("location.kind", mode.Kind.String()),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Search"), zap.String("location_kind", mode.Kind.String()))

	if strings.TrimSpace(query) == "" {
		err := models.NewInvalidInput(models.MsgMissingQuery)
		span.SetStatus(codes.Error, "empty query")
		return nil, err
	}

	if s.provider == nil {
		l.Warn("Using placeholder data, Gemini API key not configured")
		metrics.Get().FallbackSearchesTotal.Add(ctx, 1)
		places, err := s.placeholder.Places(ctx, mode)
		s.record(ctx, "placeholder", err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "placeholder search interrupted")
			return nil, err
		}
		span.SetStatus(codes.Ok, "placeholder results")
		return places, nil
	}

	req, err := s.builder.Build(query, mode)
	if err != nil {
		s.record(ctx, "invalid", err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}
	span.SetAttributes(attribute.String("response.kind", string(req.Kind)))

	raw, err := s.provider.Generate(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.record(ctx, string(req.Kind), ctxErr)
			return nil, ctxErr
		}
		if !errors.Is(err, models.ErrMalformedResponse) {
			err = models.NewSearchFailed(err)
		}
		l.Error("Provider call failed", zap.Error(err))
		s.record(ctx, string(req.Kind), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		return nil, err
	}

	places, err := s.normalizer.Normalize(req.Kind, raw.Text, raw.Grounding)
	if err != nil {
		l.Warn("Provider response could not be normalized",
			zap.Error(err),
			zap.Int("response_length", len(raw.Text)))
		s.record(ctx, string(req.Kind), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed response")
		return nil, err
	}

	l.Info("Search completed",
		zap.String("kind", string(req.Kind)),
		zap.Int("places", len(places)))
	s.record(ctx, string(req.Kind), nil)
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "search completed")
	return places, nil
}

func (s *ServiceImpl) record(ctx context.Context, kind string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidInput):
		outcome = "invalid_input"
	case errors.Is(err, models.ErrMalformedResponse):
		outcome = "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	default:
		outcome = "failed"
	}
	metrics.Get().SearchRequestsTotal.Add(context.WithoutCancel(ctx), 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("outcome", outcome),
		))
}
