package tracer

import (
	"context"
	"errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

// Options configures the telemetry providers.
type Options struct {
	ServiceName  string
	MetricsAddr  string
	OTLPEndpoint string
}

// Providers owns the installed tracer and meter providers and the scrape server.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	metrics *http.Server
	logger  *zap.Logger
}

// InitOtelProviders installs the global tracer and meter providers and starts the
// Prometheus scrape endpoint on opts.MetricsAddr when it is set.
func InitOtelProviders(ctx context.Context, opts Options, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := logger.With(zap.String("component", "telemetry"))

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
		semconv.ServiceVersion(serviceVersion),
	)

	mp, err := newMeterProvider(res)
	if err != nil {
		return nil, err
	}

	p := &Providers{
		Tracer: newTracerProvider(ctx, res, opts.OTLPEndpoint, l),
		Meter:  mp,
		logger: l,
	}
	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.MetricsAddr != "" {
		p.metrics = &http.Server{Addr: opts.MetricsAddr, Handler: MetricsHandler()}
		go p.serveMetrics()
	}
	return p, nil
}

// newTracerProvider exports spans over OTLP/HTTP. Without an endpoint, or when the
// exporter cannot be built, spans are recorded but never exported.
func newTracerProvider(ctx context.Context, res *resource.Resource, endpoint string, l *zap.Logger) *sdktrace.TracerProvider {
	if endpoint == "" {
		l.Info("No OTLP endpoint configured, traces are not exported")
		return sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		l.Warn("OTLP trace exporter unavailable, traces are not exported",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
}

func newMeterProvider(res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create Prometheus exporter")
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	), nil
}

// MetricsHandler serves the Prometheus registry on /metrics.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (p *Providers) serveMetrics() {
	p.logger.Info("Starting metrics server", zap.String("addr", p.metrics.Addr))
	if err := p.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("Metrics server stopped", zap.Error(err))
	}
}

// Shutdown stops the scrape server and flushes both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.metrics != nil {
		if err := p.metrics.Shutdown(ctx); err != nil {
			errs = append(errs, pkgerrors.Wrap(err, "metrics server shutdown"))
		}
	}
	if err := p.Meter.Shutdown(ctx); err != nil {
		errs = append(errs, pkgerrors.Wrap(err, "meter provider shutdown"))
	}
	if err := p.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, pkgerrors.Wrap(err, "tracer provider shutdown"))
	}
	return errors.Join(errs...)
}
