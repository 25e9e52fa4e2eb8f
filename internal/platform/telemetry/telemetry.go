// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "task-tracker", "stdout", "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "task-tracker", "stdout", "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp)
//	metrics.RecordAccessCheck(ctx, telemetry.AccessAllowed)
package telemetry

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Attribute keys for metric labels.
var (
	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPStatus = attribute.Key("http.status_code")
	AttrResult     = attribute.Key("result")
	AttrOutcome    = attribute.Key("outcome")
)

// Values of the result attribute on access check metrics.
const (
	AccessAllowed  = "allowed"
	AccessDenied   = "denied"
	AccessNoRights = "no_rights"
)

// Values of the outcome attribute on per-board cascade metrics.
const (
	CascadePromoted = "promoted"
	CascadeDeleted  = "deleted"
	CascadeSkipped  = "skipped"
)

// Metrics holds pre-registered OpenTelemetry metric instruments. A nil
// *Metrics is valid; its record methods are no-ops, which keeps tests and
// wiring free of conditionals.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	AccessCheckTotal      metric.Int64Counter
	CascadeRunDuration    metric.Float64Histogram
	CascadeBoardTotal     metric.Int64Counter
	EpicRecomputeTotal    metric.Int64Counter
}

// RecordAccessCheck counts an authorization check with its result.
func (m *Metrics) RecordAccessCheck(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.AccessCheckTotal.Add(ctx, 1, metric.WithAttributes(AttrResult.String(result)))
}

// RecordCascadeRun records the duration of a full user cascade in seconds.
func (m *Metrics) RecordCascadeRun(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.CascadeRunDuration.Record(ctx, seconds)
}

// RecordCascadeBoard counts one board resolved during a user cascade with
// its outcome.
func (m *Metrics) RecordCascadeBoard(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.CascadeBoardTotal.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordEpicRecompute counts a persisted epic status recomputation.
func (m *Metrics) RecordEpicRecompute(ctx context.Context) {
	if m == nil {
		return
	}
	m.EpicRecomputeTotal.Add(ctx, 1)
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: "otlp" uses OTLP/HTTP
// with the given endpoint; any other value (including "stdout") uses a
// pretty-printed stdout exporter for development.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric exporter: "otlp" uses OTLP/HTTP
// with the given endpoint; any other value (including "stdout") uses a
// stdout exporter for development.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers all metric instruments using the given MeterProvider.
// The meter is scoped to the service's module path.
func NewMetrics(mp *sdkmetric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("github.com/ArchieBar/task-tracker-it1")

	serverDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of incoming HTTP requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.duration: %w", err)
	}

	serverTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of incoming HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.request.total: %w", err)
	}

	accessTotal, err := meter.Int64Counter(
		"authz.check.total",
		metric.WithDescription("Total number of authorization checks by result"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating authz.check.total: %w", err)
	}

	cascadeDuration, err := meter.Float64Histogram(
		"cascade.user.duration",
		metric.WithDescription("Duration of full user deletion cascades"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cascade.user.duration: %w", err)
	}

	cascadeBoards, err := meter.Int64Counter(
		"cascade.board.total",
		metric.WithDescription("Total number of boards resolved during user cascades by outcome"),
		metric.WithUnit("{board}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cascade.board.total: %w", err)
	}

	recomputeTotal, err := meter.Int64Counter(
		"epic.status.recompute.total",
		metric.WithDescription("Total number of persisted epic status recomputations"),
		metric.WithUnit("{recompute}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating epic.status.recompute.total: %w", err)
	}

	return &Metrics{
		ServerRequestDuration: serverDuration,
		ServerRequestTotal:    serverTotal,
		AccessCheckTotal:      accessTotal,
		CascadeRunDuration:    cascadeDuration,
		CascadeBoardTotal:     cascadeBoards,
		EpicRecomputeTotal:    recomputeTotal,
	}, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	if exporter == "otlp" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	if exporter == "otlp" {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	}
	return stdoutmetric.New()
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
