package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/naveenspark/findbuddy/internal/telemetry"

// Transport wraps an http.RoundTripper with a client span per request,
// W3C trace-context propagation and request metrics.
type Transport struct {
	base       http.RoundTripper
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTransport wraps base. A nil base means http.DefaultTransport and a nil
// provider means the global one.
func NewTransport(base http.RoundTripper, tp trace.TracerProvider) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Transport{
		base:       base,
		tracer:     tp.Tracer(instrumentationName),
		propagator: propagation.TraceContext{},
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	route := Route(req.URL.Path)
	ctx, span := t.tracer.Start(req.Context(), req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", route),
			attribute.String("http.host", req.URL.Host),
		),
	)
	defer span.End()

	r := req.Clone(ctx)
	t.propagator.Inject(ctx, propagation.HeaderCarrier(r.Header))

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	ClientRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ClientRequestsTotal.WithLabelValues(req.Method, route, "error").Inc()
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	ClientRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// Route collapses UUID path segments to :id to keep label cardinality bounded.
func Route(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := uuid.Parse(p); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
