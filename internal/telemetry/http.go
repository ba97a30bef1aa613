package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/instsrc/internal/errs"
	instotel "github.com/stacklok/instsrc/internal/otel"
)

const (
	// HTTPInstrumentationName names the HTTP tracer and meter
	HTTPInstrumentationName = "github.com/stacklok/instsrc/http"

	unknownRoute = "unknown_route"
)

// API groups used to label HTTP telemetry
const (
	GroupManager    = "manager"
	GroupSources    = "sources"
	GroupSelections = "selections"
	GroupPatterns   = "patterns"
	GroupHealth     = "health"
	GroupOther      = "other"
)

// HTTPMetrics holds the HTTP instruments
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	failuresTotal   metric.Int64Counter
}

// NewHTTPMetrics creates the HTTP instruments on provider.
// A nil provider yields nil metrics, which record nothing.
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}
	meter := provider.Meter(HTTPInstrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"instsrc_http_request_duration_seconds",
		metric.WithDescription("Duration of API requests in seconds"),
		metric.WithUnit("s"),
		// Media scans dominate the upper buckets
		metric.WithExplicitBucketBoundaries(0.005, 0.025, 0.1, 0.5, 1, 5, 15, 30),
	)
	if err != nil {
		return nil, err
	}

	requestsTotal, err := meter.Int64Counter(
		"instsrc_http_requests_total",
		metric.WithDescription("API requests by route and status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	failuresTotal, err := meter.Int64Counter(
		"instsrc_http_failures_total",
		metric.WithDescription("Failed API requests by API group and error kind"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestsTotal:   requestsTotal,
		failuresTotal:   failuresTotal,
	}, nil
}

// record adds one finished request
func (m *HTTPMetrics) record(r *http.Request, req routedRequest, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	ctx := r.Context()
	attrs := metric.WithAttributes(
		attribute.String("method", r.Method),
		attribute.String("route", req.route),
		attribute.String("group", req.group),
		attribute.String("status_code", strconv.Itoa(status)),
	)
	m.requestDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.requestsTotal.Add(ctx, 1, attrs)

	if kind := failureKind(status); kind != "" {
		m.failuresTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("group", req.group),
			attribute.String("kind", kind),
		))
	}
}

// HTTPMiddleware returns middleware that traces and measures every request.
// It must run inside the chi router so the route is known once the request
// has been served.
func (t *Telemetry) HTTPMiddleware() (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(t.meterProvider)
	if err != nil {
		return nil, err
	}
	return newHTTPMiddleware(t.tracerProvider, metrics), nil
}

func newHTTPMiddleware(provider trace.TracerProvider, metrics *HTTPMetrics) func(http.Handler) http.Handler {
	tracer := provider.Tracer(HTTPInstrumentationName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			propagator := otel.GetTextMapPropagator()
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			// Renamed to the route pattern once chi has routed the request
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(r.UserAgent()),
				),
			)
			defer span.End()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			req := routeOf(r)

			span.SetName(r.Method + " " + req.route)
			span.SetAttributes(
				semconv.HTTPRouteKey.String(req.route),
				semconv.HTTPResponseStatusCode(status),
				attribute.String("api.group", req.group),
			)
			span.SetAttributes(req.attrs...)
			if kind := failureKind(status); kind != "" {
				span.SetAttributes(instotel.AttrErrorKind.String(kind))
			}
			// Client errors are the caller's; only server errors fail the span
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			metrics.record(r, req, status, time.Since(start))
		})
	}
}

// routedRequest is what the router resolved for a request
type routedRequest struct {
	route string
	group string
	attrs []attribute.KeyValue
}

// routeOf reads the route pattern and the source id or resolvable name
// addressed by a served request
func routeOf(r *http.Request) routedRequest {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return routedRequest{route: unknownRoute, group: GroupOther}
	}

	route := rctx.RoutePattern()
	req := routedRequest{route: route, group: routeGroup(route)}

	if raw := rctx.URLParam("id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			req.attrs = append(req.attrs, instotel.AttrSourceID.Int(id))
		}
	}
	if name := rctx.URLParam("name"); name != "" {
		req.attrs = append(req.attrs, instotel.AttrResolvableName.String(name))
		switch req.group {
		case GroupSelections:
			req.attrs = append(req.attrs, instotel.AttrResolvableKind.String("selection"))
		case GroupPatterns:
			req.attrs = append(req.attrs, instotel.AttrResolvableKind.String("pattern"))
		}
	}
	return req
}

// routeGroup maps a route pattern to the API group it belongs to
func routeGroup(route string) string {
	switch {
	case strings.HasPrefix(route, "/v1/manager"):
		return GroupManager
	case strings.HasPrefix(route, "/v1/sources"):
		return GroupSources
	case strings.HasPrefix(route, "/v1/selections"):
		return GroupSelections
	case strings.HasPrefix(route, "/v1/patterns"):
		return GroupPatterns
	case route == "/health", route == "/readiness", route == "/metrics":
		return GroupHealth
	default:
		return GroupOther
	}
}

// failureKind names the error kind the API answers with status, or "" for
// a success
func failureKind(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusNotFound:
		return errs.KindNotFound
	case status == http.StatusUnprocessableEntity:
		return errs.KindScan
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= http.StatusInternalServerError:
		return errs.KindInternal
	default:
		return "invalid_request"
	}
}
