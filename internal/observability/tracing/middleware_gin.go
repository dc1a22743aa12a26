package tracing

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/feedbackrelay/internal/observability/context"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MiddlewareConfig lists paths that never get a span, such as health checks.
type MiddlewareConfig struct {
	SkipPaths []string
}

// Surface groups relay routes by who calls them.
func Surface(path string) string {
	switch {
	case strings.HasPrefix(path, "/webhooks/"):
		return "webhook"
	case strings.HasPrefix(path, "/slack/"):
		return "slack"
	case strings.HasPrefix(path, "/admin"):
		return "admin"
	case path == "/health" || path == "/metrics":
		return "health"
	default:
		return "other"
	}
}

// GinMiddleware opens a server span per request. Inbound callbacks rejected
// with 401 get a signature.rejected event so forged traffic is visible in traces.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	tracer := Tracer("http")
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+strings.ToUpper(c.Request.Method), trace.WithSpanKind(trace.SpanKindServer))

		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			if member, err := baggage.NewMember("request_id", requestID); err == nil {
				if bag, err := baggage.New(member); err == nil {
					ctx = baggage.ContextWithBaggage(ctx, bag)
				}
			}
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Request = c.Request.WithContext(ctx)
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		surface := Surface(c.Request.URL.Path)
		status := c.Writer.Status()
		span.SetName("HTTP " + strings.ToUpper(c.Request.Method) + " " + route)
		span.SetAttributes(SafeAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.Int64("http.request_content_length", c.Request.ContentLength),
			attribute.Int64("http.server_duration_ms", time.Since(start).Milliseconds()),
			attribute.String("relay.surface", surface),
		)...)

		if action := c.GetString("webhook_action"); action != "" {
			span.SetAttributes(attribute.String("webhook.action", action))
		}
		if interaction := c.GetString("interaction_type"); interaction != "" {
			span.SetAttributes(attribute.String("slack.interaction_type", interaction))
		}
		if status == http.StatusUnauthorized && (surface == "webhook" || surface == "slack") {
			span.AddEvent("signature.rejected")
		}

		if status >= http.StatusInternalServerError {
			if lastErr := c.Errors.Last(); lastErr != nil {
				if safeErr := SafeError(lastErr.Err); safeErr != nil {
					span.RecordError(safeErr)
				}
			}
			span.SetStatus(codes.Error, "request error")
		}
		span.End()
	}
}
