package tracing

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/feedbackrelay/internal/apperr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "feedbackrelay"

// Tracer returns the named tracer for a component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + component)
}

// ExtractContext reads upstream trace headers into ctx.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

var blockedAttributeKeys = map[attribute.Key]struct{}{
	"email":             {},
	"candidate.name":    {},
	"http.request.body": {},
	"authorization":     {},
}

// SafeAttributes drops attributes that could carry personal data or secrets.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, blocked := blockedAttributeKeys[attr.Key]; blocked {
			continue
		}
		if strings.Contains(strings.ToLower(string(attr.Key)), "secret") {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// SafeError reduces an error to its classification so messages carrying
// payload fragments stay out of exported spans.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	if kind := apperr.KindOf(err); kind != "" {
		return errors.New(string(kind))
	}
	return errors.New("internal_error")
}
