// Package context carries request-scoped identifiers used by logging and tracing.
package context

import "context"

type requestIDKey struct{}
type actorKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithActor records the chat user acting on the request.
func WithActor(ctx context.Context, slackUserID string) context.Context {
	if slackUserID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, slackUserID)
}

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(actorKey{}).(string)
	return v
}
