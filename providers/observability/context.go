package observability

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey int

const (
	observerContextKey contextKey = iota
	spanContextKey
)

// ObserverFromContext extracts the Observer from the context.
// Returns nil if no observer is present.
func ObserverFromContext(ctx context.Context) Observer {
	if ctx == nil {
		return nil
	}
	observer, _ := ctx.Value(observerContextKey).(Observer)
	return observer
}

// ContextWithObserver returns a new context carrying the given observer.
func ContextWithObserver(ctx context.Context, observer Observer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, observerContextKey, observer)
}

// SpanFromContext extracts the current Span from the context.
// Returns nil if no span is present.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanContextKey).(Span)
	return span
}

// ContextWithSpan returns a new context with the given span attached.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanContextKey, span)
}
