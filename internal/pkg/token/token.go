package token

import "context"

type contextKey struct{}

// WithToken stores a caller-supplied bearer token in the context so outbound
// service clients can forward it.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, token)
}

// FromContext returns the propagated bearer token, or an empty string.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}
