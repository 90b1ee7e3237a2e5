package fakestore

import "context"

// bearerKey is an unexported context key type to avoid collisions across packages.
type bearerKey struct{}

// WithBearer returns a child context carrying a bearer token that the client
// forwards on the Authorization header of outgoing requests. An empty token
// returns the original ctx unchanged.
func WithBearer(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerKey{}, token)
}

func bearerFrom(ctx context.Context) string {
	if token, ok := ctx.Value(bearerKey{}).(string); ok {
		return token
	}
	return ""
}
