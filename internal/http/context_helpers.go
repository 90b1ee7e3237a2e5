package httpx

import "context"

// namespaceKey is an unexported context key type to avoid collisions across
// packages. Centralized in this file so all handlers/middleware use the same
// key.
type namespaceKey struct{}

// setNamespaceInContext returns a child context that carries the browser
// namespace id. An empty ns returns the original ctx unchanged.
func setNamespaceInContext(ctx context.Context, ns string) context.Context {
	if ns == "" {
		return ctx
	}
	return context.WithValue(ctx, namespaceKey{}, ns)
}

// NamespaceFromContext returns the browser namespace id from context and a
// boolean indicating presence.
func NamespaceFromContext(ctx context.Context) (string, bool) {
	if ns, ok := ctx.Value(namespaceKey{}).(string); ok && ns != "" {
		return ns, true
	}
	return "", false
}
