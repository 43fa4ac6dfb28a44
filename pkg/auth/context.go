package auth

import "context"

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// FromContext returns the principal attached by WithPrincipal, or the
// anonymous principal.
func FromContext(ctx context.Context) Principal {
	principal, _ := ctx.Value(principalKey{}).(Principal)

	return principal
}
