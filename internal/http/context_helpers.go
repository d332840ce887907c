package httpx

import (
	"context"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

// claimsKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers and the gate use the same key.
type claimsKey struct{}

// SetClaimsInContext returns a child context carrying the verified session claims.
func SetClaimsInContext(ctx context.Context, claims domainauth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the session claims and a boolean indicating presence.
func GetClaimsFromContext(ctx context.Context) (domainauth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(domainauth.Claims)
	return claims, ok
}

// IsAnonymous reports whether the request context carries no verified session.
func IsAnonymous(ctx context.Context) bool {
	_, ok := GetClaimsFromContext(ctx)
	return !ok
}
