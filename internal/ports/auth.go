// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/token; orchestration
// in internal/service.
package ports

import (
	"context"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

// UserStore is the opaque user-record collaborator consumed by the auth
// subsystem. Records are keyed by identifier and by normalized email.
type UserStore interface {
	// FindByIdentifier returns the user with the given identifier, or
	// (nil, nil) when no such user exists.
	FindByIdentifier(ctx context.Context, identifier string) (*domainauth.User, error)

	// FindByEmail returns the user with the given email, matched
	// case-insensitively, or (nil, nil) when no such user exists.
	FindByEmail(ctx context.Context, email string) (*domainauth.User, error)

	// Create persists a new user record and returns its ID.
	Create(ctx context.Context, user domainauth.User) (string, error)
}

// TokenVerifier validates a session token and returns its claims.
//
// Two conforming implementations exist: the full-environment codec
// (token.Codec) and the perimeter verifier (token.EdgeVerifier). They must
// agree on accept/reject for every (token, secret, now) triple; the shared
// conformance vectors in internal/token enforce this.
type TokenVerifier interface {
	Verify(token string) (domainauth.Claims, error)
}

// PasswordHasher derives and verifies password digests.
type PasswordHasher interface {
	// Hash generates a salted digest from a plaintext password.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with a stored digest.
	// Malformed digests verify as false, never as an error.
	Verify(password, digest string) bool
}
