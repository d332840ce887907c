// Package devseed populates the in-memory user store with demo accounts
// for local development. It never runs outside dev mode.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/townsquare/townsquare-api/internal/adapters/memstore"
	"github.com/townsquare/townsquare-api/internal/cryptoutil"
	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

type seedUser struct {
	identifier string
	email      string
	password   string
	role       domainauth.Role
}

// Demo credentials, dev only.
var seedUsers = []seedUser{
	{identifier: "admin", email: "admin@townsquare.local", password: "admin-dev-password", role: domainauth.RoleAdmin},
	{identifier: "demo", email: "demo@townsquare.local", password: "demo-dev-password", role: domainauth.RoleUser},
}

// Seed inserts the demo accounts into the store. Existing accounts with the
// same identifier are left alone so reseeding stays idempotent.
func Seed(ctx context.Context, store *memstore.UserStore, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	hasher := cryptoutil.ScryptHasher{}

	for _, u := range seedUsers {
		existing, err := store.FindByIdentifier(ctx, u.identifier)
		if err != nil {
			return fmt.Errorf("check seed user %q: %w", u.identifier, err)
		}
		if existing != nil {
			continue
		}

		digest, err := hasher.Hash(u.password)
		if err != nil {
			return fmt.Errorf("hash seed password for %q: %w", u.identifier, err)
		}

		if _, err := store.Create(ctx, domainauth.User{
			ID:             uuid.NewString(),
			Identifier:     u.identifier,
			Email:          u.email,
			Role:           u.role,
			PasswordDigest: digest,
		}); err != nil {
			return fmt.Errorf("create seed user %q: %w", u.identifier, err)
		}

		logger.InfoContext(ctx, "seeded dev user", "identifier", u.identifier)
	}

	return nil
}
