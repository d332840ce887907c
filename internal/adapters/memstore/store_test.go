package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	id, err := store.Create(ctx, domainauth.User{
		ID:         "u-1",
		Identifier: "alice",
		Email:      "Alice@Example.com",
		Role:       domainauth.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)

	byIdentifier, err := store.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byIdentifier)
	assert.Equal(t, "u-1", byIdentifier.ID)

	// Email lookup is case-insensitive in both directions.
	for _, email := range []string{"alice@example.com", "ALICE@EXAMPLE.COM", "Alice@Example.com"} {
		byEmail, err := store.FindByEmail(ctx, email)
		require.NoError(t, err)
		require.NotNil(t, byEmail, "email %q", email)
		assert.Equal(t, "u-1", byEmail.ID)
	}
}

func TestUserStore_MissReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	user, err := store.FindByIdentifier(ctx, "nobody")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = store.FindByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserStore_CreateRefusesDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	_, err := store.Create(ctx, domainauth.User{ID: "u-1", Identifier: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = store.Create(ctx, domainauth.User{ID: "u-2", Identifier: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Create(ctx, domainauth.User{ID: "u-3", Identifier: "bob", Email: "ALICE@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate, "email uniqueness is case-insensitive")

	assert.Equal(t, 1, store.Len())
}

func TestUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	_, err := store.Create(ctx, domainauth.User{ID: "u-1", Identifier: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	first, err := store.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	first.Email = "mutated@example.com"

	second, err := store.FindByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", second.Email, "callers must not be able to mutate stored records")
}
