// Package memstore provides an in-memory implementation of the user store
// collaborator. The surrounding application is mock-data CRUD, so this is
// the production store as well as the test double; a real persistence layer
// would slot in behind the same ports.UserStore interface.
package memstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

// ErrDuplicate is returned by Create when the identifier or email is taken.
var ErrDuplicate = errors.New("user already exists")

// UserStore keeps user records in memory, indexed by identifier and by
// lower-cased email. Safe for concurrent use.
type UserStore struct {
	mu           sync.RWMutex
	byIdentifier map[string]domainauth.User
	byEmail      map[string]string // lower-cased email -> identifier
}

// NewUserStore constructs an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		byIdentifier: make(map[string]domainauth.User),
		byEmail:      make(map[string]string),
	}
}

// FindByIdentifier returns the user with the given identifier, or (nil, nil).
func (s *UserStore) FindByIdentifier(_ context.Context, identifier string) (*domainauth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byIdentifier[identifier]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// FindByEmail returns the user with the given email, matched
// case-insensitively, or (nil, nil).
func (s *UserStore) FindByEmail(_ context.Context, email string) (*domainauth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identifier, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	user := s.byIdentifier[identifier]
	return &user, nil
}

// Create persists a new user record and returns its ID. The issuer checks
// uniqueness before calling, but Create still refuses duplicates so the
// store never silently overwrites a record.
func (s *UserStore) Create(_ context.Context, user domainauth.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byIdentifier[user.Identifier]; exists {
		return "", ErrDuplicate
	}
	if _, exists := s.byEmail[strings.ToLower(user.Email)]; exists {
		return "", ErrDuplicate
	}

	s.byIdentifier[user.Identifier] = user
	s.byEmail[strings.ToLower(user.Email)] = user.Identifier
	return user.ID, nil
}

// Len returns the number of stored users.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byIdentifier)
}
