// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

// Role represents an application's authorization role.
// Keep string form for easy persistence and token claims.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Credential is a transient (identifier, plaintext password) pair submitted
// at login. It is never persisted and never logged.
type Credential struct {
	Identifier string
	Password   string
}

// Claims is the set of identity fields carried inside a session token.
// The token itself is the full session record: the server keeps no
// session state, so whatever is needed per request must live here.
type Claims struct {
	SubjectID  string `json:"sub"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Role       Role   `json:"role,omitempty"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}

// User is the stored user record, owned by the user store collaborator.
// PasswordDigest is the opaque scrypt digest string; it is never serialized
// to a client (see PublicUser).
type User struct {
	ID             string `json:"id"`
	Identifier     string `json:"identifier"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	PasswordDigest string `json:"-"`
}

// PublicUser is the client-visible projection of a User with the digest
// field stripped.
type PublicUser struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}

// Public returns the client-visible projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Identifier: u.Identifier,
		Email:      u.Email,
		Role:       u.Role,
	}
}

// IsAdmin reports whether the claims carry the admin role.
func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
