package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
	apperrors "github.com/townsquare/townsquare-api/internal/errors"
	"github.com/townsquare/townsquare-api/internal/ports"
	"github.com/townsquare/townsquare-api/internal/token"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users   ports.UserStore
	Hasher  ports.PasswordHasher
	Codec   *token.Codec // nil when JWT_SECRET is absent
	Limiter *LoginLimiter
	Logger  *slog.Logger
}

// AuthService issues and terminates sessions. It is the only component in
// the auth subsystem that touches the user store; everything below it is a
// pure function.
type AuthService struct {
	users   ports.UserStore
	hasher  ports.PasswordHasher
	codec   *token.Codec
	limiter *LoginLimiter
	logger  *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewLoginLimiter(LoginLimiterOptions{})
	}
	return &AuthService{
		users:   opts.Users,
		hasher:  opts.Hasher,
		codec:   opts.Codec,
		limiter: limiter,
		logger:  logger,
	}
}

// LoginResult carries the minted token and the public user record.
type LoginResult struct {
	Token     string                `json:"token"`
	User      domainauth.PublicUser `json:"user"`
	ExpiresIn time.Duration         `json:"-"`
}

// Login authenticates an (identifier, password) pair and mints a session
// token. The identifier lookup falls back to a lower-cased email lookup.
// An unknown identifier and a wrong password produce the identical
// invalid_credentials failure so callers cannot probe which factor failed.
func (s *AuthService) Login(ctx context.Context, cred domainauth.Credential) (*LoginResult, error) {
	if cred.Identifier == "" || cred.Password == "" {
		return nil, apperrors.InvalidCredentials()
	}

	if s.codec == nil {
		// Operator error, kept distinct from any client failure.
		return nil, apperrors.Misconfigured("JWT_SECRET is not set")
	}

	if retryAfter := s.limiter.Locked(cred.Identifier); retryAfter > 0 {
		return nil, apperrors.TooManyAttempts(
			fmt.Sprintf("too many failed attempts, retry in %ds", int(retryAfter.Seconds())+1))
	}

	user, err := s.lookup(ctx, cred.Identifier)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "user lookup failed")
	}

	if user == nil || !s.hasher.Verify(cred.Password, user.PasswordDigest) {
		s.limiter.RecordFailure(cred.Identifier)
		// Identifier is logged; the password never is.
		s.logger.InfoContext(ctx, "login rejected", "identifier", cred.Identifier)
		return nil, apperrors.InvalidCredentials()
	}

	s.limiter.Reset(cred.Identifier)

	tok, err := s.codec.Sign(domainauth.Claims{
		SubjectID:  user.ID,
		Identifier: user.Identifier,
		Email:      user.Email,
		Role:       user.Role,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "sign session token")
	}

	s.logger.InfoContext(ctx, "login succeeded", "identifier", user.Identifier, "user_id", user.ID)
	return &LoginResult{Token: tok, User: user.Public(), ExpiresIn: s.codec.TTL()}, nil
}

// lookup finds a user by identifier, falling back to normalized email.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*domainauth.User, error) {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find by identifier: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.FindByEmail(ctx, strings.ToLower(identifier))
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	return user, nil
}

// RegisterInput groups the fields required to create an account.
type RegisterInput struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// Register creates a new user record. It conflicts when the identifier or
// the email (case-insensitively) is already registered. Neither the
// plaintext password nor the digest ever appears in the result or the logs.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domainauth.PublicUser, error) {
	if input.Identifier == "" {
		return nil, apperrors.ValidationField("identifier", "identifier is required")
	}
	if input.Email == "" {
		return nil, apperrors.ValidationField("email", "email is required")
	}
	if input.Password == "" {
		return nil, apperrors.ValidationField("password", "password is required")
	}

	existing, err := s.users.FindByIdentifier(ctx, input.Identifier)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "user lookup failed")
	}
	if existing != nil {
		return nil, apperrors.Conflict("identifier already registered")
	}

	existing, err = s.users.FindByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "user lookup failed")
	}
	if existing != nil {
		return nil, apperrors.Conflict("email already registered")
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	user := domainauth.User{
		ID:             uuid.NewString(),
		Identifier:     input.Identifier,
		Email:          input.Email,
		Role:           domainauth.RoleUser,
		PasswordDigest: digest,
	}
	if _, err = s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create user")
	}

	s.logger.InfoContext(ctx, "user registered", "identifier", user.Identifier, "user_id", user.ID)
	pub := user.Public()
	return &pub, nil
}

// Logout is intentionally stateless: there is no revocation list, so the
// only effect is instructing the caller to clear the session cookie. A
// stolen token therefore stays cryptographically valid until its natural
// expiry. Known limitation, accepted.
func (s *AuthService) Logout() {}

// TokenTTL returns the configured session lifetime, or zero when the
// signing secret is absent.
func (s *AuthService) TokenTTL() time.Duration {
	if s.codec == nil {
		return 0
	}
	return s.codec.TTL()
}

// SecretConfigured reports whether tokens can be minted at all.
func (s *AuthService) SecretConfigured() bool { return s.codec != nil }
