package config

// AuthConfig groups session token and signup configuration.
//
// JWT_SECRET has no default on purpose: an unset secret is a distinguished
// misconfiguration state that the rest of the application must be able to
// detect (API routes answer 500, page routes fail closed to the login page).
// It is never replaced by an empty-string fallback.
type AuthConfig struct {
	// JWTSecret signs and verifies session tokens (HS256).
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTLSeconds is the session token lifetime in seconds.
	TokenTTLSeconds int64 `env:"JWT_EXPIRES_IN_SECONDS" envDefault:"86400"`

	// SignupEnabledRaw carries the SIGNUP_ENABLED value as a string.
	// Anything other than the literal "false" counts as enabled, so this
	// is deliberately not a bool field (env would reject values like "yes").
	SignupEnabledRaw string `env:"SIGNUP_ENABLED" envDefault:"true"`
}

// SecretConfigured reports whether a signing secret is present.
func (a AuthConfig) SecretConfigured() bool {
	return a.JWTSecret != ""
}

// SignupEnabled reports whether self-service registration is enabled.
// Only the literal value "false" disables it.
func (a AuthConfig) SignupEnabled() bool {
	return a.SignupEnabledRaw != "false"
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	// A zero or negative TTL would mint tokens that are expired at issue time.
	if a.TokenTTLSeconds < 1 {
		a.TokenTTLSeconds = 86400
	}
}
