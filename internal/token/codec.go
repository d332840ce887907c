// Package token implements the session token codec and its two verifiers.
//
// Tokens are HS256 JWTs: base64url(header).base64url(payload).base64url(sig),
// no padding. The token is the entire session record; verification is a pure
// function of (token, secret, now) and never consults server-side state.
//
// Two verifier implementations exist on purpose. Codec is the application-tier
// implementation built on golang-jwt. EdgeVerifier is the perimeter
// implementation built on nothing but the HMAC digest primitive, for the
// deployment tier where the full JWT library is unavailable. Both satisfy
// ports.TokenVerifier and must agree on accept/reject for every
// (token, secret, now) triple; conformance_test.go holds the shared vectors.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

// Token errors. Parse and decode failures of any kind collapse into
// ErrTokenInvalid so a caller probing the verifier learns nothing about
// where verification failed.
var (
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrSecretMissing = errors.New("signing secret is not configured")
)

// CodecOptions groups construction parameters for Codec.
type CodecOptions struct {
	// Secret is the shared HS256 key. Required.
	Secret string

	// TTL is the lifetime stamped into minted tokens.
	TTL time.Duration

	// Now overrides the clock. Defaults to time.Now. Sign and Verify each
	// read the clock exactly once, so a fixed Now makes both deterministic.
	Now func() time.Time
}

// Codec signs and verifies session tokens using the full JWT library.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewCodec constructs a Codec. An absent secret is a distinguished failure,
// not an empty key: minting or verifying with no secret must never happen.
func NewCodec(opts CodecOptions) (*Codec, error) {
	if opts.Secret == "" {
		return nil, ErrSecretMissing
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		now:    now,
		// Claims validation is done by hand in Verify: the library treats
		// exp == now as expired, while this codec keeps it valid.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Sign mints a token carrying the given identity claims plus iat and exp.
// The same (claims, secret, now) always yields the same token.
func (c *Codec) Sign(claims domainauth.Claims) (string, error) {
	now := c.now()
	iat := now.Unix()

	mc := jwt.MapClaims{
		"sub":        claims.SubjectID,
		"identifier": claims.Identifier,
		"email":      claims.Email,
		"iat":        iat,
		"exp":        iat + int64(c.ttl.Seconds()),
	}
	if claims.Role != "" {
		mc["role"] = string(claims.Role)
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.secret)
}

// Verify validates structure, signature, and expiry, returning the claims on
// success. Expiry is exclusive on the past side only: exp == now is valid.
func (c *Codec) Verify(tokenString string) (domainauth.Claims, error) {
	now := c.now() // read once; reused for the exp comparison below

	parsed, err := c.parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	claims, err := claimsFromMap(map[string]any(mc))
	if err != nil {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	if expSet, expired := expiryState(map[string]any(mc), claims.ExpiresAt, now.Unix()); expSet && expired {
		return domainauth.Claims{}, ErrTokenExpired
	}

	return claims, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// expiryState reports whether exp is present and whether it lies in the past.
func expiryState(mc map[string]any, exp, now int64) (present, expired bool) {
	if _, ok := mc["exp"]; !ok {
		return false, false
	}
	return true, exp < now
}

// claimsFromMap converts decoded JWT claims into the domain shape. Numeric
// claims arrive as float64 from encoding/json; non-numeric iat/exp values
// make the token malformed.
func claimsFromMap(mc map[string]any) (domainauth.Claims, error) {
	claims := domainauth.Claims{
		SubjectID:  stringClaim(mc, "sub"),
		Identifier: stringClaim(mc, "identifier"),
		Email:      stringClaim(mc, "email"),
		Role:       domainauth.Role(stringClaim(mc, "role")),
	}

	var err error
	if claims.IssuedAt, err = numericClaim(mc, "iat"); err != nil {
		return domainauth.Claims{}, err
	}
	if claims.ExpiresAt, err = numericClaim(mc, "exp"); err != nil {
		return domainauth.Claims{}, err
	}
	return claims, nil
}

func stringClaim(mc map[string]any, key string) string {
	s, _ := mc[key].(string)
	return s
}

func numericClaim(mc map[string]any, key string) (int64, error) {
	v, ok := mc[key]
	if !ok {
		return 0, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, ErrTokenInvalid
	}
	return int64(f), nil
}
