package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

const testSecret = "conformance-test-secret"

var testClaims = domainauth.Claims{
	SubjectID:  "u-42",
	Identifier: "alice",
	Email:      "alice@example.com",
	Role:       domainauth.RoleUser,
}

// fixedClock returns a clock function pinned to the given unix second.
func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0).UTC() }
}

func newTestCodec(t *testing.T, nowUnix int64, ttl time.Duration) *Codec {
	t.Helper()
	c, err := NewCodec(CodecOptions{Secret: testSecret, TTL: ttl, Now: fixedClock(nowUnix)})
	require.NoError(t, err)
	return c
}

func TestNewCodec_MissingSecret(t *testing.T) {
	_, err := NewCodec(CodecOptions{Secret: "", TTL: time.Hour})
	assert.ErrorIs(t, err, ErrSecretMissing)
}

func TestCodec_SignWireFormat(t *testing.T) {
	c := newTestCodec(t, 1_700_000_000, time.Hour)

	tok, err := c.Sign(testClaims)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	assert.NotContains(t, tok, "=", "segments must be unpadded base64url")

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]string
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	assert.Equal(t, map[string]string{"alg": "HS256", "typ": "JWT"}, header)

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))
	assert.Equal(t, "u-42", payload["sub"])
	assert.Equal(t, "alice", payload["identifier"])
	assert.Equal(t, "alice@example.com", payload["email"])
	assert.Equal(t, float64(1_700_000_000), payload["iat"])
	assert.Equal(t, float64(1_700_003_600), payload["exp"])
}

func TestCodec_SignIsDeterministic(t *testing.T) {
	first := newTestCodec(t, 1_700_000_000, time.Hour)
	second := newTestCodec(t, 1_700_000_000, time.Hour)

	tokA, err := first.Sign(testClaims)
	require.NoError(t, err)
	tokB, err := second.Sign(testClaims)
	require.NoError(t, err)

	assert.Equal(t, tokA, tokB, "same (claims, secret, now) must yield the same token")
}

func TestCodec_VerifyRoundTrip(t *testing.T) {
	c := newTestCodec(t, 1_700_000_000, time.Hour)

	tok, err := c.Sign(testClaims)
	require.NoError(t, err)

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testClaims.SubjectID, got.SubjectID)
	assert.Equal(t, testClaims.Identifier, got.Identifier)
	assert.Equal(t, testClaims.Email, got.Email)
	assert.Equal(t, testClaims.Role, got.Role)
	assert.Equal(t, int64(1_700_000_000), got.IssuedAt)
	assert.Equal(t, int64(1_700_003_600), got.ExpiresAt)
}

func TestCodec_ExpiryBoundary(t *testing.T) {
	mint := newTestCodec(t, 1_700_000_000, time.Hour)
	tok, err := mint.Sign(testClaims)
	require.NoError(t, err)
	exp := int64(1_700_003_600)

	tests := []struct {
		name    string
		now     int64
		expired bool
	}{
		{name: "well before expiry", now: exp - 1800, expired: false},
		{name: "one second before expiry", now: exp - 1, expired: false},
		{name: "exactly at expiry", now: exp, expired: false},
		{name: "one second past expiry", now: exp + 1, expired: true},
		{name: "long past expiry", now: exp + 86400, expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verify := newTestCodec(t, tt.now, time.Hour)
			_, err := verify.Verify(tok)
			if tt.expired {
				assert.ErrorIs(t, err, ErrTokenExpired)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCodec_VerifyRejectsWrongSecret(t *testing.T) {
	mint := newTestCodec(t, 1_700_000_000, time.Hour)
	tok, err := mint.Sign(testClaims)
	require.NoError(t, err)

	other, err := NewCodec(CodecOptions{Secret: "a different secret", TTL: time.Hour, Now: fixedClock(1_700_000_000)})
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_VerifyRejectsMalformed(t *testing.T) {
	c := newTestCodec(t, 1_700_000_000, time.Hour)
	valid, err := c.Sign(testClaims)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "one segment", token: parts[0]},
		{name: "two segments", token: parts[0] + "." + parts[1]},
		{name: "four segments", token: valid + "." + parts[2]},
		{name: "empty signature", token: parts[0] + "." + parts[1] + "."},
		{name: "padded signature", token: parts[0] + "." + parts[1] + "." + parts[2] + "=="},
		{name: "non-base64 payload", token: parts[0] + ".!!!." + parts[2]},
		{name: "payload not JSON", token: parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("hi")) + "." + parts[2]},
		{name: "garbage", token: "not a token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Verify(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestCodec_VerifyRejectsAlgNone(t *testing.T) {
	c := newTestCodec(t, 1_700_000_000, time.Hour)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-42","exp":1700003600}`))

	_, err := c.Verify(header + "." + payload + ".")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_RoleClaimOmittedWhenEmpty(t *testing.T) {
	c := newTestCodec(t, 1_700_000_000, time.Hour)

	tok, err := c.Sign(domainauth.Claims{SubjectID: "u-1", Identifier: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	payloadJSON, err := base64.RawURLEncoding.DecodeString(strings.Split(tok, ".")[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(payloadJSON, &payload))
	_, present := payload["role"]
	assert.False(t, present)
}
