package cryptoutil

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/scrypt"
)

func TestScryptHasher_HashVerifyRoundTrip(t *testing.T) {
	var h ScryptHasher

	passwords := []string{"hunter2", "correct horse battery staple", "päss wörd ☃", "a"}
	for _, password := range passwords {
		digest, err := h.Hash(password)
		require.NoError(t, err)

		assert.True(t, h.Verify(password, digest), "password %q should verify against its own digest", password)
		assert.False(t, h.Verify(password+"x", digest), "modified password should not verify")
	}
}

func TestScryptHasher_DigestFormat(t *testing.T) {
	var h ScryptHasher
	digest, err := h.Hash("secret")
	require.NoError(t, err)

	fields := strings.Split(digest, "$")
	require.Len(t, fields, 6)
	assert.Equal(t, "scrypt", fields[0])
	assert.Equal(t, "16384", fields[1])
	assert.Equal(t, "8", fields[2])
	assert.Equal(t, "1", fields[3])
	assert.NotEmpty(t, fields[4])
	assert.NotEmpty(t, fields[5])
}

func TestScryptHasher_SaltIsFreshPerHash(t *testing.T) {
	var h ScryptHasher
	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two digests of the same password must differ by salt")
	assert.True(t, h.Verify("secret", first))
	assert.True(t, h.Verify("secret", second))
}

func TestScryptHasher_EmbeddedParametersAreHonored(t *testing.T) {
	// A digest created with lower cost parameters must still verify: the
	// parameters travel inside the digest, not in code.
	var h ScryptHasher

	salt := []byte("0123456789abcdef")
	key, err := scrypt.Key([]byte("legacy password"), salt, 1024, 8, 1, 32)
	require.NoError(t, err)

	legacy := strings.Join([]string{
		"scrypt", "1024", "8", "1",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$")

	assert.True(t, h.Verify("legacy password", legacy))
	assert.False(t, h.Verify("wrong password", legacy))
}

func TestScryptHasher_MalformedDigests(t *testing.T) {
	var h ScryptHasher

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "wrong tag", digest: "bcrypt$16384$8$1$c2FsdA==$a2V5"},
		{name: "too few fields", digest: "scrypt$16384$8$c2FsdA==$a2V5"},
		{name: "too many fields", digest: "scrypt$16384$8$1$c2FsdA==$a2V5$extra"},
		{name: "non-numeric cost", digest: "scrypt$banana$8$1$c2FsdA==$a2V5"},
		{name: "N not a power of two", digest: "scrypt$1000$8$1$c2FsdA==$a2V5"},
		{name: "zero r", digest: "scrypt$16384$0$1$c2FsdA==$a2V5"},
		{name: "invalid salt base64", digest: "scrypt$16384$8$1$!!!$a2V5"},
		{name: "invalid key base64", digest: "scrypt$16384$8$1$c2FsdA==$!!!"},
		{name: "empty key", digest: "scrypt$16384$8$1$c2FsdA==$"},
		{name: "random garbage", digest: "not a digest at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must be false, and must not panic.
			assert.False(t, h.Verify("secret", tt.digest))
		})
	}
}

func TestConstantTimeEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []byte
		expected bool
	}{
		{name: "equal", a: []byte("abcdef"), b: []byte("abcdef"), expected: true},
		{name: "differs at start", a: []byte("abcdef"), b: []byte("xbcdef"), expected: false},
		{name: "differs at end", a: []byte("abcdef"), b: []byte("abcdex"), expected: false},
		{name: "unequal length", a: []byte("abc"), b: []byte("abcd"), expected: false},
		{name: "both empty", a: []byte{}, b: []byte{}, expected: true},
		{name: "nil vs empty", a: nil, b: []byte{}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstantTimeEqual(tt.a, tt.b))
		})
	}
}
