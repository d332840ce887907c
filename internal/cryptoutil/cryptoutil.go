// Package cryptoutil provides the password digest codec and the shared
// constant-time comparison primitive used across the auth subsystem.
package cryptoutil

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Digest wire format: scrypt$N$r$p$base64(salt)$base64(key).
// Tag and cost parameters are embedded in the digest so verification never
// needs out-of-band knowledge of how it was created; raising the cost for
// new digests leaves previously stored ones verifiable.
const (
	digestTag    = "scrypt"
	digestFields = 6

	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	saltLength   = 16
	keyLength    = 32
)

// ScryptHasher implements ports.PasswordHasher using the scrypt KDF.
// The zero value is ready to use.
type ScryptHasher struct{}

// Hash generates a fresh random salt and derives a digest with the default
// cost parameters. It fails only when the system RNG fails.
func (ScryptHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return strings.Join([]string{
		digestTag,
		strconv.Itoa(scryptN),
		strconv.Itoa(scryptR),
		strconv.Itoa(scryptP),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	}, "$"), nil
}

// Verify re-derives the key with the parameters and salt embedded in the
// digest and compares in constant time. Any malformed digest verifies as
// false: a corrupted stored record must surface as "invalid credentials",
// never crash a login.
func (ScryptHasher) Verify(password, digest string) bool {
	params, ok := parseDigest(digest)
	if !ok {
		return false
	}

	derived, err := scrypt.Key([]byte(password), params.salt, params.n, params.r, params.p, len(params.key))
	if err != nil {
		return false
	}

	return ConstantTimeEqual(derived, params.key)
}

type digestParams struct {
	n, r, p int
	salt    []byte
	key     []byte
}

func parseDigest(digest string) (digestParams, bool) {
	fields := strings.Split(digest, "$")
	if len(fields) != digestFields || fields[0] != digestTag {
		return digestParams{}, false
	}

	n, errN := strconv.Atoi(fields[1])
	r, errR := strconv.Atoi(fields[2])
	p, errP := strconv.Atoi(fields[3])
	if errN != nil || errR != nil || errP != nil {
		return digestParams{}, false
	}
	// scrypt requires N to be a power of two greater than one.
	if n < 2 || n&(n-1) != 0 || r < 1 || p < 1 {
		return digestParams{}, false
	}

	salt, errSalt := base64.StdEncoding.DecodeString(fields[4])
	key, errKey := base64.StdEncoding.DecodeString(fields[5])
	if errSalt != nil || errKey != nil || len(key) == 0 {
		return digestParams{}, false
	}

	return digestParams{n: n, r: r, p: p, salt: salt, key: key}, true
}

// ConstantTimeEqual reports whether two byte slices are equal without leaking
// where they differ. Unequal lengths are an immediate false; equal-length
// buffers are always compared in full. This is the single comparison
// primitive shared by the digest compare and the token verifiers.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}
