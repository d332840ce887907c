package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"strings"
	"time"

	domainauth "github.com/townsquare/townsquare-api/internal/domain/auth"
)

// EdgeVerifier is the perimeter implementation of token verification. The
// environment it models exposes only an HMAC digest primitive: no JWT
// library, no constant-time comparison helper, no padding-agnostic base64.
// It therefore carries its own base64url alphabet and compares signatures
// as equal-length encoded strings with a full-length accumulator.
//
// Its accept/reject decisions must match Codec.Verify for every
// (token, secret, now) triple; see conformance_test.go.
type EdgeVerifier struct {
	secret []byte
	now    func() time.Time
}

// EdgeVerifierOptions groups construction parameters for EdgeVerifier.
type EdgeVerifierOptions struct {
	// Secret is the shared HS256 key. Required.
	Secret string

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// NewEdgeVerifier constructs an EdgeVerifier. As with NewCodec, an absent
// secret is a distinguished failure state, never an empty key.
func NewEdgeVerifier(opts EdgeVerifierOptions) (*EdgeVerifier, error) {
	if opts.Secret == "" {
		return nil, ErrSecretMissing
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &EdgeVerifier{secret: []byte(opts.Secret), now: now}, nil
}

type edgeHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Verify checks structure, algorithm, signature, and expiry. All parse and
// decode failures collapse to ErrTokenInvalid.
func (v *EdgeVerifier) Verify(tokenString string) (domainauth.Claims, error) {
	now := v.now() // read once; reused for the exp comparison below

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	headerJSON, err := decodeBase64URL(parts[0])
	if err != nil {
		return domainauth.Claims{}, ErrTokenInvalid
	}
	var header edgeHeader
	if err = json.Unmarshal(headerJSON, &header); err != nil || header.Alg != "HS256" {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(parts[0]))
	mac.Write([]byte("."))
	mac.Write([]byte(parts[1]))
	expected := encodeBase64URL(mac.Sum(nil))

	if !timingSafeEqual(parts[2], expected) {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	payloadJSON, err := decodeBase64URL(parts[1])
	if err != nil {
		return domainauth.Claims{}, ErrTokenInvalid
	}
	var payload map[string]any
	if err = json.Unmarshal(payloadJSON, &payload); err != nil {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	claims, err := claimsFromMap(payload)
	if err != nil {
		return domainauth.Claims{}, ErrTokenInvalid
	}

	if expSet, expired := expiryState(payload, claims.ExpiresAt, now.Unix()); expSet && expired {
		return domainauth.Claims{}, ErrTokenExpired
	}

	return claims, nil
}

// timingSafeEqual compares two strings without leaking the position of a
// mismatch: the accumulator runs over the full length and never returns
// early. Unequal lengths are an immediate false, which leaks only the
// length, and encoded HS256 signatures all share one length anyway.
func timingSafeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var mismatch byte
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// base64URLReverse maps an input byte to its 6-bit value, or 0xFF for bytes
// outside the base64url alphabet (padding characters included).
var base64URLReverse = func() [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = 0xFF
	}
	for i := 0; i < len(base64URLAlphabet); i++ {
		table[base64URLAlphabet[i]] = byte(i)
	}
	return table
}()

// encodeBase64URL encodes without padding characters.
func encodeBase64URL(data []byte) string {
	var sb strings.Builder
	sb.Grow((len(data)*8 + 5) / 6)

	for i := 0; i+2 < len(data); i += 3 {
		n := uint32(data[i])<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
		sb.WriteByte(base64URLAlphabet[n>>18])
		sb.WriteByte(base64URLAlphabet[n>>12&0x3F])
		sb.WriteByte(base64URLAlphabet[n>>6&0x3F])
		sb.WriteByte(base64URLAlphabet[n&0x3F])
	}

	switch rem := len(data) % 3; rem {
	case 1:
		n := uint32(data[len(data)-1])
		sb.WriteByte(base64URLAlphabet[n>>2])
		sb.WriteByte(base64URLAlphabet[n<<4&0x3F])
	case 2:
		n := uint32(data[len(data)-2])<<8 | uint32(data[len(data)-1])
		sb.WriteByte(base64URLAlphabet[n>>10])
		sb.WriteByte(base64URLAlphabet[n>>4&0x3F])
		sb.WriteByte(base64URLAlphabet[n<<2&0x3F])
	}

	return sb.String()
}

// decodeBase64URL decodes unpadded base64url. It rejects padding characters,
// bytes outside the alphabet, impossible lengths, and non-zero trailing bits,
// so every byte sequence has exactly one accepted encoding.
func decodeBase64URL(s string) ([]byte, error) {
	if len(s)%4 == 1 {
		return nil, ErrTokenInvalid
	}

	out := make([]byte, 0, len(s)*6/8)
	var buf uint32
	var bits uint

	for i := 0; i < len(s); i++ {
		v := base64URLReverse[s[i]]
		if v == 0xFF {
			return nil, ErrTokenInvalid
		}
		buf = buf<<6 | uint32(v)
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
		}
	}

	// Leftover bits are encoding slack and must be zero.
	if buf&(1<<bits-1) != 0 {
		return nil, ErrTokenInvalid
	}

	return out, nil
}
