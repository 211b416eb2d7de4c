package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openhire/jobboard/pkg/idx"
)

// Default token TTLs. Access tokens are short-lived, refresh tokens bound
// the maximum session length.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Verification failures. The authentication guard reacts differently to
// each: expired tokens are renewable via the refresh cookie, the other two
// are treated as tampering.
var (
	ErrExpired          = errors.New("tokenx: token expired")
	ErrMalformed        = errors.New("tokenx: token malformed")
	ErrSignatureInvalid = errors.New("tokenx: token signature invalid")
)

// Identity is the authenticated subject embedded in every token. It is
// produced once at credential verification time and carried unchanged
// through renewals.
type Identity struct {
	UserID string
	Role   string
	Email  string
}

// Claims is the signed claim set for both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// Codec signs and verifies HS256 tokens. It is agnostic about token kind:
// the caller supplies whichever secret and TTL the access or refresh
// convention demands, and a token signed with one secret never verifies
// under another.
type Codec struct {
	Issuer string
}

// Issue serializes the identity plus issued-at/expiry and signs it with
// the given secret.
func (c *Codec) Issue(id Identity, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.Issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Role:  id.Role,
		Email: id.Email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks the signature and validity window of a token and returns
// the embedded identity. Failures map onto the three-way taxonomy:
// ErrExpired for well-formed but stale tokens, ErrSignatureInvalid for
// wrong-secret or wrong-algorithm tokens, ErrMalformed for everything
// that never was a valid token.
func (c *Codec) Verify(raw string, secret []byte) (Identity, error) {
	var claims Claims

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if c.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.Issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrExpired
		default:
			return Identity{}, ErrMalformed
		}
	}

	return Identity{
		UserID: claims.Subject,
		Role:   claims.Role,
		Email:  claims.Email,
	}, nil
}
