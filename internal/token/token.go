// Package token builds and verifies the signed bearer credential
// issued on login. Tokens are stateless: validity is a matter of
// signature and expiry alone, no session table exists.
package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"acervo.dev/internal/identity"
)

// DefaultTTL is the expiry horizon applied when none is configured.
const DefaultTTL = 24 * time.Hour

var (
	// ErrNilIdentity signals a caller contract violation: issuance for
	// an absent identity is a programming error, not a user condition.
	ErrNilIdentity = errors.New("token: identity is required")
	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("token: invalid token")
)

// Claims are the assertions embedded in every issued token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs tokens with a symmetric key held immutable for the
// process lifetime. Key compromise invalidates all outstanding tokens;
// that is an accepted operational constraint.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

var _ identity.TokenIssuer = (*Issuer)(nil)

// Option configures Issuer behavior.
type Option func(*Issuer)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(i *Issuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewIssuer constructs an Issuer for the given signing key, issuer
// string and audience string.
func NewIssuer(secret, issuerName, audience string, opts ...Option) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if strings.TrimSpace(issuerName) == "" || strings.TrimSpace(audience) == "" {
		return nil, errors.New("token: issuer and audience are required")
	}
	iss := &Issuer{
		secret:   []byte(secret),
		issuer:   issuerName,
		audience: audience,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss, nil
}

// Issue signs a token carrying the user's id, name and email, expiring
// ttl after issuance. The jti claim embeds per-token randomness, so
// two tokens for the same user differ even within one clock tick.
func (i *Issuer) Issue(u *identity.User) (string, error) {
	if u == nil {
		return "", ErrNilIdentity
	}
	now := i.now().UTC()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate verifies signature, issuer, audience and expiry. Any
// mismatch or parse failure yields ErrInvalidToken, never a panic.
func (i *Issuer) Validate(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Valid reports whether the token passes Validate.
func (i *Issuer) Valid(raw string) bool {
	_, err := i.Validate(raw)
	return err == nil
}
