package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Hammadtanveer/campus-connect-sub000/internal/access"
)

const defaultIssuer = "campus-connect"

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("identity: invalid token")

// Claims are the identity-provider assertions carried in a signed token.
// Roles is deliberately untyped: providers have shipped it both as a list
// and as a comma-delimited string, and a wrong shape must degrade to "no
// roles" downstream rather than failing sign-in.
type Claims struct {
	Admin bool `json:"admin,omitempty"`
	Roles any  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// AccessClaims converts verified token claims into the payload the access
// engine's reconciler consumes.
func (c *Claims) AccessClaims() access.TokenClaims {
	return access.TokenClaims{Admin: c.Admin, Roles: c.Roles}
}

// Verifier signs and validates identity tokens with HS256.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithIssuer overrides the expected issuer claim.
func WithIssuer(issuer string) VerifierOption {
	return func(v *Verifier) {
		if trimmed := strings.TrimSpace(issuer); trimmed != "" {
			v.issuer = trimmed
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if fn != nil {
			v.now = fn
		}
	}
}

// NewVerifier constructs a Verifier from the shared signing secret.
func NewVerifier(secret string, opts ...VerifierOption) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("identity: signing secret is required")
	}
	v := &Verifier{
		secret: []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// GenerateToken signs a token for the given account. Used by the local
// development flow and by tests; production tokens come from the identity
// provider with the same shape.
func (v *Verifier) GenerateToken(accountID string, admin bool, roles []string, ttl time.Duration) (string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", errors.New("identity: account id is required")
	}
	if ttl <= 0 {
		return "", errors.New("identity: ttl must be greater than zero")
	}
	now := v.now().UTC()
	claims := Claims{
		Admin: admin,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}

// ParseAndValidate verifies the token signature and required claims.
func (v *Verifier) ParseAndValidate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := v.validateClaims(claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) validateClaims(claims *Claims) error {
	if claims.Issuer != v.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errors.New("subject missing")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	now := v.now().UTC()
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	return nil
}
