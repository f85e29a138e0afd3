package helpers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the acting user's id as the string claim "Id".
type Claims struct {
	ID       string `json:"Id"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the Id claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.ID, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad Id claim %q", ErrInvalidToken, c.ID)
	}
	return id, nil
}

// Tokens issues HS256 session tokens and validates them. When a JWKS is attached,
// tokens signed by that key set are accepted too, provided they carry its issuer.
type Tokens struct {
	secret     []byte
	expiry     time.Duration
	issuer     string
	jwks       *keyfunc.JWKS
	jwksIssuer string
}

func NewTokens(secret []byte, expiry time.Duration, issuer string) *Tokens {
	return &Tokens{
		secret: secret,
		expiry: expiry,
		issuer: issuer,
	}
}

// WithJWKS fetches the key set at url once and keeps it refreshed in the background.
// Tokens verified against it must have issuer as their iss claim.
func (t *Tokens) WithJWKS(ctx context.Context, url, issuer string) error {
	if issuer == "" {
		return errors.New("an issuer is required for JWKS tokens")
	}
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return fmt.Errorf("failed to load JWKS from %s: %w", url, err)
	}
	t.useKeySet(jwks, issuer)
	return nil
}

func (t *Tokens) useKeySet(jwks *keyfunc.JWKS, issuer string) {
	t.jwks = jwks
	t.jwksIssuer = issuer
}

func (t *Tokens) Close() {
	if t.jwks != nil {
		t.jwks.EndBackground()
	}
}

func (t *Tokens) Generate(id int64, email, fullName string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(t.expiry)
	claims := Claims{
		ID:       strconv.FormatInt(id, 10),
		Email:    email,
		FullName: fullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

func (t *Tokens) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, t.keyfunc, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	expected := t.issuer
	if _, hmac := token.Method.(*jwt.SigningMethodHMAC); !hmac {
		expected = t.jwksIssuer
	}
	if claims.Issuer != expected {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *Tokens) keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return t.secret, nil
	}
	if t.jwks != nil {
		return t.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
}
