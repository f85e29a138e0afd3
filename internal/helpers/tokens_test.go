package helpers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-0123456789")

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour, "tampabay")

	signed, expires, err := tokens.Generate(7, "ann@example.com", "Ann Example")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.ID)
	assert.Equal(t, "ann@example.com", claims.Email)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens(testSecret, -time.Minute, "tampabay")
	signed, _, err := tokens.Generate(7, "ann@example.com", "Ann")
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectWrongSecret(t *testing.T) {
	other := NewTokens([]byte("another-secret-987654"), time.Hour, "tampabay")
	signed, _, err := other.Generate(7, "ann@example.com", "Ann")
	require.NoError(t, err)

	_, err = NewTokens(testSecret, time.Hour, "tampabay").Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectNonNumericID(t *testing.T) {
	claims := Claims{
		ID: "seven",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tampabay",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewTokens(testSecret, time.Hour, "tampabay").Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectOtherHMACAlgorithms(t *testing.T) {
	claims := Claims{
		ID: "7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewTokens(testSecret, time.Hour, "tampabay").Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectGarbage(t *testing.T) {
	_, err := NewTokens(testSecret, time.Hour, "tampabay").Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func signedWithIssuer(t *testing.T, method jwt.SigningMethod, key interface{}, issuer string) string {
	t.Helper()
	claims := Claims{
		ID: "7",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(method, claims)
	token.Header["kid"] = "idp"
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestTokensCheckIssuer(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tokens := NewTokens(testSecret, time.Hour, "tampabay")
	tokens.useKeySet(keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		"idp": keyfunc.NewGivenRSA(&rsaKey.PublicKey, keyfunc.GivenKeyOptions{Algorithm: "RS256"}),
	}), "https://idp.example.com/")

	tests := []struct {
		name   string
		signed string
		ok     bool
	}{
		{"local token with local issuer", signedWithIssuer(t, jwt.SigningMethodHS256, testSecret, "tampabay"), true},
		{"local token with foreign issuer", signedWithIssuer(t, jwt.SigningMethodHS256, testSecret, "someone-else"), false},
		{"local token without issuer", signedWithIssuer(t, jwt.SigningMethodHS256, testSecret, ""), false},
		{"key set token with its issuer", signedWithIssuer(t, jwt.SigningMethodRS256, rsaKey, "https://idp.example.com/"), true},
		{"key set token with foreign issuer", signedWithIssuer(t, jwt.SigningMethodRS256, rsaKey, "https://evil.example.com/"), false},
		{"key set token claiming the local issuer", signedWithIssuer(t, jwt.SigningMethodRS256, rsaKey, "tampabay"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tokens.Validate(tt.signed)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "7", claims.ID)
		})
	}
}

func TestWithJWKSRequiresIssuer(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour, "tampabay")
	assert.Error(t, tokens.WithJWKS(context.Background(), "https://idp.example.com/.well-known/jwks.json", ""))
}
