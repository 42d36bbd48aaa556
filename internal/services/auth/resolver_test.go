package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestResolveValidToken(t *testing.T) {
	r := NewJWTResolver(testSecret)
	token := signToken(t, testSecret, arenaClaims{
		Username: "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	identity, err := r.Resolve(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.Equal(t, "Alice", identity.Username)
}

func TestResolveWrongSecret(t *testing.T) {
	r := NewJWTResolver(testSecret)
	token := signToken(t, "outro-segredo", arenaClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})

	_, err := r.Resolve(token)
	assert.Error(t, err)
}

func TestResolveExpiredToken(t *testing.T) {
	r := NewJWTResolver(testSecret)
	token := signToken(t, testSecret, arenaClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := r.Resolve(token)
	assert.Error(t, err)
}

func TestResolveTokenWithoutSubject(t *testing.T) {
	r := NewJWTResolver(testSecret)
	token := signToken(t, testSecret, arenaClaims{Username: "Alice"})

	_, err := r.Resolve(token)
	assert.Error(t, err)
}

func TestResolveGarbage(t *testing.T) {
	r := NewJWTResolver(testSecret)
	_, err := r.Resolve("isto-não-é-um-jwt")
	assert.Error(t, err)
}
