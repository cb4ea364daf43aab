package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("user-123", "admin")
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken("user-123", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := Claims{
		UserID: "user-123",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = VerifyToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	refresh, err := GenerateRefreshToken("user-123")
	require.NoError(t, err)

	subject, err := VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestVerifyRefreshToken_Invalid(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := VerifyRefreshToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestGenerateTokenPair(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	access, refresh, err := GenerateTokenPair("user-123", "user")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := VerifyToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)

	subject, err := VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}
