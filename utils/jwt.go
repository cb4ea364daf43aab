package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken        = errors.New("token is invalid or expired")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid")
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// accessTTL reads JWT_ACCESS_TTL in minutes, default 15.
func accessTTL() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL")); err == nil && v > 0 {
		return time.Duration(v) * time.Minute
	}
	return 15 * time.Minute
}

// refreshTTL reads JWT_REFRESH_TTL in days, default 7.
func refreshTTL() time.Duration {
	if v, err := strconv.Atoi(os.Getenv("JWT_REFRESH_TTL")); err == nil && v > 0 {
		return time.Duration(v) * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

// GenerateToken issues a short-lived access token carrying user id and role.
func GenerateToken(userID, role string) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTTL())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateRefreshToken issues a longer-lived token bound to the user id only.
func GenerateRefreshToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshTTL())),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateTokenPair issues both tokens for a login/signup response.
func GenerateTokenPair(userID, role string) (access string, refresh string, err error) {
	access, err = GenerateToken(userID, role)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken returns the subject user id of a valid refresh token.
func VerifyRefreshToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidRefreshToken
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidRefreshToken
	}
	return claims.Subject, nil
}
