package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"roundtracker/backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSubject = errors.New("token subject is not a user id")

// GenerateToken creates a new JWT for a given user ID. Production tokens come
// from the identity provider; this mints the same shape for local use and tests.
func GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour * 24 * 7).Unix(), // Token expires in 7 days
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ParseToken verifies an HS256 token and returns the user id in its subject.
// The subject may be a JSON number or a numeric string.
func ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}

	switch sub := claims["sub"].(type) {
	case float64:
		if sub < 1 || sub != float64(uint(sub)) {
			return 0, ErrInvalidSubject
		}
		return uint(sub), nil
	case string:
		id, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || id == 0 {
			return 0, ErrInvalidSubject
		}
		return uint(id), nil
	}
	return 0, ErrInvalidSubject
}
