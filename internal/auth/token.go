// Package auth provides session tokens, password hashing, and permission
// predicates for the catalog.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenMaxAge is the fixed lifetime of a session token. Expiry is enforced
// by the token itself, independent of the session store.
const TokenMaxAge = time.Hour

var (
	// ErrTokenExpired indicates the token's signed timestamp is older than
	// TokenMaxAge.
	ErrTokenExpired = errors.New("session token expired")
	// ErrTokenInvalid indicates a missing, malformed, or badly signed token.
	ErrTokenInvalid = errors.New("session token invalid")
)

// CreateToken signs an opaque session token encoding (subject, issued-at).
func CreateToken(secret string, userID uint32) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenMaxAge)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken verifies the token's signature and max age, returning the
// subject user ID. Both the signed expiry and the issued-at age are checked
// so a token never outlives TokenMaxAge.
func ValidateToken(secret, tokenString string) (uint32, error) {
	if tokenString == "" {
		return 0, ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > TokenMaxAge {
		return 0, ErrTokenExpired
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return uint32(userID), nil
}
