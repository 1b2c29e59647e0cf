package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestCreateAndValidateToken(t *testing.T) {
	token, err := CreateToken(testSecret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := CreateToken(testSecret, 42)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenMalformed(t *testing.T) {
	_, err := ValidateToken(testSecret, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateToken(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestValidateTokenExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(TokenMaxAge)),
	})

	_, err := ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenStaleIssuedAt(t *testing.T) {
	// A forged long expiry does not stretch the session past TokenMaxAge.
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-90 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})

	_, err := ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenMissingIssuedAt(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenMaxAge)),
	})

	_, err := ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenBadSubject(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "not-a-number",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenMaxAge)),
	})

	_, err := ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenSubjectRoundTrip(t *testing.T) {
	for _, id := range []uint32{1, 77, 4294967295} {
		token, err := CreateToken(testSecret, id)
		require.NoError(t, err)

		got, err := ValidateToken(testSecret, token)
		require.NoError(t, err, strconv.FormatUint(uint64(id), 10))
		assert.Equal(t, id, got)
	}
}
