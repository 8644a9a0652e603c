package security

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	secret, err := DecodeSecret(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	require.NoError(t, err)

	token, err := CreateAdminToken("ops", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ParseAdminToken(token, []byte("another secret"))
	assert.Error(t, err)
}

func TestParseAdminTokenRejects(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	expired, err := CreateAdminToken("ops", secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken(expired, secret)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Audience:  []string{Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseAdminToken(signed, secret)
	assert.Error(t, err)

	_, err = DecodeSecret("not base64!")
	assert.Error(t, err)
	_, err = DecodeSecret("")
	assert.Error(t, err)
}
