package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	JwtKey = []byte("test-secret")

	token, err := GenerateJWT("abc123", "asha@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.UID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotZero(t, claims.IssuedAt)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestParseJWTRejectsWrongKey(t *testing.T) {
	JwtKey = []byte("key-one")
	token, err := GenerateJWT("abc123", "asha@example.com", "admin")
	require.NoError(t, err)

	JwtKey = []byte("key-two")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	JwtKey = []byte("test-secret")
	_, err := ParseJWT("not.a.token")
	assert.Error(t, err)
}
