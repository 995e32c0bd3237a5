package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenRevoked(t *testing.T) {
	var logout int64 = 1_700_000_000

	assert.True(t, tokenRevoked(logout-1, logout))
	assert.False(t, tokenRevoked(logout+1, logout))

	// logout and re-login inside the same second: the new token works
	assert.False(t, tokenRevoked(logout, logout))
}
