package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		otp := GenerateOTP()
		assert.Regexp(t, pattern, otp)
		seen[otp] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}
