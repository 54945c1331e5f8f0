package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTokenValue(t *testing.T) {
	v1, err := NewTokenValue()
	assert.NoError(t, err)
	assert.Len(t, v1, 64)

	v2, err := NewTokenValue()
	assert.NoError(t, err)
	assert.NotEqual(t, v1, v2, "two mints must not collide")
}

func TestExpiryWindows(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(24*time.Hour), VerificationTokenExpiry(now))
	assert.Equal(t, now.Add(1*time.Hour), ResetTokenExpiry(now))
}
