package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", ""))
}

func TestHashPasswordTooManyBytes(t *testing.T) {
	// 40 characters, 80 bytes
	_, err := HashPassword(strings.Repeat("é", 40), bcrypt.MinCost)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "validation failed: password too long", err.Error())

	_, err = HashPassword(strings.Repeat("a", 72), bcrypt.MinCost)
	require.NoError(t, err)
}
