package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*TokenService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewTokenService(config.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     2 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      10 * time.Minute,
	})
	s.Now = clock.Now
	return s, clock
}

func TestIssueAndVerify(t *testing.T) {
	s, clock := newTestService(t)

	pair, err := s.Issue(42)
	require.NoError(t, err)

	access, err := s.Verify(pair.Access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), access.UserID)

	refresh, err := s.Verify(pair.Refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), refresh.UserID)
	assert.True(t, access.ExpiresAt.Time.Equal(clock.now.Add(2*time.Minute)))
	assert.True(t, refresh.ExpiresAt.Time.Equal(clock.now.Add(7*24*time.Hour)))
	assert.NotEmpty(t, access.ID)
}

func TestAccessExpiresAfterTTL(t *testing.T) {
	s, clock := newTestService(t)

	pair, err := s.Issue(1)
	require.NoError(t, err)

	clock.Advance(119 * time.Second)
	_, err = s.Verify(pair.Access, AccessToken)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = s.Verify(pair.Access, AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	// the refresh token of the same pair is still good
	_, err = s.Verify(pair.Refresh, RefreshToken)
	require.NoError(t, err)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	s, _ := newTestService(t)
	pair, err := s.Issue(7)
	require.NoError(t, err)

	_, err = s.Verify(pair.Access, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Verify(pair.Refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedAndForeignTokens(t *testing.T) {
	s, _ := newTestService(t)
	pair, err := s.Issue(7)
	require.NoError(t, err)

	parts := strings.Split(pair.Access, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = s.Verify(tampered, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Verify("not-a-jwt", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPairsAreUnique(t *testing.T) {
	s, _ := newTestService(t)

	a, err := s.Issue(9)
	require.NoError(t, err)
	b, err := s.Issue(9)
	require.NoError(t, err)

	assert.NotEqual(t, a.Access, b.Access)
	assert.NotEqual(t, a.Refresh, b.Refresh)
}

func TestResetTokenHasNoExpClaim(t *testing.T) {
	s, clock := newTestService(t)

	reset, err := s.IssueReset(5)
	require.NoError(t, err)
	assert.Equal(t, clock.now.Add(10*time.Minute), reset.ExpiresAt)

	clock.Advance(24 * time.Hour)
	claims, err := s.Verify(reset.Token, ResetToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), claims.UserID)
	assert.Nil(t, claims.ExpiresAt)

	_, err = s.Verify(reset.Token, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}
