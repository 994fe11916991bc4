package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u, pair := env.register(t, "Ana@Example.com ")

	assert.Equal(t, "ana@example.com", u.Email)
	assert.NotEqual(t, "Secret123!", u.Password)
	cred, err := env.store.Credentials.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.Refresh, cred.RefreshToken)

	_, _, err = env.auth.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "x"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, _, err = env.auth.Login(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = env.auth.Login(ctx, "nobody@example.com", "Secret123!")
	require.ErrorIs(t, err, ErrBadCredentials)
	assert.Equal(t, "email or password are incorrect", apperr.Message(err))

	got, next, err := env.auth.Login(ctx, "ana@example.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	cred, err = env.store.Credentials.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, next.Refresh, cred.RefreshToken)
}

func resetToken(t *testing.T, env *testEnv) string {
	t.Helper()
	require.NotEmpty(t, env.email.sent)
	body := env.email.sent[len(env.email.sent)-1].HTMLBody
	const marker = "https://app.test/reset_password/"
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0)
	rest := body[i+len(marker):]
	return rest[:strings.IndexByte(rest, '"')]
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.register(t, "ana@example.com")

	require.ErrorIs(t, env.auth.ForgotPassword(ctx, "nobody@example.com"), apperr.ErrNotFound)

	require.NoError(t, env.auth.ForgotPassword(ctx, "ana@example.com"))
	require.Len(t, env.email.sent, 1)
	assert.Equal(t, "ana@example.com", env.email.sent[0].To)
	token := resetToken(t, env)

	require.ErrorIs(t, env.auth.ResetPassword(ctx, "garbage", "NewSecret1!"), apperr.ErrUnauthorized)

	require.NoError(t, env.auth.ResetPassword(ctx, token, "NewSecret1!"))
	_, _, err := env.auth.Login(ctx, "ana@example.com", "NewSecret1!")
	require.NoError(t, err)

	// the token is single use
	require.ErrorIs(t, env.auth.ResetPassword(ctx, token, "Other1!"), apperr.ErrUnauthorized)
}

func TestResetPasswordExpires(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	env.register(t, "ana@example.com")

	require.NoError(t, env.auth.ForgotPassword(ctx, "ana@example.com"))
	token := resetToken(t, env)

	env.clock.Advance(10*time.Minute + time.Second)
	err := env.auth.ResetPassword(ctx, token, "NewSecret1!")
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, _, err = env.auth.Login(ctx, "ana@example.com", "Secret123!")
	require.NoError(t, err)
}

func TestLoginGoogleCreatesOnce(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	p := GoogleProfile{Email: "g@example.com", VerifiedEmail: true, Name: "Gina G", GivenName: "Gina", FamilyName: "G"}

	u, pair, err := env.auth.LoginGoogle(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Gina G", u.Username)
	assert.Equal(t, model.DefaultProfilePhotoID, u.PublicIDProfilePhoto)
	assert.NotEmpty(t, pair.Refresh)

	again, _, err := env.auth.LoginGoogle(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)

	// no local password: password login never matches
	_, _, err = env.auth.Login(ctx, "g@example.com", "")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateProfileReplacesPhoto(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u, _ := env.register(t, "ana@example.com")

	theme := "dark"
	got, err := env.auth.UpdateProfile(ctx, u.ID, ProfileUpdate{Theme: &theme}, upload("first"))
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "img-1", got.PublicIDProfilePhoto)
	// the default photo is never purged
	assert.Empty(t, env.images.deleted)

	got, err = env.auth.UpdateProfile(ctx, u.ID, ProfileUpdate{}, upload("second"))
	require.NoError(t, err)
	assert.Equal(t, "img-2", got.PublicIDProfilePhoto)
	assert.Equal(t, []string{"img-1"}, env.images.deleted)

	stored, err := env.store.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/img-2", stored.URLProfilePhoto)
	assert.Equal(t, "dark", stored.Theme)
}

func TestPasswordOverBcryptLimitIsValidation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	long := strings.Repeat("é", 40)

	_, _, err := env.auth.Register(ctx, RegisterInput{Email: "long@example.com", Password: long, Name: "Ana"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "validation failed: password too long", apperr.Message(err))
	_, err = env.store.Users.GetByEmail(ctx, "long@example.com")
	require.Error(t, err)

	env.register(t, "ana@example.com")
	require.NoError(t, env.auth.ForgotPassword(ctx, "ana@example.com"))
	token := resetToken(t, env)

	err = env.auth.ResetPassword(ctx, token, long)
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, _, err = env.auth.Login(ctx, "ana@example.com", "Secret123!")
	require.NoError(t, err)
	// the failed attempt leaves the token usable
	require.NoError(t, env.auth.ResetPassword(ctx, token, "NewSecret1!"))
}

func TestLoginGoogleRejectsUnverifiedEmail(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u, pair := env.register(t, "ana@example.com")

	_, _, err := env.auth.LoginGoogle(ctx, GoogleProfile{Email: "ana@example.com", Name: "Mallory"})
	require.ErrorIs(t, err, ErrGoogleEmailUnverified)
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))

	cred, err := env.store.Credentials.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.Refresh, cred.RefreshToken)

	_, _, err = env.auth.LoginGoogle(ctx, GoogleProfile{Email: "new@example.com"})
	require.ErrorIs(t, err, ErrGoogleEmailUnverified)
	_, err = env.store.Users.GetByEmail(ctx, "new@example.com")
	require.Error(t, err)
}
