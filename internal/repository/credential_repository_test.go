package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/database/dbtest"
	"github.com/iliyamo/myroutine-backend/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRotateRefreshIsConditional(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCredentialRepo(db)

	mock.ExpectExec(`UPDATE auth SET refresh_token = \? WHERE id_user = \? AND refresh_token = \?`).
		WithArgs("new", 3, "old").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RotateRefresh(context.Background(), 3, "old", "new")
	require.ErrorIs(t, err, ErrStaleRefresh)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repos := NewRepos(db)

	u := &model.User{Email: "ana@example.com", Password: "x"}
	require.NoError(t, repos.Users.Create(ctx, u))

	_, err := repos.Credentials.GetByUser(ctx, u.ID)
	require.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, repos.Credentials.Create(ctx, model.Credential{UserID: u.ID, RefreshToken: "r1"}))
	require.ErrorIs(t, repos.Credentials.Create(ctx, model.Credential{UserID: u.ID}), ErrDuplicate)

	require.NoError(t, repos.Credentials.RotateRefresh(ctx, u.ID, "r1", "r2"))
	// a second rotation from the same old value loses
	require.ErrorIs(t, repos.Credentials.RotateRefresh(ctx, u.ID, "r1", "r3"), ErrStaleRefresh)

	c, err := repos.Credentials.GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "r2", c.RefreshToken)
	assert.Empty(t, c.ResetToken)
	assert.Nil(t, c.ResetExpiration)

	n, err := repos.Credentials.DeleteByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
