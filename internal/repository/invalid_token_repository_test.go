package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/database/dbtest"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

func TestRecordStoresHashOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInvalidTokenRepo(db)

	mock.ExpectExec(`INSERT INTO invalid_tokens`).
		WithArgs(3, utils.HashToken("raw.jwt.value"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Record(context.Background(), 3, "raw.jwt.value", time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repos := NewRepos(db)

	u := &model.User{Email: "ledger@example.com"}
	require.NoError(t, repos.Users.Create(ctx, u))

	old := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, repos.InvalidTokens.Record(ctx, u.ID, "old-token", old))
	require.NoError(t, repos.InvalidTokens.Record(ctx, u.ID, "fresh-token", time.Now()))
	require.ErrorIs(t, repos.InvalidTokens.Record(ctx, u.ID, "fresh-token", time.Now()), ErrDuplicate)

	ok, err := repos.InvalidTokens.Contains(ctx, "fresh-token")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.InvalidTokens.Contains(ctx, "never-seen")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repos.InvalidTokens.PurgeOlderThan(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err = repos.InvalidTokens.Contains(ctx, "old-token")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err = repos.InvalidTokens.DeleteByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
