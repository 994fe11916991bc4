package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/database/dbtest"
	"github.com/iliyamo/myroutine-backend/internal/model"
)

func TestSetDetailsJoinQuantities(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	r := NewRepos(db)

	uid := seedUser(t, r, "sets@example.com")
	ex := seedExercise(t, r, uid, "plank", 1, false)

	id1, err := r.Sets.NextID(ctx, uid, ex)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id1)
	require.NoError(t, r.Sets.Create(ctx, model.Set{UserID: uid, ExerciseID: ex, ID: id1, SetOrder: 2}))
	require.NoError(t, r.TimeSets.Create(ctx, model.TimeSet{UserID: uid, ExerciseID: ex, SetID: id1, Time: "00:45"}))

	id2, err := r.Sets.NextID(ctx, uid, ex)
	require.NoError(t, err)
	assert.EqualValues(t, 2, id2)
	require.NoError(t, r.Sets.Create(ctx, model.Set{UserID: uid, ExerciseID: ex, ID: id2, SetOrder: 1, Weight: 10}))
	require.NoError(t, r.RepetitionSets.Create(ctx, model.RepetitionSet{UserID: uid, ExerciseID: ex, SetID: id2, Repetition: 12}))

	details, err := r.Sets.ListDetails(ctx, uid, ex)
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, model.SetTypeRepetition, details[0].Type)
	require.NotNil(t, details[0].Repetition)
	assert.Equal(t, 12, *details[0].Repetition)

	assert.Equal(t, model.SetTypeTime, details[1].Type)
	require.NotNil(t, details[1].Time)
	assert.Equal(t, "00:45", *details[1].Time)

	n, err := r.TimeSets.CountByExercise(ctx, uid, ex)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, found, err := r.TimeSets.Find(ctx, uid, ex, id2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreInTxRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	store := NewStore(db)

	uid := seedUser(t, store.Repos, "tx@example.com")

	boom := errors.New("boom")
	err := store.InTx(ctx, func(r *Repos) error {
		e := &model.Exercise{UserID: uid, Name: "ghost"}
		if err := r.Exercises.Create(ctx, e); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, dbtest.Count(t, db, "exercises", ""))

	err = store.InTx(ctx, func(r *Repos) error {
		return r.Exercises.Create(ctx, &model.Exercise{UserID: uid, Name: "real"})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, dbtest.Count(t, db, "exercises", ""))
}
