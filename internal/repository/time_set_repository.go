package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

type TimeSetRepo struct{ db DBTX }

func NewTimeSetRepo(db DBTX) *TimeSetRepo { return &TimeSetRepo{db: db} }

func (r *TimeSetRepo) Create(ctx context.Context, t model.TimeSet) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO time_sets (id_user, id_exercise, id_set, time) VALUES (?,?,?,?)",
		t.UserID, t.ExerciseID, t.SetID, t.Time)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Find reports whether the set has a time row and returns it.
func (r *TimeSetRepo) Find(ctx context.Context, userID, exerciseID, setID uint64) (model.TimeSet, bool, error) {
	t := model.TimeSet{UserID: userID, ExerciseID: exerciseID, SetID: setID}
	err := r.db.QueryRowContext(ctx,
		"SELECT time FROM time_sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?",
		userID, exerciseID, setID).Scan(&t.Time)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TimeSet{}, false, nil
	}
	if err != nil {
		return model.TimeSet{}, false, err
	}
	return t, true, nil
}

func (r *TimeSetRepo) Update(ctx context.Context, t model.TimeSet) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE time_sets SET time = ? WHERE id_user = ? AND id_exercise = ? AND id_set = ?",
		t.Time, t.UserID, t.ExerciseID, t.SetID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSetNotFound)
}

func (r *TimeSetRepo) Delete(ctx context.Context, userID, exerciseID, setID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM time_sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?", userID, exerciseID, setID))
}

func (r *TimeSetRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM time_sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *TimeSetRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM time_sets WHERE id_user = ?", userID))
}

func (r *TimeSetRepo) CountByExercise(ctx context.Context, userID, exerciseID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM time_sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID).Scan(&n)
	return n, err
}
