package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

type RepetitionSetRepo struct{ db DBTX }

func NewRepetitionSetRepo(db DBTX) *RepetitionSetRepo { return &RepetitionSetRepo{db: db} }

func (r *RepetitionSetRepo) Create(ctx context.Context, s model.RepetitionSet) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO repetition_sets (id_user, id_exercise, id_set, repetition) VALUES (?,?,?,?)",
		s.UserID, s.ExerciseID, s.SetID, s.Repetition)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *RepetitionSetRepo) Find(ctx context.Context, userID, exerciseID, setID uint64) (model.RepetitionSet, bool, error) {
	s := model.RepetitionSet{UserID: userID, ExerciseID: exerciseID, SetID: setID}
	err := r.db.QueryRowContext(ctx,
		"SELECT repetition FROM repetition_sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?",
		userID, exerciseID, setID).Scan(&s.Repetition)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RepetitionSet{}, false, nil
	}
	if err != nil {
		return model.RepetitionSet{}, false, err
	}
	return s, true, nil
}

func (r *RepetitionSetRepo) Update(ctx context.Context, s model.RepetitionSet) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE repetition_sets SET repetition = ? WHERE id_user = ? AND id_exercise = ? AND id_set = ?",
		s.Repetition, s.UserID, s.ExerciseID, s.SetID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSetNotFound)
}

func (r *RepetitionSetRepo) Delete(ctx context.Context, userID, exerciseID, setID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM repetition_sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?", userID, exerciseID, setID))
}

func (r *RepetitionSetRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM repetition_sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *RepetitionSetRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM repetition_sets WHERE id_user = ?", userID))
}

func (r *RepetitionSetRepo) CountByExercise(ctx context.Context, userID, exerciseID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM repetition_sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID).Scan(&n)
	return n, err
}
