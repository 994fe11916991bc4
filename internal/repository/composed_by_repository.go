package repository

import (
	"context"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// ComposedByRepo maintains which exercises make up a routine and in what order.
type ComposedByRepo struct{ db DBTX }

func NewComposedByRepo(db DBTX) *ComposedByRepo { return &ComposedByRepo{db: db} }

func (r *ComposedByRepo) Create(ctx context.Context, c model.ComposedBy) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO composed_by (id_user, id_exercise, id_routine, exercise_order) VALUES (?,?,?,?)",
		c.UserID, c.ExerciseID, c.RoutineID, c.ExerciseOrder)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *ComposedByRepo) UpdateOrder(ctx context.Context, c model.ComposedBy) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE composed_by SET exercise_order = ? WHERE id_user = ? AND id_exercise = ? AND id_routine = ?",
		c.ExerciseOrder, c.UserID, c.ExerciseID, c.RoutineID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrLinkNotFound)
}

func (r *ComposedByRepo) Delete(ctx context.Context, userID, routineID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM composed_by WHERE id_user = ? AND id_routine = ? AND id_exercise = ?", userID, routineID, exerciseID))
}

func (r *ComposedByRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM composed_by WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *ComposedByRepo) DeleteByRoutine(ctx context.Context, userID, routineID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM composed_by WHERE id_user = ? AND id_routine = ?", userID, routineID))
}

func (r *ComposedByRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM composed_by WHERE id_user = ?", userID))
}

// CountByExercise is the number of routines the exercise appears in.
func (r *ComposedByRepo) CountByExercise(ctx context.Context, userID, exerciseID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM composed_by WHERE id_user = ? AND id_exercise = ?", userID, exerciseID).Scan(&n)
	return n, err
}
