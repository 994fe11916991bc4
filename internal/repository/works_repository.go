package repository

import (
	"context"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// WorksRepo links exercises to the muscle groups they train.
type WorksRepo struct{ db DBTX }

func NewWorksRepo(db DBTX) *WorksRepo { return &WorksRepo{db: db} }

func (r *WorksRepo) Create(ctx context.Context, w model.Works) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO works (id_user, id_exercise, id_muscle_group) VALUES (?,?,?)",
		w.UserID, w.ExerciseID, w.MuscleGroupID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// ListByExercise returns the muscle groups an exercise works.
func (r *WorksRepo) ListByExercise(ctx context.Context, userID, exerciseID uint64) ([]model.MuscleGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id_muscle_group, m.name FROM works w
		 JOIN muscle_groups m ON m.id_muscle_group = w.id_muscle_group
		 WHERE w.id_user = ? AND w.id_exercise = ? ORDER BY m.id_muscle_group`, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MuscleGroup{}
	for rows.Next() {
		var mg model.MuscleGroup
		if err := rows.Scan(&mg.ID, &mg.Name); err != nil {
			return nil, err
		}
		out = append(out, mg)
	}
	return out, rows.Err()
}

func (r *WorksRepo) Delete(ctx context.Context, w model.Works) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM works WHERE id_user = ? AND id_exercise = ? AND id_muscle_group = ?",
		w.UserID, w.ExerciseID, w.MuscleGroupID))
}

func (r *WorksRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM works WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *WorksRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM works WHERE id_user = ?", userID))
}

func (r *WorksRepo) CountByExercise(ctx context.Context, userID, exerciseID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM works WHERE id_user = ? AND id_exercise = ?", userID, exerciseID).Scan(&n)
	return n, err
}
