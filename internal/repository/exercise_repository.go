package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
)

type ExerciseRepo struct{ db DBTX }

func NewExerciseRepo(db DBTX) *ExerciseRepo { return &ExerciseRepo{db: db} }

const exerciseColumns = "id_exercise, id_user, exercise_name, description, time_after_exercise, intensity, is_favorite, created_at"

var exerciseSorts = map[string]string{
	"exercise_name": "exercise_name",
	"created_at":    "created_at",
	"intensity":     "intensity",
}

func (r *ExerciseRepo) Create(ctx context.Context, e *model.Exercise) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO exercises (id_user, exercise_name, description, time_after_exercise, intensity, is_favorite, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		e.UserID, e.Name, e.Description, e.TimeAfterExercise, e.Intensity, e.IsFavorite, e.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Get returns the exercise only if it belongs to userID.
func (r *ExerciseRepo) Get(ctx context.Context, userID, id uint64) (model.Exercise, error) {
	e, err := scanExercise(r.db.QueryRowContext(ctx,
		"SELECT "+exerciseColumns+" FROM exercises WHERE id_user = ? AND id_exercise = ?", userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, ErrExerciseNotFound
	}
	return e, err
}

func (r *ExerciseRepo) Last(ctx context.Context, userID uint64) (model.Exercise, error) {
	e, err := scanExercise(r.db.QueryRowContext(ctx,
		"SELECT "+exerciseColumns+" FROM exercises WHERE id_user = ? ORDER BY id_exercise DESC LIMIT 1", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, ErrExerciseNotFound
	}
	return e, err
}

// List returns the user's exercises, optionally filtered by intensity,
// muscle_group (any of the ids) or is_favorite.
func (r *ExerciseRepo) List(ctx context.Context, userID uint64, opts ListOptions) ([]model.Exercise, error) {
	q := "SELECT " + exerciseColumns + " FROM exercises WHERE id_user = ?"
	args := []any{userID}

	switch opts.Filter {
	case "":
	case "is_favorite":
		fav, err := parseBoolValue(opts.FilterValues)
		if err != nil {
			return nil, err
		}
		q += " AND is_favorite = ?"
		args = append(args, fav)
	case "intensity":
		if len(opts.FilterValues) == 0 {
			return nil, apperr.Validation("filter_values is required")
		}
		n, err := strconv.Atoi(opts.FilterValues[0])
		if err != nil {
			return nil, apperr.Validation("intensity filter expects a number")
		}
		q += " AND intensity = ?"
		args = append(args, n)
	case "muscle_group":
		ids, err := parseIDs(opts.FilterValues)
		if err != nil {
			return nil, err
		}
		q += " AND id_exercise IN (SELECT id_exercise FROM works WHERE id_user = ? AND id_muscle_group IN (" + placeholders(len(ids)) + "))"
		args = append(args, userID)
		for _, id := range ids {
			args = append(args, id)
		}
	default:
		return nil, apperr.Validation("filter must be intensity, muscle_group or is_favorite")
	}

	order, err := orderBy(opts, exerciseSorts)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q+order, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListByRoutine returns the exercises of a routine in routine order.
func (r *ExerciseRepo) ListByRoutine(ctx context.Context, userID, routineID uint64) ([]model.RoutineExercise, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id_exercise, e.id_user, e.exercise_name, e.description, e.time_after_exercise,
			e.intensity, e.is_favorite, e.created_at, c.exercise_order
		 FROM exercises e JOIN composed_by c ON c.id_exercise = e.id_exercise AND c.id_user = e.id_user
		 WHERE c.id_user = ? AND c.id_routine = ?
		 ORDER BY c.exercise_order ASC`, userID, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RoutineExercise{}
	for rows.Next() {
		var re model.RoutineExercise
		if err := rows.Scan(&re.ID, &re.UserID, &re.Name, &re.Description, &re.TimeAfterExercise,
			&re.Intensity, &re.IsFavorite, &re.CreatedAt, &re.ExerciseOrder); err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func (r *ExerciseRepo) Update(ctx context.Context, e model.Exercise) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE exercises SET exercise_name = ?, description = ?, time_after_exercise = ?, intensity = ?, is_favorite = ?
		 WHERE id_user = ? AND id_exercise = ?`,
		e.Name, e.Description, e.TimeAfterExercise, e.Intensity, e.IsFavorite, e.UserID, e.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrExerciseNotFound)
}

func (r *ExerciseRepo) Delete(ctx context.Context, userID, id uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM exercises WHERE id_user = ? AND id_exercise = ?", userID, id))
}

func (r *ExerciseRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM exercises WHERE id_user = ?", userID))
}

func scanExercise(s rowScanner) (model.Exercise, error) {
	var e model.Exercise
	err := s.Scan(&e.ID, &e.UserID, &e.Name, &e.Description, &e.TimeAfterExercise, &e.Intensity, &e.IsFavorite, &e.CreatedAt)
	return e, err
}
