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

type RoutineRepo struct{ db DBTX }

func NewRoutineRepo(db DBTX) *RoutineRepo { return &RoutineRepo{db: db} }

const routineColumns = "id_routine, id_user, routine_name, description, time_before_start, usage_routine, is_favorite, created_at"

var routineSorts = map[string]string{
	"routine_name":  "routine_name",
	"created_at":    "created_at",
	"usage_routine": "usage_routine",
}

func (r *RoutineRepo) Create(ctx context.Context, rt *model.Routine) error {
	if rt.CreatedAt.IsZero() {
		rt.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO routines (id_user, routine_name, description, time_before_start, usage_routine, is_favorite, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		rt.UserID, rt.Name, rt.Description, rt.TimeBeforeStart, rt.Usage, rt.IsFavorite, rt.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

func (r *RoutineRepo) Get(ctx context.Context, userID, id uint64) (model.Routine, error) {
	rt, err := scanRoutine(r.db.QueryRowContext(ctx,
		"SELECT "+routineColumns+" FROM routines WHERE id_user = ? AND id_routine = ?", userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Routine{}, ErrRoutineNotFound
	}
	return rt, err
}

// Last returns the most recently created routine of the user.
func (r *RoutineRepo) Last(ctx context.Context, userID uint64) (model.Routine, error) {
	rt, err := scanRoutine(r.db.QueryRowContext(ctx,
		"SELECT "+routineColumns+" FROM routines WHERE id_user = ? ORDER BY id_routine DESC LIMIT 1", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Routine{}, ErrRoutineNotFound
	}
	return rt, err
}

// List returns the user's routines. Supported filters are "day" (routines
// scheduled on any of the day ids) and "is_favorite".
func (r *RoutineRepo) List(ctx context.Context, userID uint64, opts ListOptions) ([]model.Routine, error) {
	q := "SELECT " + routineColumns + " FROM routines WHERE id_user = ?"
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
	case "day":
		days, err := parseIDs(opts.FilterValues)
		if err != nil {
			return nil, err
		}
		q += " AND id_routine IN (SELECT id_routine FROM scheduled WHERE id_user = ? AND id_day IN (" + placeholders(len(days)) + "))"
		args = append(args, userID)
		for _, d := range days {
			args = append(args, d)
		}
	default:
		return nil, apperr.Validation("filter must be day or is_favorite")
	}

	order, err := orderBy(opts, routineSorts)
	if err != nil {
		return nil, err
	}
	return r.query(ctx, q+order, args...)
}

// ListByExercise returns the routines that include the exercise.
func (r *RoutineRepo) ListByExercise(ctx context.Context, userID, exerciseID uint64) ([]model.Routine, error) {
	return r.query(ctx,
		"SELECT "+routineColumns+` FROM routines WHERE id_user = ? AND id_routine IN
			(SELECT id_routine FROM composed_by WHERE id_user = ? AND id_exercise = ?) ORDER BY id_routine`,
		userID, userID, exerciseID)
}

// Update overwrites the editable columns of rt.
func (r *RoutineRepo) Update(ctx context.Context, rt model.Routine) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE routines SET routine_name = ?, description = ?, time_before_start = ?, usage_routine = ?, is_favorite = ?
		 WHERE id_user = ? AND id_routine = ?`,
		rt.Name, rt.Description, rt.TimeBeforeStart, rt.Usage, rt.IsFavorite, rt.UserID, rt.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrRoutineNotFound)
}

func (r *RoutineRepo) Delete(ctx context.Context, userID, id uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM routines WHERE id_user = ? AND id_routine = ?", userID, id))
}

func (r *RoutineRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM routines WHERE id_user = ?", userID))
}

func (r *RoutineRepo) query(ctx context.Context, q string, args ...any) ([]model.Routine, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Routine{}
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(s rowScanner) (model.Routine, error) {
	var rt model.Routine
	err := s.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description, &rt.TimeBeforeStart, &rt.Usage, &rt.IsFavorite, &rt.CreatedAt)
	return rt, err
}

func parseIDs(values []string) ([]uint64, error) {
	if len(values) == 0 {
		return nil, apperr.Validation("filter_values is required")
	}
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, apperr.Validation("filter_values must be numeric ids")
		}
		out = append(out, n)
	}
	return out, nil
}
