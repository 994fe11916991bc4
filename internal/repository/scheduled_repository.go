package repository

import (
	"context"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// ScheduledRepo places routines on weekdays.
type ScheduledRepo struct{ db DBTX }

func NewScheduledRepo(db DBTX) *ScheduledRepo { return &ScheduledRepo{db: db} }

func (r *ScheduledRepo) Create(ctx context.Context, s model.Scheduled) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO scheduled (id_user, id_day, id_routine) VALUES (?,?,?)", s.UserID, s.DayID, s.RoutineID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// ListDaysByRoutine returns the days a routine is scheduled on.
func (r *ScheduledRepo) ListDaysByRoutine(ctx context.Context, userID, routineID uint64) ([]model.Day, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id_day, d.day_name FROM scheduled s JOIN days d ON d.id_day = s.id_day
		 WHERE s.id_user = ? AND s.id_routine = ? ORDER BY d.id_day`, userID, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Day{}
	for rows.Next() {
		var d model.Day
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ScheduledRepo) Delete(ctx context.Context, s model.Scheduled) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM scheduled WHERE id_user = ? AND id_day = ? AND id_routine = ?", s.UserID, s.DayID, s.RoutineID))
}

func (r *ScheduledRepo) DeleteByRoutine(ctx context.Context, userID, routineID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM scheduled WHERE id_user = ? AND id_routine = ?", userID, routineID))
}

func (r *ScheduledRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM scheduled WHERE id_user = ?", userID))
}
