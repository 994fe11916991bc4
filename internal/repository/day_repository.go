package repository

import (
	"context"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

type DayRepo struct{ db DBTX }

func NewDayRepo(db DBTX) *DayRepo { return &DayRepo{db: db} }

func (r *DayRepo) List(ctx context.Context) ([]model.Day, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id_day, day_name FROM days ORDER BY id_day")
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

func (r *DayRepo) Exists(ctx context.Context, id uint8) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM days WHERE id_day = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
