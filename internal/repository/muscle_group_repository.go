package repository

import (
	"context"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// MuscleGroupRepo reads the seeded muscle group catalog.
type MuscleGroupRepo struct{ db DBTX }

func NewMuscleGroupRepo(db DBTX) *MuscleGroupRepo { return &MuscleGroupRepo{db: db} }

func (r *MuscleGroupRepo) List(ctx context.Context) ([]model.MuscleGroup, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id_muscle_group, name FROM muscle_groups ORDER BY id_muscle_group")
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

func (r *MuscleGroupRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM muscle_groups WHERE id_muscle_group = ?", id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
