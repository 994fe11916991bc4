package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// SetRepo covers the `sets` table. Set ids are numbered per exercise.
type SetRepo struct{ db DBTX }

func NewSetRepo(db DBTX) *SetRepo { return &SetRepo{db: db} }

// NextID returns max(id_set)+1 for the exercise, starting at 1.
func (r *SetRepo) NextID(ctx context.Context, userID, exerciseID uint64) (uint64, error) {
	var last sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT MAX(id_set) FROM sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID).Scan(&last)
	if err != nil {
		return 0, err
	}
	return uint64(last.Int64) + 1, nil
}

func (r *SetRepo) Create(ctx context.Context, s model.Set) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sets (id_user, id_exercise, id_set, weight, rest_after_set, set_order)
		 VALUES (?,?,?,?,?,?)`,
		s.UserID, s.ExerciseID, s.ID, s.Weight, s.RestAfterSet, s.SetOrder)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SetRepo) Get(ctx context.Context, userID, exerciseID, id uint64) (model.Set, error) {
	var s model.Set
	err := r.db.QueryRowContext(ctx,
		`SELECT id_user, id_exercise, id_set, weight, rest_after_set, set_order
		 FROM sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?`,
		userID, exerciseID, id).Scan(&s.UserID, &s.ExerciseID, &s.ID, &s.Weight, &s.RestAfterSet, &s.SetOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Set{}, ErrSetNotFound
	}
	return s, err
}

func (r *SetRepo) Update(ctx context.Context, s model.Set) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sets SET weight = ?, rest_after_set = ?, set_order = ?
		 WHERE id_user = ? AND id_exercise = ? AND id_set = ?`,
		s.Weight, s.RestAfterSet, s.SetOrder, s.UserID, s.ExerciseID, s.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSetNotFound)
}

// ListDetails returns the sets of an exercise joined with their quantity,
// ordered by set_order.
func (r *SetRepo) ListDetails(ctx context.Context, userID, exerciseID uint64) ([]model.SetDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id_user, s.id_exercise, s.id_set, s.weight, s.rest_after_set, s.set_order, t.time, rp.repetition
		 FROM sets s
		 LEFT JOIN time_sets t ON t.id_user = s.id_user AND t.id_exercise = s.id_exercise AND t.id_set = s.id_set
		 LEFT JOIN repetition_sets rp ON rp.id_user = s.id_user AND rp.id_exercise = s.id_exercise AND rp.id_set = s.id_set
		 WHERE s.id_user = ? AND s.id_exercise = ?
		 ORDER BY s.set_order ASC, s.id_set ASC`, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SetDetail{}
	for rows.Next() {
		var (
			d   model.SetDetail
			tm  sql.NullString
			rep sql.NullInt64
		)
		if err := rows.Scan(&d.UserID, &d.ExerciseID, &d.ID, &d.Weight, &d.RestAfterSet, &d.SetOrder, &tm, &rep); err != nil {
			return nil, err
		}
		switch {
		case tm.Valid:
			d.Type = model.SetTypeTime
			v := tm.String
			d.Time = &v
		case rep.Valid:
			d.Type = model.SetTypeRepetition
			v := int(rep.Int64)
			d.Repetition = &v
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SetRepo) Delete(ctx context.Context, userID, exerciseID, id uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM sets WHERE id_user = ? AND id_exercise = ? AND id_set = ?", userID, exerciseID, id))
}

func (r *SetRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM sets WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *SetRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM sets WHERE id_user = ?", userID))
}
