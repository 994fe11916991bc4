package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// PhotoRepo stores exercise photo metadata; the bytes live in the image store
// under PublicID.
type PhotoRepo struct{ db DBTX }

func NewPhotoRepo(db DBTX) *PhotoRepo { return &PhotoRepo{db: db} }

func (r *PhotoRepo) Create(ctx context.Context, p model.Photo) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO photos (id_user, id_exercise, public_id, url_photo) VALUES (?,?,?,?)",
		p.UserID, p.ExerciseID, p.PublicID, p.URL)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *PhotoRepo) Get(ctx context.Context, userID, exerciseID uint64, publicID string) (model.Photo, error) {
	p := model.Photo{UserID: userID, ExerciseID: exerciseID, PublicID: publicID}
	err := r.db.QueryRowContext(ctx,
		"SELECT url_photo FROM photos WHERE id_user = ? AND id_exercise = ? AND public_id = ?",
		userID, exerciseID, publicID).Scan(&p.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Photo{}, ErrPhotoNotFound
	}
	return p, err
}

func (r *PhotoRepo) ListByExercise(ctx context.Context, userID, exerciseID uint64) ([]model.Photo, error) {
	return r.query(ctx,
		"SELECT id_user, id_exercise, public_id, url_photo FROM photos WHERE id_user = ? AND id_exercise = ? ORDER BY public_id",
		userID, exerciseID)
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Photo, error) {
	return r.query(ctx,
		"SELECT id_user, id_exercise, public_id, url_photo FROM photos WHERE id_user = ? ORDER BY id_exercise, public_id",
		userID)
}

func (r *PhotoRepo) Delete(ctx context.Context, userID, exerciseID uint64, publicID string) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		"DELETE FROM photos WHERE id_user = ? AND id_exercise = ? AND public_id = ?", userID, exerciseID, publicID))
}

func (r *PhotoRepo) DeleteByExercise(ctx context.Context, userID, exerciseID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM photos WHERE id_user = ? AND id_exercise = ?", userID, exerciseID))
}

func (r *PhotoRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM photos WHERE id_user = ?", userID))
}

func (r *PhotoRepo) query(ctx context.Context, q string, args ...any) ([]model.Photo, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Photo{}
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.UserID, &p.ExerciseID, &p.PublicID, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
