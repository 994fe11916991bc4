package repository

import (
	"context"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

type FeedbackRepo struct{ db DBTX }

func NewFeedbackRepo(db DBTX) *FeedbackRepo { return &FeedbackRepo{db: db} }

func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO feedback (id_user, comment, created_at) VALUES (?,?,?)", f.UserID, f.Comment, f.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

func (r *FeedbackRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM feedback WHERE id_user = ?", userID))
}
