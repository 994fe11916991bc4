package repository

import (
	"context"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/utils"
)

// InvalidTokenRepo is the ledger of consumed or revoked tokens. Callers pass
// raw tokens; only their SHA-256 is stored.
type InvalidTokenRepo struct{ db DBTX }

func NewInvalidTokenRepo(db DBTX) *InvalidTokenRepo { return &InvalidTokenRepo{db: db} }

// Record adds raw to the ledger. ErrDuplicate means it was already there,
// which the session renewal treats as a replay.
func (r *InvalidTokenRepo) Record(ctx context.Context, userID uint64, raw string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO invalid_tokens (id_user, token_hash, created_at) VALUES (?,?,?)",
		userID, utils.HashToken(raw), at.UTC())
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *InvalidTokenRepo) Contains(ctx context.Context, raw string) (bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT 1 FROM invalid_tokens WHERE token_hash = ? LIMIT 1", utils.HashToken(raw))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	found := rows.Next()
	return found, rows.Err()
}

func (r *InvalidTokenRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM invalid_tokens WHERE id_user = ?", userID))
}

// PurgeOlderThan drops entries recorded before cutoff. Tokens that old have
// expired on their own and no longer need a ledger entry.
func (r *InvalidTokenRepo) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM invalid_tokens WHERE created_at < ?", cutoff.UTC()))
}
