package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

// CredentialRepo persists the `auth` row of each user: the refresh token the
// user currently holds and the pending password reset.
type CredentialRepo struct{ db DBTX }

func NewCredentialRepo(db DBTX) *CredentialRepo { return &CredentialRepo{db: db} }

func (r *CredentialRepo) Create(ctx context.Context, c model.Credential) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth (id_user, refresh_token, reset_password_token, reset_password_token_expiration)
		 VALUES (?,?,?,?)`,
		c.UserID, nullString(c.RefreshToken), nullString(c.ResetToken), nullTime(c.ResetExpiration))
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

func (r *CredentialRepo) GetByUser(ctx context.Context, userID uint64) (model.Credential, error) {
	var (
		c       model.Credential
		refresh sql.NullString
		reset   sql.NullString
		exp     sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id_user, refresh_token, reset_password_token, reset_password_token_expiration
		 FROM auth WHERE id_user = ? LIMIT 1`, userID).Scan(&c.UserID, &refresh, &reset, &exp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Credential{}, ErrCredentialNotFound
		}
		return model.Credential{}, err
	}
	c.RefreshToken = refresh.String
	c.ResetToken = reset.String
	if exp.Valid {
		t := exp.Time
		c.ResetExpiration = &t
	}
	return c, nil
}

// Update overwrites the whole record. Empty strings are stored as NULL.
func (r *CredentialRepo) Update(ctx context.Context, c model.Credential) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth SET refresh_token = ?, reset_password_token = ?, reset_password_token_expiration = ?
		 WHERE id_user = ?`,
		nullString(c.RefreshToken), nullString(c.ResetToken), nullTime(c.ResetExpiration), c.UserID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrCredentialNotFound)
}

// RotateRefresh replaces the stored refresh token only if it still equals
// expected. ErrStaleRefresh means another request rotated it first.
func (r *CredentialRepo) RotateRefresh(ctx context.Context, userID uint64, expected, next string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE auth SET refresh_token = ? WHERE id_user = ? AND refresh_token = ?",
		next, userID, expected)
	if err != nil {
		return err
	}
	return requireRow(res, ErrStaleRefresh)
}

func (r *CredentialRepo) DeleteByUser(ctx context.Context, userID uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM auth WHERE id_user = ?", userID))
}
