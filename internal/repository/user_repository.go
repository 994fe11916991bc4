package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/model"
)

type UserRepo struct{ db DBTX }

func NewUserRepo(db DBTX) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id_user, email, name, last_name, username, password, public_id_profile_photo,
	url_profile_photo, date_birth, theme, experience, weight, goal, rating, created_at`

// Create inserts u and fills u.ID. Email is normalized before the insert.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = normalizeEmail(u.Email)
	if u.PublicIDProfilePhoto == "" {
		u.PublicIDProfilePhoto = model.DefaultProfilePhotoID
	}
	if u.Theme == "" {
		u.Theme = "light"
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, name, last_name, username, password, public_id_profile_photo,
			url_profile_photo, date_birth, theme, experience, weight, goal, rating, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.Email, u.Name, u.LastName, u.Username, u.Password, u.PublicIDProfilePhoto,
		u.URLProfilePhoto, nullTime(u.DateBirth), u.Theme, u.Experience, nullFloat(u.Weight),
		u.Goal, nullInt(u.Rating), u.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", normalizeEmail(email))
}

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id_user = ? LIMIT 1", id)
}

// Update overwrites every profile column of u.ID. The password column is
// left alone; use UpdatePassword.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, last_name = ?, username = ?, public_id_profile_photo = ?,
			url_profile_photo = ?, date_birth = ?, theme = ?, experience = ?, weight = ?, goal = ?, rating = ?
		 WHERE id_user = ?`,
		u.Name, u.LastName, u.Username, u.PublicIDProfilePhoto, u.URLProfilePhoto,
		nullTime(u.DateBirth), u.Theme, u.Experience, nullFloat(u.Weight), u.Goal, nullInt(u.Rating), u.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET password = ? WHERE id_user = ?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// Delete removes the user row. Every dependent row must be gone already.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	return affected(r.db.ExecContext(ctx, "DELETE FROM users WHERE id_user = ?", id))
}

func (r *UserRepo) scanOne(ctx context.Context, q string, args ...any) (model.User, error) {
	var (
		u      model.User
		birth  sql.NullTime
		weight sql.NullFloat64
		rating sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&u.ID, &u.Email, &u.Name, &u.LastName, &u.Username,
		&u.Password, &u.PublicIDProfilePhoto, &u.URLProfilePhoto, &birth, &u.Theme, &u.Experience,
		&weight, &u.Goal, &rating, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if birth.Valid {
		t := birth.Time
		u.DateBirth = &t
	}
	if weight.Valid {
		w := weight.Float64
		u.Weight = &w
	}
	if rating.Valid {
		n := int(rating.Int64)
		u.Rating = &n
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
