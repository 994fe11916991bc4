package model

import "time"

// DefaultProfilePhotoID marks a user that never uploaded a profile photo.
// It is never deleted from the image store.
const DefaultProfilePhotoID = "default_profile_photo"

// User mirrors the `users` table. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID                   uint64     `json:"-"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	LastName             string     `json:"last_name"`
	Username             string     `json:"username"`
	Password             string     `json:"-"`
	PublicIDProfilePhoto string     `json:"-"`
	URLProfilePhoto      string     `json:"url_profile_photo"`
	DateBirth            *time.Time `json:"date_birth,omitempty"`
	Theme                string     `json:"theme"`
	Experience           string     `json:"experience"`
	Weight               *float64   `json:"weight,omitempty"`
	Goal                 string     `json:"goal"`
	Rating               *int       `json:"rating,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// HasCustomPhoto reports whether the profile photo lives in the image store.
func (u User) HasCustomPhoto() bool {
	return u.PublicIDProfilePhoto != "" && u.PublicIDProfilePhoto != DefaultProfilePhotoID
}

// Credential is the per-user row of the `auth` table: the refresh token the
// user currently holds and the pending password reset, if any.
type Credential struct {
	UserID          uint64
	RefreshToken    string
	ResetToken      string
	ResetExpiration *time.Time
}

// InvalidToken is a ledger entry. Only the SHA-256 of the token is stored.
type InvalidToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	CreatedAt time.Time
}

// Feedback is a free-text comment left by a user.
type Feedback struct {
	ID        uint64    `json:"id_feedback"`
	UserID    uint64    `json:"-"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
