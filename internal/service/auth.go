package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/queue"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

// ErrBadCredentials is returned by Login for an unknown email and for a wrong
// password alike.
var ErrBadCredentials = apperr.New(apperr.ErrNotFound, "email or password are incorrect")

// AuthService implements registration, the login flows, password reset and
// profile changes.
type AuthService struct {
	Store       *repository.Store
	Tokens      *utils.TokenService
	Email       EmailSender
	Images      ImageStore
	HTTP        *http.Client
	FrontendURL string
	BcryptCost  int
	Log         *slog.Logger
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	LastName string
}

// Register creates the account and its first session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, utils.TokenPair, error) {
	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return model.User{}, utils.TokenPair{}, err
	}
	u := model.User{Email: in.Email, Password: hash, Name: in.Name, LastName: in.LastName}

	var pair utils.TokenPair
	err = s.Store.InTx(ctx, func(r *repository.Repos) error {
		if err := r.Users.Create(ctx, &u); err != nil {
			return storeError("create user", err)
		}
		p, err := s.issueSession(ctx, r, u.ID)
		pair = p
		return err
	})
	if err != nil {
		return model.User{}, utils.TokenPair{}, storeError("register", err)
	}
	return u, pair, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, utils.TokenPair, error) {
	u, err := s.Store.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.User{}, utils.TokenPair{}, ErrBadCredentials
	}
	if err != nil {
		return model.User{}, utils.TokenPair{}, storeError("load user", err)
	}
	if !utils.VerifyPassword(u.Password, password) {
		return model.User{}, utils.TokenPair{}, ErrBadCredentials
	}
	pair, err := s.IssueSession(ctx, u.ID)
	if err != nil {
		return model.User{}, utils.TokenPair{}, err
	}
	return u, pair, nil
}

// IssueSession mints a token pair and stores its refresh token as the one
// the user currently holds, creating the credential record if needed.
func (s *AuthService) IssueSession(ctx context.Context, userID uint64) (utils.TokenPair, error) {
	return s.issueSession(ctx, s.Store.Repos, userID)
}

func (s *AuthService) issueSession(ctx context.Context, r *repository.Repos, userID uint64) (utils.TokenPair, error) {
	pair, err := s.Tokens.Issue(userID)
	if err != nil {
		return utils.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	cred, err := r.Credentials.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrCredentialNotFound):
		err = r.Credentials.Create(ctx, model.Credential{UserID: userID, RefreshToken: pair.Refresh})
		return pair, storeError("create credential", err)
	case err != nil:
		return utils.TokenPair{}, storeError("load credential", err)
	}
	cred.RefreshToken = pair.Refresh
	if err := r.Credentials.Update(ctx, cred); err != nil {
		return utils.TokenPair{}, storeError("update credential", err)
	}
	return pair, nil
}

// Logout records every presented token in the ledger and forgets the stored
// refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uint64, tokens ...string) error {
	now := s.Tokens.Now()
	return storeError("logout", s.Store.InTx(ctx, func(r *repository.Repos) error {
		for _, raw := range tokens {
			if raw == "" {
				continue
			}
			err := r.InvalidTokens.Record(ctx, userID, raw, now)
			if err != nil && !errors.Is(err, repository.ErrDuplicate) {
				return storeError("record token", err)
			}
		}
		cred, err := r.Credentials.GetByUser(ctx, userID)
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil
		}
		if err != nil {
			return storeError("load credential", err)
		}
		cred.RefreshToken = ""
		return storeError("update credential", r.Credentials.Update(ctx, cred))
	}))
}

// ForgotPassword stores a fresh reset token and queues the email with the
// reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Store.Users.GetByEmail(ctx, email)
	if err != nil {
		return storeError("load user", err)
	}
	reset, err := s.Tokens.IssueReset(u.ID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	cred, err := s.Store.Credentials.GetByUser(ctx, u.ID)
	switch {
	case errors.Is(err, repository.ErrCredentialNotFound):
		err = s.Store.Credentials.Create(ctx, model.Credential{
			UserID: u.ID, ResetToken: reset.Token, ResetExpiration: &reset.ExpiresAt,
		})
	case err == nil:
		cred.ResetToken = reset.Token
		cred.ResetExpiration = &reset.ExpiresAt
		err = s.Store.Credentials.Update(ctx, cred)
	}
	if err != nil {
		return storeError("store reset token", err)
	}

	link := strings.TrimRight(s.FrontendURL, "/") + "/reset_password/" + reset.Token
	msg := queue.EmailMessage{
		To:      u.Email,
		Subject: "Reset your password",
		HTMLBody: fmt.Sprintf(`<p>Hi %s,</p><p>Use the link below to choose a new password. `+
			`It expires in %d minutes.</p><p><a href="%s">%s</a></p>`,
			u.Name, int(s.Tokens.ResetTTL/time.Minute), link, link),
	}
	if err := s.Email.Send(ctx, msg); err != nil {
		return apperr.External("email queue", err)
	}
	return nil
}

// ResetPassword sets a new password if token is the pending reset token of
// its user and has not expired.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := s.Tokens.Verify(token, utils.ResetToken)
	if err != nil {
		return apperr.ErrUnauthorized
	}
	if _, err := s.Store.Users.GetByID(ctx, claims.UserID); err != nil {
		return storeError("load user", err)
	}
	cred, err := s.Store.Credentials.GetByUser(ctx, claims.UserID)
	if err != nil {
		return storeError("load credential", err)
	}
	if cred.ResetToken == "" || cred.ResetToken != token {
		return apperr.ErrUnauthorized
	}
	if cred.ResetExpiration == nil || !s.Tokens.Now().Before(*cred.ResetExpiration) {
		return apperr.Validation("reset token expired")
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return err
	}
	return storeError("reset password", s.Store.InTx(ctx, func(r *repository.Repos) error {
		if err := r.Users.UpdatePassword(ctx, claims.UserID, hash); err != nil {
			return storeError("update password", err)
		}
		cred.ResetToken = ""
		cred.ResetExpiration = nil
		return storeError("clear reset token", r.Credentials.Update(ctx, cred))
	}))
}

// ProfileUpdate carries the fields a user may change; nil means unchanged.
type ProfileUpdate struct {
	Name       *string
	LastName   *string
	Username   *string
	DateBirth  *time.Time
	Theme      *string
	Experience *string
	Weight     *float64
	Goal       *string
	Rating     *int
}

// UpdateProfile applies upd and, when image is set, replaces the profile
// photo. The previous photo is purged only after the row points at the new one.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, upd ProfileUpdate, image *Upload) (model.User, error) {
	u, err := s.Store.Users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, storeError("load user", err)
	}
	previous := u
	upd.apply(&u)

	var uploaded string
	if image != nil {
		img, err := s.Images.Upload(ctx, image.Body, image.ContentType)
		if err != nil {
			return model.User{}, apperr.External("image store", err)
		}
		uploaded = img.PublicID
		u.PublicIDProfilePhoto = img.PublicID
		u.URLProfilePhoto = img.URL
	}

	if err := s.Store.Users.Update(ctx, u); err != nil {
		if uploaded != "" {
			s.purgeImage(ctx, uploaded)
		}
		return model.User{}, storeError("update user", err)
	}
	if uploaded != "" && previous.HasCustomPhoto() {
		s.purgeImage(ctx, previous.PublicIDProfilePhoto)
	}
	return u, nil
}

func (p ProfileUpdate) apply(u *model.User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.DateBirth != nil {
		u.DateBirth = p.DateBirth
	}
	if p.Theme != nil {
		u.Theme = *p.Theme
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Weight != nil {
		u.Weight = p.Weight
	}
	if p.Goal != nil {
		u.Goal = *p.Goal
	}
	if p.Rating != nil {
		u.Rating = p.Rating
	}
}

func (s *AuthService) purgeImage(ctx context.Context, publicID string) {
	if err := s.Images.Delete(context.WithoutCancel(ctx), publicID); err != nil {
		s.logger().WarnContext(ctx, "image purge failed", "public_id", publicID, "err", err)
	}
}

func (s *AuthService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
