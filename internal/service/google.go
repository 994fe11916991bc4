package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

// ErrGoogleEmailUnverified rejects a Google profile whose email Google has
// not verified.
var ErrGoogleEmailUnverified = apperr.New(apperr.ErrUnauthorized, "google email is not verified")

// GoogleProfile is the part of the Google userinfo response the login uses.
type GoogleProfile struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// LoginGoogle signs in the account with the profile's email, creating it on
// first use. Google accounts have no local password.
func (s *AuthService) LoginGoogle(ctx context.Context, p GoogleProfile) (model.User, utils.TokenPair, error) {
	if p.Email == "" {
		return model.User{}, utils.TokenPair{}, errors.New("google profile without email")
	}
	// only a verified address may map to a local account
	if !p.VerifiedEmail {
		return model.User{}, utils.TokenPair{}, ErrGoogleEmailUnverified
	}
	u, err := s.Store.Users.GetByEmail(ctx, p.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		u = model.User{Email: p.Email, Name: p.GivenName, LastName: p.FamilyName, Username: p.Name}
		if p.Picture != "" {
			s.copyPicture(ctx, p.Picture, &u)
		}
		if err := s.Store.Users.Create(ctx, &u); err != nil {
			if u.HasCustomPhoto() {
				s.purgeImage(ctx, u.PublicIDProfilePhoto)
			}
			return model.User{}, utils.TokenPair{}, storeError("create user", err)
		}
	case err != nil:
		return model.User{}, utils.TokenPair{}, storeError("load user", err)
	}

	pair, err := s.IssueSession(ctx, u.ID)
	if err != nil {
		return model.User{}, utils.TokenPair{}, err
	}
	return u, pair, nil
}

// copyPicture moves the Google avatar into the image store. Failure leaves
// the default photo in place.
func (s *AuthService) copyPicture(ctx context.Context, url string, u *model.User) {
	if s.Images == nil {
		return
	}
	client := s.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	err := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		img, err := s.Images.Upload(ctx, resp.Body, resp.Header.Get("Content-Type"))
		if err != nil {
			return err
		}
		u.PublicIDProfilePhoto = img.PublicID
		u.URLProfilePhoto = img.URL
		return nil
	}()
	if err != nil {
		s.logger().WarnContext(ctx, "copy google picture failed", "email", u.Email, "err", err)
	}
}
