// Package service holds the multi-step operations: session checking and
// renewal, the auth flows and the cascading deletes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

type CredentialStore interface {
	GetByUser(ctx context.Context, userID uint64) (model.Credential, error)
	RotateRefresh(ctx context.Context, userID uint64, expected, next string) error
}

type TokenLedger interface {
	Record(ctx context.Context, userID uint64, raw string, at time.Time) error
	Contains(ctx context.Context, raw string) (bool, error)
}

type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionRequest is what the client presented: the raw cookie values, empty
// when absent.
type SessionRequest struct {
	AccessToken  string
	RefreshToken string
}

// SessionResult identifies the caller. Renewed is set when a new token pair
// was minted and must be written back to the client.
type SessionResult struct {
	UserID  uint64
	Renewed *utils.TokenPair
}

// SessionService decides whether a request is authenticated, renewing the
// token pair when only the refresh token is usable.
type SessionService struct {
	Tokens      *utils.TokenService
	Credentials CredentialStore
	Ledger      TokenLedger
	Users       UserFinder
	Log         *slog.Logger
}

// CheckLedger rejects a request carrying any token recorded in the ledger.
// It runs before signature verification, for both tokens.
func (s *SessionService) CheckLedger(ctx context.Context, req SessionRequest) error {
	for _, raw := range []string{req.AccessToken, req.RefreshToken} {
		if raw == "" {
			continue
		}
		found, err := s.Ledger.Contains(ctx, raw)
		if err != nil {
			return s.reject(ctx, "ledger lookup", err)
		}
		if found {
			return apperr.ErrUnauthorized
		}
	}
	return nil
}

// Authenticate runs the session state machine:
//   - no refresh token: rejected;
//   - a verifiable access token: the user must still exist;
//   - otherwise the refresh token is consumed and a new pair issued.
//
// Every rejection is apperr.ErrUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, req SessionRequest) (SessionResult, error) {
	if req.RefreshToken == "" {
		return SessionResult{}, apperr.ErrUnauthorized
	}
	if req.AccessToken != "" {
		// an access token that fails verification is treated as absent
		if claims, err := s.Tokens.Verify(req.AccessToken, utils.AccessToken); err == nil {
			if _, err := s.Users.GetByID(ctx, claims.UserID); err != nil {
				return SessionResult{}, s.reject(ctx, "load user", err)
			}
			return SessionResult{UserID: claims.UserID}, nil
		}
	}
	return s.renew(ctx, req.RefreshToken)
}

func (s *SessionService) renew(ctx context.Context, refresh string) (SessionResult, error) {
	claims, err := s.Tokens.Verify(refresh, utils.RefreshToken)
	if err != nil {
		return SessionResult{}, apperr.ErrUnauthorized
	}
	userID := claims.UserID

	found, err := s.Ledger.Contains(ctx, refresh)
	if err != nil {
		return SessionResult{}, s.reject(ctx, "ledger lookup", err)
	}
	if found {
		return SessionResult{}, apperr.ErrUnauthorized
	}
	// consuming the token before anything else makes a replay of it fail
	// even if the rest of the renewal does not complete
	if err := s.Ledger.Record(ctx, userID, refresh, s.Tokens.Now()); err != nil {
		return SessionResult{}, s.reject(ctx, "ledger record", err)
	}

	cred, err := s.Credentials.GetByUser(ctx, userID)
	if err != nil {
		return SessionResult{}, s.reject(ctx, "load credential", err)
	}
	if cred.RefreshToken == "" || cred.RefreshToken != refresh {
		return SessionResult{}, apperr.ErrUnauthorized
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return SessionResult{}, s.reject(ctx, "load user", err)
	}

	pair, err := s.Tokens.Issue(userID)
	if err != nil {
		return SessionResult{}, s.reject(ctx, "issue tokens", err)
	}
	if err := s.Credentials.RotateRefresh(ctx, userID, refresh, pair.Refresh); err != nil {
		return SessionResult{}, s.reject(ctx, "rotate refresh", err)
	}
	return SessionResult{UserID: userID, Renewed: &pair}, nil
}

// reject logs unexpected causes and always answers Unauthorized. Expected
// rejections (missing rows, replays, lost races) are not logged as errors.
func (s *SessionService) reject(ctx context.Context, step string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrStaleRefresh):
		s.logger().DebugContext(ctx, "session rejected", "step", step, "reason", err.Error())
	default:
		s.logger().ErrorContext(ctx, "session check failed", "step", step, "err", err)
	}
	return fmt.Errorf("%s: %w", step, apperr.ErrUnauthorized)
}

func (s *SessionService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}
