package utils // package utils provides token issuing, verification and hashing helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/myroutine-backend/internal/config"
)

// ErrInvalidToken is the only verification failure. Expired, malformed and
// badly signed tokens are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind selects the secret and expiry rules of a token.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
	// ResetToken is signed with the access secret and carries no exp claim;
	// its lifetime is enforced by the expiry stored next to it.
	ResetToken
)

// Claims is the payload of every token. ID (jti) is random so two tokens
// minted for the same user within one second still differ.
type Claims struct {
	UserID uint64 `json:"id_user"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login or renewal hands to the client.
type TokenPair struct {
	Access  string
	Refresh string
}

// Reset is a password-reset token and the instant it stops being accepted.
type Reset struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService signs and verifies the three token kinds with HS256.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration

	// Now is the clock used for iat/exp and for validation.
	Now func() time.Time
}

func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		ResetTTL:      cfg.ResetTTL,
		Now:           time.Now,
	}
}

// Issue mints a fresh access/refresh pair for userID.
func (s *TokenService) Issue(userID uint64) (TokenPair, error) {
	now := s.Now().UTC()
	access, err := s.sign(s.accessSecret, userID, now, now.Add(s.AccessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(s.refreshSecret, userID, now, now.Add(s.RefreshTTL))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueReset mints a password-reset token valid for ResetTTL.
func (s *TokenService) IssueReset(userID uint64) (Reset, error) {
	now := s.Now().UTC()
	tok, err := s.sign(s.accessSecret, userID, now, time.Time{})
	if err != nil {
		return Reset{}, err
	}
	return Reset{Token: tok, ExpiresAt: now.Add(s.ResetTTL)}, nil
}

// Verify checks signature, algorithm and (for access and refresh tokens)
// expiry. Any failure is ErrInvalidToken.
func (s *TokenService) Verify(raw string, kind TokenKind) (Claims, error) {
	secret := s.accessSecret
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
	}
	switch kind {
	case AccessToken:
		opts = append(opts, jwt.WithExpirationRequired())
	case RefreshToken:
		secret = s.refreshSecret
		opts = append(opts, jwt.WithExpirationRequired())
	case ResetToken:
	default:
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	if err != nil || !tok.Valid || claims.UserID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) sign(secret []byte, userID uint64, iat, exp time.Time) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(iat),
		},
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// HashToken returns the SHA-256 hex digest of a raw token. The ledger stores
// only this digest.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RandomHex returns n random bytes hex encoded, e.g. for OAuth state values.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
