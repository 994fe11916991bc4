package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

// Session cookie names.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Cookies writes and clears the session cookies. MaxAge follows the token
// lifetimes so the browser drops a cookie when its token expires.
type Cookies struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCookies(cfg config.CookieConfig, tokens config.TokenConfig) Cookies {
	return Cookies{Domain: cfg.Domain, Secure: cfg.Secure, AccessTTL: tokens.AccessTTL, RefreshTTL: tokens.RefreshTTL}
}

// Set writes both tokens of pair.
func (k Cookies) Set(c echo.Context, pair utils.TokenPair) {
	c.SetCookie(k.cookie(AccessCookie, pair.Access, int(k.AccessTTL/time.Second)))
	c.SetCookie(k.cookie(RefreshCookie, pair.Refresh, int(k.RefreshTTL/time.Second)))
}

// Clear expires both session cookies.
func (k Cookies) Clear(c echo.Context) {
	c.SetCookie(k.cookie(AccessCookie, "", -1))
	c.SetCookie(k.cookie(RefreshCookie, "", -1))
}

func (k Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   k.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   k.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
