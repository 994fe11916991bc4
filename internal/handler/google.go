package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/middleware"
	"github.com/iliyamo/myroutine-backend/internal/service"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

const (
	oauthStateCookie = "oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleHandler runs the OAuth2 authorization code flow against Google.
type GoogleHandler struct {
	Auth        *service.AuthService
	OAuth       *oauth2.Config
	Cookies     middleware.Cookies
	FrontendURL string
	UserInfoURL string
}

func NewGoogleHandler(cfg config.GoogleConfig, auth *service.AuthService, cookies middleware.Cookies, frontendURL string) *GoogleHandler {
	return &GoogleHandler{
		Auth: auth,
		OAuth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		Cookies:     cookies,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		UserInfoURL: googleUserInfo,
	}
}

// Start redirects to the Google consent page.
func (h *GoogleHandler) Start(c echo.Context) error {
	state, err := utils.RandomHex(16)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

// Callback finishes the flow, signs the user in and sends the browser back to
// the dashboard.
func (h *GoogleHandler) Callback(c echo.Context) error {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		return apperr.ErrUnauthorized
	}
	c.SetCookie(&http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	code := c.QueryParam("code")
	if code == "" {
		return apperr.Validation("missing authorization code")
	}
	ctx, cancel := contextWithTimeout(c, 3*requestTimeout)
	defer cancel()

	tok, err := h.OAuth.Exchange(ctx, code)
	if err != nil {
		return apperr.External("google oauth", err)
	}
	profile, err := h.fetchProfile(c, tok)
	if err != nil {
		return apperr.External("google userinfo", err)
	}

	_, pair, err := h.Auth.LoginGoogle(ctx, profile)
	if err != nil {
		return err
	}
	h.Cookies.Set(c, pair)
	return c.Redirect(http.StatusFound, h.FrontendURL+"/dashboard")
}

func (h *GoogleHandler) fetchProfile(c echo.Context, tok *oauth2.Token) (service.GoogleProfile, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.UserInfoURL, nil)
	if err != nil {
		return service.GoogleProfile{}, err
	}
	resp, err := h.OAuth.Client(ctx, tok).Do(req)
	if err != nil {
		return service.GoogleProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return service.GoogleProfile{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var p service.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return service.GoogleProfile{}, err
	}
	return p, nil
}
