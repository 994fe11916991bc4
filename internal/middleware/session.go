package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/service"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

// Context keys set by Session.
const (
	UserIDKey  = "id_user"
	renewedKey = "session_renewed"
)

func sessionRequest(c echo.Context) service.SessionRequest {
	return service.SessionRequest{
		AccessToken:  cookieValue(c, AccessCookie),
		RefreshToken: cookieValue(c, RefreshCookie),
	}
}

// InvalidTokens rejects any request whose access or refresh cookie is in the
// ledger. It must run before Session.
func InvalidTokens(svc *service.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := svc.CheckLedger(c.Request().Context(), sessionRequest(c)); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// Session authenticates the request from its cookies, renewing the token
// pair when needed, and stores the user id under UserIDKey.
func Session(svc *service.SessionService, cookies Cookies) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res, err := svc.Authenticate(req.Context(), sessionRequest(c))
			if err != nil {
				return err
			}
			if res.Renewed != nil {
				cookies.Set(c, *res.Renewed)
				c.Set(renewedKey, *res.Renewed)
			}
			c.Set(UserIDKey, res.UserID)

			log := logging.FromContext(req.Context()).With("id_user", res.UserID)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), log)))
			return next(c)
		}
	}
}

// UserID returns the authenticated user of the request.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(UserIDKey).(uint64)
	return id, ok && id != 0
}

// SessionTokens lists every token the client holds after this request: the
// presented cookies plus a pair minted by renewal.
func SessionTokens(c echo.Context) []string {
	out := []string{cookieValue(c, AccessCookie), cookieValue(c, RefreshCookie)}
	if pair, ok := c.Get(renewedKey).(utils.TokenPair); ok {
		out = append(out, pair.Access, pair.Refresh)
	}
	return out
}
