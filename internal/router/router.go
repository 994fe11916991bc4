// Package router maps every URL of the API onto its handler and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/handler"
	"github.com/iliyamo/myroutine-backend/internal/middleware"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// Handlers bundles the endpoints served by the API.
type Handlers struct {
	Health      echo.HandlerFunc
	User        *handler.UserHandler
	Google      *handler.GoogleHandler
	Routine     *handler.RoutineHandler
	Exercise    *handler.ExerciseHandler
	Set         *handler.SetHandler
	Day         *handler.DayHandler
	MuscleGroup *handler.MuscleGroupHandler
	Photo       *handler.PhotoHandler
}

// Guards holds the middleware put in front of /v1. Cache and RateLimit may be
// nil.
type Guards struct {
	Session   *service.SessionService
	Cookies   middleware.Cookies
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// protected is the chain of every route that needs a logged in user: ledger
// check, session (with renewal), then the per-user response cache.
func (g Guards) protected() []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{
		middleware.InvalidTokens(g.Session),
		middleware.Session(g.Session, g.Cookies),
	}
	if g.Cache != nil {
		mw = append(mw, g.Cache)
	}
	return mw
}

// RegisterRoutes registers /healthz and the whole /v1 API.
func RegisterRoutes(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/healthz", h.Health)

	var v1mw []echo.MiddlewareFunc
	if g.RateLimit != nil {
		v1mw = append(v1mw, g.RateLimit)
	}
	v1 := e.Group("/v1", v1mw...)

	registerUser(v1, h, g.protected())
	registerFitness(v1, h, g.protected())
}

// registerUser mixes public routes (register, login, OAuth, password reset)
// with protected ones, so the session chain is attached per route.
func registerUser(v1 *echo.Group, h Handlers, auth []echo.MiddlewareFunc) {
	u := v1.Group("/user")

	u.POST("", h.User.Register)
	u.POST("/credentials", h.User.Login)
	u.GET("/google", h.Google.Start)
	u.GET("/google/redirect", h.Google.Callback)
	u.POST("/forgot_password", h.User.ForgotPassword)
	u.PUT("/reset_password/:token", h.User.ResetPassword)

	u.DELETE("/credentials", h.User.Logout, auth...)
	u.GET("", h.User.Get, auth...)
	u.GET("/is_logged_in", h.User.IsLoggedIn, auth...)
	u.PUT("", h.User.Update, auth...)
	u.POST("/feedback", h.User.Feedback, auth...)
	u.DELETE("", h.User.Delete, auth...)
}
