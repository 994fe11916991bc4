package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/middleware"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

// requestTimeout bounds the store calls of one request.
const requestTimeout = 5 * time.Second

// envelope is the body of every JSON response.
type envelope struct {
	Success  bool `json:"success"`
	Resource any  `json:"resource"`
}

type message struct {
	Message string `json:"message"`
}

func respond(c echo.Context, status int, resource any) error {
	return c.JSON(status, envelope{Success: true, Resource: resource})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return respond(c, status, message{Message: msg})
}

// ErrorHandler replaces echo's default: every failure is written as an
// envelope with success=false and a status derived from the error kind.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := apperr.Status(err)
	msg := apperr.Message(err)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, envelope{Success: false, Resource: message{Message: msg}})
	}
	if err != nil {
		logging.FromContext(c.Request().Context()).Warn("write error response", "err", err)
	}
}

// Validator adapts validator/v10 to echo.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
		}
		return apperr.Validation("invalid fields: " + strings.Join(fields, ", "))
	}
	return apperr.Validation(err.Error())
}

// bind decodes the request into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("invalid body")
	}
	return c.Validate(dst)
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return contextWithTimeout(c, requestTimeout)
}

func contextWithTimeout(c echo.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), d)
}

// getUserID returns the id stored by the session middleware. Routes without
// that middleware never call it.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.ErrUnauthorized
	}
	return id, nil
}

func idParam(c echo.Context, name string) (uint64, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return n, nil
}

// listOptions reads sort_by, order, filter and filter_values. filter_values
// may be repeated or comma separated.
func listOptions(c echo.Context) repository.ListOptions {
	opts := repository.ListOptions{
		SortBy: c.QueryParam("sort_by"),
		Order:  c.QueryParam("order"),
		Filter: c.QueryParam("filter"),
	}
	for _, raw := range c.QueryParams()["filter_values"] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				opts.FilterValues = append(opts.FilterValues, v)
			}
		}
	}
	return opts
}

// duplicateAs turns a duplicate insert into a validation error with msg.
func duplicateAs(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Validation(msg)
	}
	return err
}
