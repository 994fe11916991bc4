package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/middleware"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// UserHandler serves the account endpoints under /v1/user.
type UserHandler struct {
	Auth    *service.AuthService
	Deleter *service.DeletionService
	Store   *repository.Store
	Cookies middleware.Cookies
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	LastName string `json:"last_name" validate:"required,max=100"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetReq struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type feedbackReq struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// profileReq is the body of PUT /v1/user, JSON or multipart. date_birth is
// YYYY-MM-DD.
type profileReq struct {
	Name       *string  `json:"name" validate:"omitempty,max=100"`
	LastName   *string  `json:"last_name" validate:"omitempty,max=100"`
	Username   *string  `json:"username" validate:"omitempty,max=100"`
	DateBirth  *string  `json:"date_birth"`
	Theme      *string  `json:"theme" validate:"omitempty,oneof=light dark"`
	Experience *string  `json:"experience" validate:"omitempty,max=50"`
	Weight     *float64 `json:"weight" validate:"omitempty,gt=0"`
	Goal       *string  `json:"goal" validate:"omitempty,max=100"`
	Rating     *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Password   *string  `json:"password"`
}

// bindProfile reads profileReq from a JSON body or from multipart fields.
func bindProfile(c echo.Context) (profileReq, error) {
	var req profileReq
	if !isMultipart(c) {
		return req, bind(c, &req)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return req, apperr.Validation("invalid multipart body")
	}
	str := func(name string) *string {
		if vals, ok := form.Value[name]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	req.Name, req.LastName, req.Username = str("name"), str("last_name"), str("username")
	req.DateBirth, req.Theme, req.Experience = str("date_birth"), str("theme"), str("experience")
	req.Goal, req.Password = str("goal"), str("password")
	if v := str("weight"); v != nil {
		w, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			return req, apperr.Validation("weight must be a number")
		}
		req.Weight = &w
	}
	if v := str("rating"); v != nil {
		n, err := strconv.Atoi(*v)
		if err != nil {
			return req, apperr.Validation("rating must be an integer")
		}
		req.Rating = &n
	}
	return req, c.Validate(&req)
}

// Register: create the account and open its session.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Register(ctx, service.RegisterInput{
		Email: req.Email, Password: req.Password, Name: strings.TrimSpace(req.Name), LastName: strings.TrimSpace(req.LastName),
	})
	if err != nil {
		return err
	}
	h.Cookies.Set(c, pair)
	return respond(c, http.StatusCreated, u)
}

func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	h.Cookies.Set(c, pair)
	return respond(c, http.StatusOK, u)
}

// Logout revokes every token the client holds and clears the cookies.
func (h *UserHandler) Logout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid, middleware.SessionTokens(c)...); err != nil {
		return err
	}
	h.Cookies.Clear(c)
	return respondMessage(c, http.StatusOK, "logged out")
}

func (h *UserHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Store.Users.GetByID(ctx, uid)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

// IsLoggedIn only answers once the session middleware let the request in.
func (h *UserHandler) IsLoggedIn(c echo.Context) error {
	return respond(c, http.StatusOK, map[string]bool{"is_logged_in": true})
}

// Update changes the profile. A multipart request may carry a new photo in
// the "image" field.
func (h *UserHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	req, err := bindProfile(c)
	if err != nil {
		return err
	}
	if req.Password != nil {
		return apperr.Validation("password cannot be changed here")
	}
	upd := service.ProfileUpdate{
		Name: req.Name, LastName: req.LastName, Username: req.Username, Theme: req.Theme,
		Experience: req.Experience, Weight: req.Weight, Goal: req.Goal, Rating: req.Rating,
	}
	if req.DateBirth != nil {
		t, err := time.Parse(time.DateOnly, *req.DateBirth)
		if err != nil {
			return apperr.Validation("date_birth must be YYYY-MM-DD")
		}
		upd.DateBirth = &t
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	ctx, cancel := reqCtx(c)
	defer cancel()
	u, err := h.Auth.UpdateProfile(ctx, uid, upd, image)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, u)
}

func (h *UserHandler) Feedback(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req feedbackReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	f := &model.Feedback{UserID: uid, Comment: req.Comment}
	if err := h.Store.Feedback.Create(ctx, f); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, f)
}

func (h *UserHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "reset email sent")
}

func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, c.Param("token"), req.Password); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "password updated")
}

// Delete removes the account with everything it owns.
func (h *UserHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	// the cascade gets more time than a plain request
	ctx, cancel := contextWithTimeout(c, 4*requestTimeout)
	defer cancel()

	if err := h.Deleter.DeleteUser(ctx, uid); err != nil {
		return err
	}
	h.Cookies.Clear(c)
	return respondMessage(c, http.StatusOK, "user deleted")
}
