package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// ExerciseHandler serves /v1/exercise.
type ExerciseHandler struct {
	Store   *repository.Store
	Deleter *service.DeletionService
}

type exerciseReq struct {
	Name              string `json:"exercise_name" validate:"required,max=100"`
	Description       string `json:"description" validate:"max=1000"`
	TimeAfterExercise int    `json:"time_after_exercise" validate:"gte=0"`
	Intensity         int    `json:"intensity" validate:"required,min=1,max=3"`
	IsFavorite        bool   `json:"is_favorite"`
}

type exercisePatch struct {
	Name              *string `json:"exercise_name" validate:"omitempty,min=1,max=100"`
	Description       *string `json:"description" validate:"omitempty,max=1000"`
	TimeAfterExercise *int    `json:"time_after_exercise" validate:"omitempty,gte=0"`
	Intensity         *int    `json:"intensity" validate:"omitempty,min=1,max=3"`
	IsFavorite        *bool   `json:"is_favorite"`
}

func (h *ExerciseHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req exerciseReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e := &model.Exercise{
		UserID: uid, Name: req.Name, Description: req.Description,
		TimeAfterExercise: req.TimeAfterExercise, Intensity: req.Intensity, IsFavorite: req.IsFavorite,
	}
	if err := h.Store.Exercises.Create(ctx, e); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, e)
}

func (h *ExerciseHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Store.Exercises.List(ctx, uid, listOptions(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

func (h *ExerciseHandler) Last(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Store.Exercises.Last(ctx, uid)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

// ListByRoutine returns a routine's exercises in routine order.
func (h *ExerciseHandler) ListByRoutine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	rtID, err := idParam(c, "id_routine")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Store.Routines.Get(ctx, uid, rtID); err != nil {
		return err
	}
	out, err := h.Store.Exercises.ListByRoutine(ctx, uid, rtID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

func (h *ExerciseHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Store.Exercises.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

// Amount counts the related rows of one kind: time_set, repetition_set,
// muscle_group or routines.
func (h *ExerciseHandler) Amount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	var count func() (int, error)
	switch kind := c.Param("kind"); kind {
	case "time_set":
		count = func() (int, error) { return h.Store.TimeSets.CountByExercise(ctx, uid, id) }
	case "repetition_set":
		count = func() (int, error) { return h.Store.RepetitionSets.CountByExercise(ctx, uid, id) }
	case "muscle_group":
		count = func() (int, error) { return h.Store.Works.CountByExercise(ctx, uid, id) }
	case "routines":
		count = func() (int, error) { return h.Store.ComposedBy.CountByExercise(ctx, uid, id) }
	default:
		return apperr.Validation("amount must be time_set, repetition_set, muscle_group or routines")
	}

	if _, err := h.Store.Exercises.Get(ctx, uid, id); err != nil {
		return err
	}
	n, err := count()
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]int{"amount": n})
}

func (h *ExerciseHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	var req exercisePatch
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Store.Exercises.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.TimeAfterExercise != nil {
		e.TimeAfterExercise = *req.TimeAfterExercise
	}
	if req.Intensity != nil {
		e.Intensity = *req.Intensity
	}
	if req.IsFavorite != nil {
		e.IsFavorite = *req.IsFavorite
	}
	if err := h.Store.Exercises.Update(ctx, e); err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

// Delete removes the exercise with its sets, links and photos.
func (h *ExerciseHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	ctx, cancel := contextWithTimeout(c, 2*requestTimeout)
	defer cancel()

	if err := h.Deleter.DeleteExercise(ctx, uid, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "exercise deleted")
}
