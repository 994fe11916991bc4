package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// RoutineHandler serves /v1/routine.
type RoutineHandler struct {
	Store   *repository.Store
	Deleter *service.DeletionService
}

type routineReq struct {
	Name            string `json:"routine_name" validate:"required,max=100"`
	Description     string `json:"description" validate:"max=1000"`
	TimeBeforeStart int    `json:"time_before_start" validate:"gte=0"`
	IsFavorite      bool   `json:"is_favorite"`
}

type routinePatch struct {
	Name            *string `json:"routine_name" validate:"omitempty,min=1,max=100"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	TimeBeforeStart *int    `json:"time_before_start" validate:"omitempty,gte=0"`
	Usage           *int    `json:"usage_routine" validate:"omitempty,gte=0"`
	IsFavorite      *bool   `json:"is_favorite"`
}

type exerciseOrderReq struct {
	ExerciseOrder int `json:"exercise_order" validate:"gte=0"`
}

func (h *RoutineHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req routineReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rt := &model.Routine{
		UserID: uid, Name: req.Name, Description: req.Description,
		TimeBeforeStart: req.TimeBeforeStart, IsFavorite: req.IsFavorite,
	}
	if err := h.Store.Routines.Create(ctx, rt); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, rt)
}

func (h *RoutineHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Store.Routines.List(ctx, uid, listOptions(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

func (h *RoutineHandler) Last(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Store.Routines.Last(ctx, uid)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rt)
}

func (h *RoutineHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_routine")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Store.Routines.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rt)
}

// Update applies the fields present in the body.
func (h *RoutineHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_routine")
	if err != nil {
		return err
	}
	var req routinePatch
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Store.Routines.Get(ctx, uid, id)
	if err != nil {
		return err
	}
	if req.Name != nil {
		rt.Name = *req.Name
	}
	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.TimeBeforeStart != nil {
		rt.TimeBeforeStart = *req.TimeBeforeStart
	}
	if req.Usage != nil {
		rt.Usage = *req.Usage
	}
	if req.IsFavorite != nil {
		rt.IsFavorite = *req.IsFavorite
	}
	if err := h.Store.Routines.Update(ctx, rt); err != nil {
		return err
	}
	return respond(c, http.StatusOK, rt)
}

// AddExercise puts an exercise into a routine at exercise_order.
func (h *RoutineHandler) AddExercise(c echo.Context) error {
	link, err := h.link(c)
	if err != nil {
		return err
	}
	var req exerciseOrderReq
	if err := bind(c, &req); err != nil {
		return err
	}
	link.ExerciseOrder = req.ExerciseOrder
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Store.Routines.Get(ctx, link.UserID, link.RoutineID); err != nil {
		return err
	}
	if _, err := h.Store.Exercises.Get(ctx, link.UserID, link.ExerciseID); err != nil {
		return err
	}
	if err := h.Store.ComposedBy.Create(ctx, link); err != nil {
		return duplicateAs(err, "exercise is already in the routine")
	}
	return respond(c, http.StatusCreated, link)
}

// ChangeOrder moves an exercise within a routine.
func (h *RoutineHandler) ChangeOrder(c echo.Context) error {
	link, err := h.link(c)
	if err != nil {
		return err
	}
	var req exerciseOrderReq
	if err := bind(c, &req); err != nil {
		return err
	}
	link.ExerciseOrder = req.ExerciseOrder
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Store.ComposedBy.UpdateOrder(ctx, link); err != nil {
		return err
	}
	return respond(c, http.StatusOK, link)
}

func (h *RoutineHandler) RemoveExercise(c echo.Context) error {
	link, err := h.link(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Store.ComposedBy.Delete(ctx, link.UserID, link.RoutineID, link.ExerciseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrLinkNotFound
	}
	return respondMessage(c, http.StatusOK, "exercise removed from routine")
}

// ListByExercise returns the routines that contain an exercise.
func (h *RoutineHandler) ListByExercise(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	exID, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Store.Exercises.Get(ctx, uid, exID); err != nil {
		return err
	}
	out, err := h.Store.Routines.ListByExercise(ctx, uid, exID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

// Delete removes the routine with its schedule and exercise links.
func (h *RoutineHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id_routine")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Deleter.DeleteRoutine(ctx, uid, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "routine deleted")
}

func (h *RoutineHandler) link(c echo.Context) (model.ComposedBy, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.ComposedBy{}, err
	}
	rtID, err := idParam(c, "id_routine")
	if err != nil {
		return model.ComposedBy{}, err
	}
	exID, err := idParam(c, "id_exercise")
	if err != nil {
		return model.ComposedBy{}, err
	}
	return model.ComposedBy{UserID: uid, RoutineID: rtID, ExerciseID: exID}, nil
}
