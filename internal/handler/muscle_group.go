package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

// MuscleGroupHandler serves /v1/muscle_group.
type MuscleGroupHandler struct {
	Store *repository.Store
}

func (h *MuscleGroupHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	groups, err := h.Store.MuscleGroups.List(ctx)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groups)
}

// Assign records that an exercise trains a muscle group.
func (h *MuscleGroupHandler) Assign(c echo.Context) error {
	w, err := worksParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Store.MuscleGroups.Exists(ctx, w.MuscleGroupID)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrMuscleGroupMissing
	}
	if _, err := h.Store.Exercises.Get(ctx, w.UserID, w.ExerciseID); err != nil {
		return err
	}
	if err := h.Store.Works.Create(ctx, w); err != nil {
		return duplicateAs(err, "exercise already works that muscle group")
	}
	return respond(c, http.StatusCreated, w)
}

func (h *MuscleGroupHandler) ListByExercise(c echo.Context) error {
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
	groups, err := h.Store.Works.ListByExercise(ctx, uid, exID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groups)
}

func (h *MuscleGroupHandler) Unassign(c echo.Context) error {
	w, err := worksParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Store.Works.Delete(ctx, w)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrLinkNotFound
	}
	return respondMessage(c, http.StatusOK, "muscle group removed from exercise")
}

func worksParams(c echo.Context) (model.Works, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.Works{}, err
	}
	mgID, err := idParam(c, "id_muscle_group")
	if err != nil {
		return model.Works{}, err
	}
	exID, err := idParam(c, "id_exercise")
	if err != nil {
		return model.Works{}, err
	}
	return model.Works{UserID: uid, ExerciseID: exID, MuscleGroupID: mgID}, nil
}
