package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

// DayHandler serves /v1/day: the fixed weekdays and the routines scheduled
// on them.
type DayHandler struct {
	Store *repository.Store
}

func (h *DayHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	days, err := h.Store.Days.List(ctx)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, days)
}

func (h *DayHandler) Schedule(c echo.Context) error {
	s, err := scheduledParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.Store.Days.Exists(ctx, s.DayID)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrDayNotFound
	}
	if _, err := h.Store.Routines.Get(ctx, s.UserID, s.RoutineID); err != nil {
		return err
	}
	if err := h.Store.Scheduled.Create(ctx, s); err != nil {
		return duplicateAs(err, "routine is already scheduled on that day")
	}
	return respond(c, http.StatusCreated, s)
}

// ListByRoutine returns the days a routine is scheduled on.
func (h *DayHandler) ListByRoutine(c echo.Context) error {
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
	days, err := h.Store.Scheduled.ListDaysByRoutine(ctx, uid, rtID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, days)
}

func (h *DayHandler) Unschedule(c echo.Context) error {
	s, err := scheduledParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Store.Scheduled.Delete(ctx, s)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrLinkNotFound
	}
	return respondMessage(c, http.StatusOK, "routine unscheduled")
}

func scheduledParams(c echo.Context) (model.Scheduled, error) {
	uid, err := getUserID(c)
	if err != nil {
		return model.Scheduled{}, err
	}
	day, err := strconv.ParseUint(c.Param("id_day"), 10, 8)
	if err != nil || day == 0 {
		return model.Scheduled{}, apperr.Validation("id_day must be between 1 and 7")
	}
	rtID, err := idParam(c, "id_routine")
	if err != nil {
		return model.Scheduled{}, err
	}
	return model.Scheduled{UserID: uid, DayID: uint8(day), RoutineID: rtID}, nil
}
