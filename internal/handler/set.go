package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// SetHandler serves /v1/set. A set is addressed by its exercise and its id
// within that exercise.
type SetHandler struct {
	Store   *repository.Store
	Sets    *service.SetService
	Deleter *service.DeletionService
}

type setReq struct {
	ExerciseID   uint64          `json:"id_exercise" validate:"required"`
	Weight       float64         `json:"weight" validate:"gte=0"`
	RestAfterSet int             `json:"rest_after_set" validate:"gte=0"`
	SetOrder     int             `json:"set_order" validate:"gte=0"`
	Type         string          `json:"type" validate:"required,oneof=time repetition"`
	Quantity     json.RawMessage `json:"quantity" validate:"required"`
}

type setPatch struct {
	Weight       *float64        `json:"weight" validate:"omitempty,gte=0"`
	RestAfterSet *int            `json:"rest_after_set" validate:"omitempty,gte=0"`
	SetOrder     *int            `json:"set_order" validate:"omitempty,gte=0"`
	Type         *string         `json:"type" validate:"omitempty,oneof=time repetition"`
	Quantity     json.RawMessage `json:"quantity"`
}

func (h *SetHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	var req setReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Sets.Create(ctx, uid, service.SetInput{
		ExerciseID:   req.ExerciseID,
		Weight:       req.Weight,
		RestAfterSet: req.RestAfterSet,
		SetOrder:     req.SetOrder,
		Type:         req.Type,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, d)
}

// ListByExercise returns the sets of an exercise with their quantities.
func (h *SetHandler) ListByExercise(c echo.Context) error {
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
	out, err := h.Store.Sets.ListDetails(ctx, uid, exID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, out)
}

func (h *SetHandler) Get(c echo.Context) error {
	uid, exID, setID, err := setParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	all, err := h.Store.Sets.ListDetails(ctx, uid, exID)
	if err != nil {
		return err
	}
	for _, d := range all {
		if d.ID == setID {
			return respond(c, http.StatusOK, d)
		}
	}
	return repository.ErrSetNotFound
}

func (h *SetHandler) Update(c echo.Context) error {
	uid, exID, setID, err := setParams(c)
	if err != nil {
		return err
	}
	var req setPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Sets.Update(ctx, uid, exID, setID, service.SetPatch{
		Weight:       req.Weight,
		RestAfterSet: req.RestAfterSet,
		SetOrder:     req.SetOrder,
		Type:         req.Type,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, d)
}

func (h *SetHandler) Delete(c echo.Context) error {
	uid, exID, setID, err := setParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Deleter.DeleteSet(ctx, uid, exID, setID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "set deleted")
}

func setParams(c echo.Context) (uid, exID, setID uint64, err error) {
	if uid, err = getUserID(c); err != nil {
		return
	}
	if exID, err = idParam(c, "id_exercise"); err != nil {
		return
	}
	setID, err = idParam(c, "id_set")
	return
}
