package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

// PhotoHandler serves /v1/photo: images attached to an exercise.
type PhotoHandler struct {
	Store   *repository.Store
	Images  service.ImageStore
	Deleter *service.DeletionService
}

// Upload stores the multipart "image" and links it to the exercise. If the
// row cannot be written the stored object is removed again.
func (h *PhotoHandler) Upload(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	exID, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	img, closeImg, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImg()
	if img == nil {
		return apperr.Validation("image is required")
	}

	ctx, cancel := contextWithTimeout(c, 2*requestTimeout)
	defer cancel()

	if _, err := h.Store.Exercises.Get(ctx, uid, exID); err != nil {
		return err
	}
	stored, err := h.Images.Upload(ctx, img.Body, img.ContentType)
	if err != nil {
		return apperr.External("image store", err)
	}
	p := model.Photo{UserID: uid, ExerciseID: exID, PublicID: stored.PublicID, URL: stored.URL}
	if err := h.Store.Photos.Create(ctx, p); err != nil {
		if derr := h.Images.Delete(context.WithoutCancel(ctx), stored.PublicID); derr != nil {
			logging.FromContext(ctx).Warn("remove orphan image", "public_id", stored.PublicID, "err", derr)
		}
		return err
	}
	return respond(c, http.StatusCreated, p)
}

func (h *PhotoHandler) ListByExercise(c echo.Context) error {
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
	photos, err := h.Store.Photos.ListByExercise(ctx, uid, exID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, photos)
}

func (h *PhotoHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return err
	}
	exID, err := idParam(c, "id_exercise")
	if err != nil {
		return err
	}
	publicID := c.Param("public_id")
	if publicID == "" {
		return apperr.Validation("public_id is required")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Deleter.DeletePhoto(ctx, uid, exID, publicID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "photo deleted")
}
