package service

import (
	"context"
	"errors"
	"io"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/imagestore"
	"github.com/iliyamo/myroutine-backend/internal/queue"
)

// ImageStore is the external home of exercise and profile photos.
type ImageStore interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (imagestore.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// EmailSender queues an outgoing email.
type EmailSender interface {
	Send(ctx context.Context, msg queue.EmailMessage) error
}

// Upload is an image received from a client.
type Upload struct {
	Body        io.Reader
	ContentType string
}

// storeError passes kind errors through and marks anything else as a
// persistence failure of op.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *apperr.PersistenceError
	switch {
	case errors.As(err, &pe),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrUnauthorized):
		return err
	}
	return apperr.Persistence(op, err)
}
