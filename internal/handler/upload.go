package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/service"
)

const maxImageBytes = 10 << 20

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formImage opens the "image" file of a multipart request. It returns nil
// when the request carries no image. The returned func closes the file.
func formImage(c echo.Context) (*service.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperr.Validation("invalid image upload")
	}
	if fh.Size > maxImageBytes {
		return nil, noop, apperr.Validation("image is larger than 10MB")
	}
	ct := fh.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ct, "image/") {
		return nil, noop, apperr.Validation("image must be an image file")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperr.Validation("invalid image upload")
	}
	return &service.Upload{Body: f, ContentType: ct}, func() { _ = f.Close() }, nil
}
