package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Success  bool    `json:"success"`
		Resource message `json:"resource"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Success, body.Resource.Message
}

func TestErrorHandlerStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{repository.ErrRoutineNotFound, http.StatusNotFound, "routine not found"},
		{apperr.Validation("bad input"), http.StatusBadRequest, "validation failed: bad input"},
		{apperr.ErrUnauthorized, http.StatusUnauthorized, "invalid authorization"},
		{repository.ErrEmailExists, http.StatusConflict, "conflict: email already exists"},
		{apperr.Persistence("delete sets", errors.New("disk full")), http.StatusInternalServerError, "internal server error"},
		{echo.NewHTTPError(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed, "Method Not Allowed"},
	}
	for _, tc := range cases {
		c, rec := newContext(http.MethodGet, "/")
		ErrorHandler(tc.err, c)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		ok, msg := decodeEnvelope(t, rec)
		assert.False(t, ok)
		assert.Equal(t, tc.msg, msg)
	}
}

func TestErrorHandlerSkipsCommittedResponse(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")
	require.NoError(t, respondMessage(c, http.StatusOK, "done"))
	ErrorHandler(apperr.ErrUnauthorized, c)
	assert.Equal(t, http.StatusOK, rec.Code)
	ok, msg := decodeEnvelope(t, rec)
	assert.True(t, ok)
	assert.Equal(t, "done", msg)
}

func TestIDParam(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/")
	c.SetParamNames("id_routine", "id_exercise")
	c.SetParamValues("12", "zero")

	id, err := idParam(c, "id_routine")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)

	_, err = idParam(c, "id_exercise")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListOptionsSplitsFilterValues(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/?sort_by=created_at&order=DESC&filter=day&filter_values=1,%202&filter_values=5")
	opts := listOptions(c)
	assert.Equal(t, "created_at", opts.SortBy)
	assert.Equal(t, "DESC", opts.Order)
	assert.Equal(t, "day", opts.Filter)
	assert.Equal(t, []string{"1", "2", "5"}, opts.FilterValues)
}

func TestDuplicateAs(t *testing.T) {
	err := duplicateAs(repository.ErrDuplicate, "already linked")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "validation failed: already linked", err.Error())

	other := errors.New("boom")
	assert.Same(t, other, duplicateAs(other, "already linked"))
}

func TestBindValidates(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"exercise_name":"Row","intensity":7}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var dst exerciseReq
	err := bind(c, &dst)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "Intensity")
}

func TestFormImageWithoutMultipart(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/")
	img, closeImg, err := formImage(c)
	defer closeImg()
	require.NoError(t, err)
	assert.Nil(t, img)
}
