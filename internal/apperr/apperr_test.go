package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"wrapped unauthorized", fmt.Errorf("renew: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"not found", NotFound("exercise"), http.StatusNotFound},
		{"validation", Validation("bad type"), http.StatusBadRequest},
		{"conflict", Conflict("email already exists"), http.StatusConflict},
		{"persistence", Persistence("delete sets", errors.New("deadlock")), http.StatusInternalServerError},
		{"external", External("image store", errors.New("timeout")), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestPersistenceKeepsFirstStep(t *testing.T) {
	assert.NoError(t, Persistence("noop", nil))

	inner := Persistence("delete works", errors.New("lock wait timeout"))
	outer := Persistence("delete exercise cascade", inner)

	var pe *PersistenceError
	require.ErrorAs(t, outer, &pe)
	assert.Equal(t, "delete works", pe.Op)
}

func TestMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", Message(Persistence("insert", errors.New("dsn secret"))))
	assert.Equal(t, "invalid authorization", Message(fmt.Errorf("verify: %w", ErrUnauthorized)))
	assert.Equal(t, "exercise not found", Message(NotFound("exercise")))
}

func TestNewKeepsTextAndKind(t *testing.T) {
	err := New(ErrNotFound, "email or password are incorrect")

	assert.Equal(t, "email or password are incorrect", Message(err))
	assert.Equal(t, 404, Status(err))
	assert.ErrorIs(t, err, ErrNotFound)
}
