// Package repository holds the SQL for every table. Queries use `?`
// placeholders and avoid MySQL-only syntax so the same statements run against
// SQLite in tests.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
)

var (
	ErrUserNotFound       = apperr.NotFound("user")
	ErrCredentialNotFound = apperr.NotFound("credential")
	ErrRoutineNotFound    = apperr.NotFound("routine")
	ErrExerciseNotFound   = apperr.NotFound("exercise")
	ErrSetNotFound        = apperr.NotFound("set")
	ErrPhotoNotFound      = apperr.NotFound("photo")
	ErrDayNotFound        = apperr.NotFound("day")
	ErrMuscleGroupMissing = apperr.NotFound("muscle group")
	ErrLinkNotFound       = apperr.NotFound("relation")

	ErrEmailExists = apperr.Conflict("email already exists")
	// ErrDuplicate is returned when an insert hits a primary or unique key.
	ErrDuplicate = apperr.Conflict("already exists")
	// ErrStaleRefresh means the stored refresh token no longer matches the
	// one the caller expected to replace.
	ErrStaleRefresh = errors.New("stored refresh token changed")
)

// isDuplicate recognizes unique violations from MySQL (1062) and SQLite.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
