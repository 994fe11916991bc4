package model

import "time"

// Routine mirrors the `routines` table.
type Routine struct {
	ID              uint64    `json:"id_routine"`
	UserID          uint64    `json:"-"`
	Name            string    `json:"routine_name"`
	Description     string    `json:"description"`
	TimeBeforeStart int       `json:"time_before_start"`
	Usage           int       `json:"usage_routine"`
	IsFavorite      bool      `json:"is_favorite"`
	CreatedAt       time.Time `json:"created_at"`
}

// ComposedBy links an exercise into a routine at a position.
type ComposedBy struct {
	UserID        uint64 `json:"-"`
	ExerciseID    uint64 `json:"id_exercise"`
	RoutineID     uint64 `json:"id_routine"`
	ExerciseOrder int    `json:"exercise_order"`
}

// Day is one of the seven weekdays a routine can be scheduled on.
type Day struct {
	ID   uint8  `json:"id_day"`
	Name string `json:"day_name"`
}

// Scheduled places a routine on a day.
type Scheduled struct {
	UserID    uint64 `json:"-"`
	DayID     uint8  `json:"id_day"`
	RoutineID uint64 `json:"id_routine"`
}
