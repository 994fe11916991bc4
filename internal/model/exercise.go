package model

import "time"

// Exercise mirrors the `exercises` table. Intensity goes from 1 to 3.
type Exercise struct {
	ID                uint64    `json:"id_exercise"`
	UserID            uint64    `json:"-"`
	Name              string    `json:"exercise_name"`
	Description       string    `json:"description"`
	TimeAfterExercise int       `json:"time_after_exercise"`
	Intensity         int       `json:"intensity"`
	IsFavorite        bool      `json:"is_favorite"`
	CreatedAt         time.Time `json:"created_at"`
}

// RoutineExercise is an exercise as it appears inside a routine.
type RoutineExercise struct {
	Exercise
	ExerciseOrder int `json:"exercise_order"`
}

type MuscleGroup struct {
	ID   uint64 `json:"id_muscle_group"`
	Name string `json:"name"`
}

// Works records that an exercise trains a muscle group.
type Works struct {
	UserID        uint64 `json:"-"`
	ExerciseID    uint64 `json:"id_exercise"`
	MuscleGroupID uint64 `json:"id_muscle_group"`
}

// Photo is an exercise image; PublicID is the image store key.
type Photo struct {
	UserID     uint64 `json:"-"`
	ExerciseID uint64 `json:"id_exercise"`
	PublicID   string `json:"public_id"`
	URL        string `json:"url_photo"`
}
