package model

// Set kinds. A set row has exactly one companion row in time_sets or
// repetition_sets depending on its kind.
const (
	SetTypeTime       = "time"
	SetTypeRepetition = "repetition"
)

// Set mirrors the `sets` table; ID is unique per (user, exercise).
type Set struct {
	UserID       uint64  `json:"-"`
	ExerciseID   uint64  `json:"id_exercise"`
	ID           uint64  `json:"id_set"`
	Weight       float64 `json:"weight"`
	RestAfterSet int     `json:"rest_after_set"`
	SetOrder     int     `json:"set_order"`
}

type TimeSet struct {
	UserID     uint64
	ExerciseID uint64
	SetID      uint64
	Time       string
}

type RepetitionSet struct {
	UserID     uint64
	ExerciseID uint64
	SetID      uint64
	Repetition int
}

// SetDetail is a set joined with its time or repetition quantity.
type SetDetail struct {
	Set
	Type       string  `json:"type"`
	Time       *string `json:"time,omitempty"`
	Repetition *int    `json:"repetition,omitempty"`
}
