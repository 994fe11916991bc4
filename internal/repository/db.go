package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so every repository can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles one repository per table over the same handle.
type Repos struct {
	Users          *UserRepo
	Credentials    *CredentialRepo
	InvalidTokens  *InvalidTokenRepo
	Routines       *RoutineRepo
	Exercises      *ExerciseRepo
	Sets           *SetRepo
	TimeSets       *TimeSetRepo
	RepetitionSets *RepetitionSetRepo
	MuscleGroups   *MuscleGroupRepo
	Works          *WorksRepo
	Photos         *PhotoRepo
	ComposedBy     *ComposedByRepo
	Days           *DayRepo
	Scheduled      *ScheduledRepo
	Feedback       *FeedbackRepo
}

func NewRepos(db DBTX) *Repos {
	return &Repos{
		Users:          NewUserRepo(db),
		Credentials:    NewCredentialRepo(db),
		InvalidTokens:  NewInvalidTokenRepo(db),
		Routines:       NewRoutineRepo(db),
		Exercises:      NewExerciseRepo(db),
		Sets:           NewSetRepo(db),
		TimeSets:       NewTimeSetRepo(db),
		RepetitionSets: NewRepetitionSetRepo(db),
		MuscleGroups:   NewMuscleGroupRepo(db),
		Works:          NewWorksRepo(db),
		Photos:         NewPhotoRepo(db),
		ComposedBy:     NewComposedByRepo(db),
		Days:           NewDayRepo(db),
		Scheduled:      NewScheduledRepo(db),
		Feedback:       NewFeedbackRepo(db),
	}
}

// Store owns the pool. Its embedded Repos run outside any transaction;
// InTx hands fn a Repos bound to a fresh transaction.
type Store struct {
	*Repos
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{Repos: NewRepos(db), db: db}
}

// InTx commits when fn returns nil and rolls back otherwise (also on panic,
// which is re-raised).
func (s *Store) InTx(ctx context.Context, fn func(r *Repos) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	err = fn(NewRepos(tx))
	return err
}
