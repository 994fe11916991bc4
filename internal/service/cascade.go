package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

// DeletionService removes aggregates together with every row that
// references them. Each cascade is one transaction; the first failing step
// rolls everything back and is reported as a PersistenceError naming it.
// Images are purged from the store only after the commit.
type DeletionService struct {
	Store  *repository.Store
	Images ImageStore
	Log    *slog.Logger
}

type step struct {
	op  string
	run func() error
}

func runSteps(steps []step) error {
	for _, st := range steps {
		if err := st.run(); err != nil {
			return storeError(st.op, err)
		}
	}
	return nil
}

func byUser(ctx context.Context, userID uint64, fn func(context.Context, uint64) (int64, error)) func() error {
	return func() error {
		_, err := fn(ctx, userID)
		return err
	}
}

// byOwned adapts a delete keyed by (user, id): an exercise or a routine.
func byOwned(ctx context.Context, userID, id uint64, fn func(context.Context, uint64, uint64) (int64, error)) func() error {
	return func() error {
		_, err := fn(ctx, userID, id)
		return err
	}
}

// DeleteUser removes the account and everything it owns.
func (s *DeletionService) DeleteUser(ctx context.Context, userID uint64) error {
	var (
		user   model.User
		photos []model.Photo
	)
	err := s.Store.InTx(ctx, func(r *repository.Repos) error {
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return storeError("load user", err)
		}
		user = u

		return runSteps([]step{
			{"delete time sets", byUser(ctx, userID, r.TimeSets.DeleteByUser)},
			{"delete repetition sets", byUser(ctx, userID, r.RepetitionSets.DeleteByUser)},
			{"delete sets", byUser(ctx, userID, r.Sets.DeleteByUser)},
			{"delete muscle group links", byUser(ctx, userID, r.Works.DeleteByUser)},
			{"load photos", func() (err error) {
				photos, err = r.Photos.ListByUser(ctx, userID)
				return err
			}},
			{"delete photos", byUser(ctx, userID, r.Photos.DeleteByUser)},
			{"delete routine links", byUser(ctx, userID, r.ComposedBy.DeleteByUser)},
			{"delete exercises", byUser(ctx, userID, r.Exercises.DeleteByUser)},
			{"delete scheduled days", byUser(ctx, userID, r.Scheduled.DeleteByUser)},
			{"delete routines", byUser(ctx, userID, r.Routines.DeleteByUser)},
			{"delete feedback", byUser(ctx, userID, r.Feedback.DeleteByUser)},
			{"delete invalid tokens", byUser(ctx, userID, r.InvalidTokens.DeleteByUser)},
			{"delete credential", byUser(ctx, userID, r.Credentials.DeleteByUser)},
			{"delete user", byUser(ctx, userID, r.Users.Delete)},
		})
	})
	if err != nil {
		return storeError("delete user", err)
	}

	ids := photoIDs(photos)
	if user.HasCustomPhoto() {
		ids = append(ids, user.PublicIDProfilePhoto)
	}
	s.purge(ctx, ids)
	return nil
}

// DeleteExercise removes one exercise with its sets, muscle group links,
// photos and routine links. Rows of other exercises are untouched.
func (s *DeletionService) DeleteExercise(ctx context.Context, userID, exerciseID uint64) error {
	var photos []model.Photo
	err := s.Store.InTx(ctx, func(r *repository.Repos) error {
		if _, err := r.Exercises.Get(ctx, userID, exerciseID); err != nil {
			return storeError("load exercise", err)
		}
		return runSteps([]step{
			{"delete time sets", byOwned(ctx, userID, exerciseID, r.TimeSets.DeleteByExercise)},
			{"delete repetition sets", byOwned(ctx, userID, exerciseID, r.RepetitionSets.DeleteByExercise)},
			{"delete sets", byOwned(ctx, userID, exerciseID, r.Sets.DeleteByExercise)},
			{"delete muscle group links", byOwned(ctx, userID, exerciseID, r.Works.DeleteByExercise)},
			{"load photos", func() (err error) {
				photos, err = r.Photos.ListByExercise(ctx, userID, exerciseID)
				return err
			}},
			{"delete photos", byOwned(ctx, userID, exerciseID, r.Photos.DeleteByExercise)},
			{"delete routine links", byOwned(ctx, userID, exerciseID, r.ComposedBy.DeleteByExercise)},
			{"delete exercise", byOwned(ctx, userID, exerciseID, r.Exercises.Delete)},
		})
	})
	if err != nil {
		return storeError("delete exercise", err)
	}
	s.purge(ctx, photoIDs(photos))
	return nil
}

// DeleteRoutine removes a routine, its schedule and its exercise links. The
// exercises themselves stay.
func (s *DeletionService) DeleteRoutine(ctx context.Context, userID, routineID uint64) error {
	err := s.Store.InTx(ctx, func(r *repository.Repos) error {
		if _, err := r.Routines.Get(ctx, userID, routineID); err != nil {
			return storeError("load routine", err)
		}
		return runSteps([]step{
			{"delete scheduled days", byOwned(ctx, userID, routineID, r.Scheduled.DeleteByRoutine)},
			{"delete routine links", byOwned(ctx, userID, routineID, r.ComposedBy.DeleteByRoutine)},
			{"delete routine", byOwned(ctx, userID, routineID, r.Routines.Delete)},
		})
	})
	return storeError("delete routine", err)
}

func (s *DeletionService) DeleteSet(ctx context.Context, userID, exerciseID, setID uint64) error {
	err := s.Store.InTx(ctx, func(r *repository.Repos) error {
		if _, err := r.Sets.Get(ctx, userID, exerciseID, setID); err != nil {
			return storeError("load set", err)
		}
		bySet := func(fn func(context.Context, uint64, uint64, uint64) (int64, error)) func() error {
			return func() error {
				_, err := fn(ctx, userID, exerciseID, setID)
				return err
			}
		}
		return runSteps([]step{
			{"delete time set", bySet(r.TimeSets.Delete)},
			{"delete repetition set", bySet(r.RepetitionSets.Delete)},
			{"delete set", bySet(r.Sets.Delete)},
		})
	})
	return storeError("delete set", err)
}

// DeletePhoto removes one exercise photo row, then its image.
func (s *DeletionService) DeletePhoto(ctx context.Context, userID, exerciseID uint64, publicID string) error {
	if _, err := s.Store.Photos.Get(ctx, userID, exerciseID, publicID); err != nil {
		return storeError("load photo", err)
	}
	if _, err := s.Store.Photos.Delete(ctx, userID, exerciseID, publicID); err != nil {
		return storeError("delete photo", err)
	}
	s.purge(ctx, []string{publicID})
	return nil
}

// purge deletes images best-effort. It runs after the rows are committed,
// so it ignores cancellation of the request.
func (s *DeletionService) purge(ctx context.Context, ids []string) {
	if s.Images == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if id == "" || id == model.DefaultProfilePhotoID {
			continue
		}
		if err := s.Images.Delete(ctx, id); err != nil {
			s.logger().WarnContext(ctx, "image purge failed", "public_id", id, "err", err)
		}
	}
}

func (s *DeletionService) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func photoIDs(photos []model.Photo) []string {
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.PublicID)
	}
	return ids
}
