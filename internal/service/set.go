package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iliyamo/myroutine-backend/internal/apperr"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/repository"
)

// SetService writes a set together with its time or repetition row.
type SetService struct {
	Store *repository.Store
}

// SetInput describes a new set. Quantity is a "HH:MM:SS" string for time
// sets and a positive integer for repetition sets.
type SetInput struct {
	ExerciseID   uint64
	Weight       float64
	RestAfterSet int
	SetOrder     int
	Type         string
	Quantity     json.RawMessage
}

// SetPatch changes an existing set. Changing Type requires Quantity.
type SetPatch struct {
	Weight       *float64
	RestAfterSet *int
	SetOrder     *int
	Type         *string
	Quantity     json.RawMessage
}

type quantity struct {
	time       string
	repetition int
}

func parseQuantity(typ string, raw json.RawMessage) (quantity, error) {
	var q quantity
	switch typ {
	case model.SetTypeTime:
		if err := json.Unmarshal(raw, &q.time); err != nil {
			return q, apperr.Validation("quantity of a time set must be a string")
		}
		if _, err := time.Parse(time.TimeOnly, q.time); err != nil {
			return q, apperr.Validation("quantity of a time set must look like HH:MM:SS")
		}
	case model.SetTypeRepetition:
		if err := json.Unmarshal(raw, &q.repetition); err != nil || q.repetition <= 0 {
			return q, apperr.Validation("quantity of a repetition set must be a positive integer")
		}
	default:
		return q, apperr.Validation("type must be time or repetition")
	}
	return q, nil
}

// Create inserts the set with the next free id of its exercise.
func (s *SetService) Create(ctx context.Context, userID uint64, in SetInput) (model.SetDetail, error) {
	q, err := parseQuantity(in.Type, in.Quantity)
	if err != nil {
		return model.SetDetail{}, err
	}

	set := model.Set{
		UserID:       userID,
		ExerciseID:   in.ExerciseID,
		Weight:       in.Weight,
		RestAfterSet: in.RestAfterSet,
		SetOrder:     in.SetOrder,
	}
	err = s.Store.InTx(ctx, func(r *repository.Repos) error {
		if _, err := r.Exercises.Get(ctx, userID, in.ExerciseID); err != nil {
			return storeError("load exercise", err)
		}
		id, err := r.Sets.NextID(ctx, userID, in.ExerciseID)
		if err != nil {
			return storeError("next set id", err)
		}
		set.ID = id
		if err := r.Sets.Create(ctx, set); err != nil {
			return storeError("create set", err)
		}
		return writeQuantity(ctx, r, set, in.Type, q)
	})
	if err != nil {
		return model.SetDetail{}, storeError("create set", err)
	}
	return detail(set, in.Type, q), nil
}

// Update applies p. A type change moves the quantity row to the other table.
func (s *SetService) Update(ctx context.Context, userID, exerciseID, setID uint64, p SetPatch) (model.SetDetail, error) {
	var out model.SetDetail
	err := s.Store.InTx(ctx, func(r *repository.Repos) error {
		set, err := r.Sets.Get(ctx, userID, exerciseID, setID)
		if err != nil {
			return storeError("load set", err)
		}
		if p.Weight != nil {
			set.Weight = *p.Weight
		}
		if p.RestAfterSet != nil {
			set.RestAfterSet = *p.RestAfterSet
		}
		if p.SetOrder != nil {
			set.SetOrder = *p.SetOrder
		}
		if err := r.Sets.Update(ctx, set); err != nil {
			return storeError("update set", err)
		}

		current, cq, err := readQuantity(ctx, r, set)
		if err != nil {
			return err
		}
		typ := current
		if p.Type != nil {
			typ = *p.Type
		}
		if len(p.Quantity) == 0 {
			if typ != current {
				return apperr.Validation("changing the type of a set requires a quantity")
			}
			out = detail(set, current, cq)
			return nil
		}

		q, err := parseQuantity(typ, p.Quantity)
		if err != nil {
			return err
		}
		if typ != current {
			if err := dropQuantity(ctx, r, set, current); err != nil {
				return err
			}
			if err := writeQuantity(ctx, r, set, typ, q); err != nil {
				return err
			}
		} else if err := updateQuantity(ctx, r, set, typ, q); err != nil {
			return err
		}
		out = detail(set, typ, q)
		return nil
	})
	if err != nil {
		return model.SetDetail{}, storeError("update set", err)
	}
	return out, nil
}

func readQuantity(ctx context.Context, r *repository.Repos, set model.Set) (string, quantity, error) {
	ts, found, err := r.TimeSets.Find(ctx, set.UserID, set.ExerciseID, set.ID)
	if err != nil {
		return "", quantity{}, storeError("load time set", err)
	}
	if found {
		return model.SetTypeTime, quantity{time: ts.Time}, nil
	}
	rs, found, err := r.RepetitionSets.Find(ctx, set.UserID, set.ExerciseID, set.ID)
	if err != nil {
		return "", quantity{}, storeError("load repetition set", err)
	}
	if found {
		return model.SetTypeRepetition, quantity{repetition: rs.Repetition}, nil
	}
	return "", quantity{}, nil
}

func writeQuantity(ctx context.Context, r *repository.Repos, set model.Set, typ string, q quantity) error {
	if typ == model.SetTypeTime {
		return storeError("create time set", r.TimeSets.Create(ctx, model.TimeSet{
			UserID: set.UserID, ExerciseID: set.ExerciseID, SetID: set.ID, Time: q.time,
		}))
	}
	return storeError("create repetition set", r.RepetitionSets.Create(ctx, model.RepetitionSet{
		UserID: set.UserID, ExerciseID: set.ExerciseID, SetID: set.ID, Repetition: q.repetition,
	}))
}

func updateQuantity(ctx context.Context, r *repository.Repos, set model.Set, typ string, q quantity) error {
	if typ == model.SetTypeTime {
		return storeError("update time set", r.TimeSets.Update(ctx, model.TimeSet{
			UserID: set.UserID, ExerciseID: set.ExerciseID, SetID: set.ID, Time: q.time,
		}))
	}
	return storeError("update repetition set", r.RepetitionSets.Update(ctx, model.RepetitionSet{
		UserID: set.UserID, ExerciseID: set.ExerciseID, SetID: set.ID, Repetition: q.repetition,
	}))
}

func dropQuantity(ctx context.Context, r *repository.Repos, set model.Set, typ string) error {
	var err error
	switch typ {
	case model.SetTypeTime:
		_, err = r.TimeSets.Delete(ctx, set.UserID, set.ExerciseID, set.ID)
	case model.SetTypeRepetition:
		_, err = r.RepetitionSets.Delete(ctx, set.UserID, set.ExerciseID, set.ID)
	}
	return storeError("delete "+typ+" set", err)
}

func detail(set model.Set, typ string, q quantity) model.SetDetail {
	d := model.SetDetail{Set: set, Type: typ}
	switch typ {
	case model.SetTypeTime:
		t := q.time
		d.Time = &t
	case model.SetTypeRepetition:
		n := q.repetition
		d.Repetition = &n
	}
	return d
}
