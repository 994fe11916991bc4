package router

import (
	"github.com/labstack/echo/v4"
)

// registerFitness registers routines, exercises, sets, days, muscle groups
// and photos. Every one of them requires a session.
func registerFitness(v1 *echo.Group, h Handlers, auth []echo.MiddlewareFunc) {
	r := v1.Group("/routine", auth...)
	r.POST("", h.Routine.Create)
	r.GET("", h.Routine.List)
	r.GET("/last", h.Routine.Last)
	r.GET("/exercise/:id_exercise", h.Routine.ListByExercise)
	r.GET("/:id_routine", h.Routine.Get)
	r.PUT("/:id_routine", h.Routine.Update)
	r.DELETE("/:id_routine", h.Routine.Delete)
	r.POST("/:id_routine/exercise/:id_exercise", h.Routine.AddExercise)
	r.PUT("/:id_routine/exercise/:id_exercise", h.Routine.ChangeOrder)
	r.DELETE("/:id_routine/exercise/:id_exercise", h.Routine.RemoveExercise)

	ex := v1.Group("/exercise", auth...)
	ex.POST("", h.Exercise.Create)
	ex.GET("", h.Exercise.List)
	ex.GET("/last", h.Exercise.Last)
	ex.GET("/routine/:id_routine", h.Exercise.ListByRoutine)
	ex.GET("/:id_exercise", h.Exercise.Get)
	ex.GET("/:id_exercise/amount/:kind", h.Exercise.Amount)
	ex.PUT("/:id_exercise", h.Exercise.Update)
	ex.DELETE("/:id_exercise", h.Exercise.Delete)

	s := v1.Group("/set", auth...)
	s.POST("", h.Set.Create)
	s.GET("/exercise/:id_exercise", h.Set.ListByExercise)
	s.GET("/:id_exercise/:id_set", h.Set.Get)
	s.PUT("/:id_exercise/:id_set", h.Set.Update)
	s.DELETE("/:id_exercise/:id_set", h.Set.Delete)

	d := v1.Group("/day", auth...)
	d.GET("", h.Day.List)
	d.GET("/routine/:id_routine", h.Day.ListByRoutine)
	d.POST("/:id_day/routine/:id_routine", h.Day.Schedule)
	d.DELETE("/:id_day/routine/:id_routine", h.Day.Unschedule)

	mg := v1.Group("/muscle_group", auth...)
	mg.GET("", h.MuscleGroup.List)
	mg.GET("/exercise/:id_exercise", h.MuscleGroup.ListByExercise)
	mg.POST("/:id_muscle_group/exercise/:id_exercise", h.MuscleGroup.Assign)
	mg.DELETE("/:id_muscle_group/exercise/:id_exercise", h.MuscleGroup.Unassign)

	p := v1.Group("/photo", auth...)
	p.POST("/exercise/:id_exercise", h.Photo.Upload)
	p.GET("/exercise/:id_exercise", h.Photo.ListByExercise)
	p.DELETE("/exercise/:id_exercise/:public_id", h.Photo.Delete)
}
