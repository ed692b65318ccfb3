package services

import (
	"context"

	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

// WorkoutStore keeps minutes per activity per day.
type WorkoutStore struct {
	h *history[models.DailyWorkout]
}

func NewWorkoutStore(adapter storage.Adapter, bus *EventBus, log *zap.Logger) *WorkoutStore {
	return &WorkoutStore{h: &history[models.DailyWorkout]{
		name:    "workout",
		key:     storage.KeyWorkoutHistory,
		kind:    models.EventWorkoutUpdated,
		adapter: adapter,
		log:     log,
		bus:     bus,
		entries: map[string]models.DailyWorkout{},
		normalize: func(date string, w models.DailyWorkout) models.DailyWorkout {
			w.Date = date
			for _, f := range models.WorkoutFields {
				w.SetMinutes(f, utils.NonNegative(w.Minutes(f)))
			}
			return w
		},
		clone: func(w models.DailyWorkout) models.DailyWorkout { return w },
	}}
}

func (s *WorkoutStore) Load(ctx context.Context) error { return s.h.load(ctx) }

func (s *WorkoutStore) Get(date string) (models.DailyWorkout, bool) { return s.h.get(date) }

func (s *WorkoutStore) All() map[string]models.DailyWorkout { return s.h.all() }

// Set records an absolute number of minutes for field on date.
func (s *WorkoutStore) Set(ctx context.Context, date string, field models.WorkoutField, minutes int) (models.DailyWorkout, error) {
	return s.apply(ctx, date, field, func(cur int) int { return minutes })
}

// Add increments field on date by minutes. The result never drops below zero.
func (s *WorkoutStore) Add(ctx context.Context, date string, field models.WorkoutField, minutes int) (models.DailyWorkout, error) {
	return s.apply(ctx, date, field, func(cur int) int { return cur + minutes })
}

// AddPlan adds each category's planned total to the day in one write.
func (s *WorkoutStore) AddPlan(ctx context.Context, date string, plan models.WorkoutPlan) (models.DailyWorkout, error) {
	if !utils.IsDateKey(date) {
		return models.DailyWorkout{}, ErrInvalidDate
	}
	var out models.DailyWorkout
	err := s.h.mutate(ctx, date, func(m map[string]models.DailyWorkout) bool {
		day, ok := m[date]
		if !ok {
			day = models.DailyWorkout{Date: date}
		}
		for _, f := range models.WorkoutFields {
			day.SetMinutes(f, utils.NonNegative(day.Minutes(f)+plan.CategoryMinutes(f)))
		}
		m[date] = day
		out = day
		return true
	})
	return out, err
}

func (s *WorkoutStore) apply(ctx context.Context, date string, field models.WorkoutField, next func(cur int) int) (models.DailyWorkout, error) {
	if !utils.IsDateKey(date) {
		return models.DailyWorkout{}, ErrInvalidDate
	}
	if !field.Valid() {
		return models.DailyWorkout{}, ErrInvalidField
	}
	var out models.DailyWorkout
	err := s.h.mutate(ctx, date, func(m map[string]models.DailyWorkout) bool {
		day, ok := m[date]
		if !ok {
			day = models.DailyWorkout{Date: date}
		}
		day.SetMinutes(field, utils.NonNegative(next(day.Minutes(field))))
		m[date] = day
		out = day
		return true
	})
	return out, err
}

func (s *WorkoutStore) Clear(ctx context.Context) error { return s.h.clear(ctx) }

func (s *WorkoutStore) Err() error { return s.h.err() }
