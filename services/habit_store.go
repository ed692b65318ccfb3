package services

import (
	"context"

	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

const (
	minLevel      = 1
	maxLevel      = 10
	maxSleepHours = 24.0
)

// HabitStore keeps the per-day habit log.
type HabitStore struct {
	h *history[models.DailyHabitEntry]
}

func NewHabitStore(adapter storage.Adapter, bus *EventBus, log *zap.Logger) *HabitStore {
	return &HabitStore{h: &history[models.DailyHabitEntry]{
		name:      "habits",
		key:       storage.KeyHabits,
		kind:      models.EventHabitsUpdated,
		adapter:   adapter,
		log:       log,
		bus:       bus,
		entries:   map[string]models.DailyHabitEntry{},
		normalize: clampHabit,
		clone:     models.DailyHabitEntry.Clone,
	}}
}

func (s *HabitStore) Load(ctx context.Context) error { return s.h.load(ctx) }

func (s *HabitStore) Get(date string) (models.DailyHabitEntry, bool) { return s.h.get(date) }

func (s *HabitStore) All() map[string]models.DailyHabitEntry { return s.h.all() }

// Range returns entries dated from..to inclusive.
func (s *HabitStore) Range(from, to string) map[string]models.DailyHabitEntry {
	return s.h.rangeOf(from, to)
}

// Dates lists the tracked days in ascending order.
func (s *HabitStore) Dates() []string { return s.h.dates() }

// Set replaces the entry for entry.Date. Callers building a partial entry
// start from models.DefaultHabitEntry.
func (s *HabitStore) Set(ctx context.Context, entry models.DailyHabitEntry) error {
	if !utils.IsDateKey(entry.Date) {
		return ErrInvalidDate
	}
	entry = clampHabit(entry.Date, entry.Clone())
	return s.h.mutate(ctx, entry.Date, func(m map[string]models.DailyHabitEntry) bool {
		m[entry.Date] = entry
		return true
	})
}

// Update merges patch onto the entry for date, or onto the default entry when
// the day has not been logged yet.
func (s *HabitStore) Update(ctx context.Context, date string, patch models.DailyHabitPatch) (models.DailyHabitEntry, error) {
	if !utils.IsDateKey(date) {
		return models.DailyHabitEntry{}, ErrInvalidDate
	}
	var out models.DailyHabitEntry
	err := s.h.mutate(ctx, date, func(m map[string]models.DailyHabitEntry) bool {
		base, ok := m[date]
		if !ok {
			base = models.DefaultHabitEntry(date)
		}
		out = clampHabit(date, base.Merge(patch))
		m[date] = out
		return true
	})
	return out.Clone(), err
}

// SetMany replaces several entries with a single write.
func (s *HabitStore) SetMany(ctx context.Context, entries []models.DailyHabitEntry) error {
	clean := make([]models.DailyHabitEntry, 0, len(entries))
	for _, e := range entries {
		if !utils.IsDateKey(e.Date) {
			return ErrInvalidDate
		}
		clean = append(clean, clampHabit(e.Date, e.Clone()))
	}
	if len(clean) == 0 {
		return nil
	}
	return s.h.mutate(ctx, "", func(m map[string]models.DailyHabitEntry) bool {
		for _, e := range clean {
			m[e.Date] = e
		}
		return true
	})
}

// Remove deletes the entry for date. Removing an unknown day is a no-op.
func (s *HabitStore) Remove(ctx context.Context, date string) error {
	return s.h.mutate(ctx, date, func(m map[string]models.DailyHabitEntry) bool {
		if _, ok := m[date]; !ok {
			return false
		}
		delete(m, date)
		return true
	})
}

func (s *HabitStore) Clear(ctx context.Context) error { return s.h.clear(ctx) }

// Err is the last persistence failure, nil after a successful write.
func (s *HabitStore) Err() error { return s.h.err() }

func clampHabit(date string, e models.DailyHabitEntry) models.DailyHabitEntry {
	e.Date = date
	e.WaterIntake = utils.NonNegative(e.WaterIntake)
	e.SleepHours = utils.ClampFloat(e.SleepHours, 0, maxSleepHours)
	e.StressLevel = utils.ClampInt(e.StressLevel, minLevel, maxLevel)
	e.EnergyLevel = utils.ClampInt(e.EnergyLevel, minLevel, maxLevel)
	e.AlcoholIntake = utils.NonNegative(e.AlcoholIntake)
	e.Smoking = utils.NonNegative(e.Smoking)
	if e.Mood == "" {
		e.Mood = models.DefaultMood
	}
	if e.ScreenTime != nil {
		v := utils.NonNegative(*e.ScreenTime)
		e.ScreenTime = &v
	}
	if e.MeditationMinutes != nil {
		v := utils.NonNegative(*e.MeditationMinutes)
		e.MeditationMinutes = &v
	}
	if e.WakeUpTime != nil && !utils.ValidClock(*e.WakeUpTime) {
		e.WakeUpTime = nil
	}
	return e
}
