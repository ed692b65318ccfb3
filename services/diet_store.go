package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
	"healthdash/utils"
)

// DietStore keeps the per-day meal log.
type DietStore struct {
	h *history[models.DailyDiet]
}

func NewDietStore(adapter storage.Adapter, bus *EventBus, log *zap.Logger) *DietStore {
	return &DietStore{h: &history[models.DailyDiet]{
		name:      "diet",
		key:       storage.KeyDietHistory,
		kind:      models.EventDietUpdated,
		adapter:   adapter,
		log:       log,
		bus:       bus,
		entries:   map[string]models.DailyDiet{},
		normalize: normalizeDiet,
		clone:     models.DailyDiet.Clone,
	}}
}

func (s *DietStore) Load(ctx context.Context) error { return s.h.load(ctx) }

func (s *DietStore) Get(date string) (models.DailyDiet, bool) { return s.h.get(date) }

func (s *DietStore) All() map[string]models.DailyDiet { return s.h.all() }

// AddMeal appends item to the meal bucket of date, creating the day with four
// empty buckets when needed. A missing or colliding ID is replaced with a new one.
func (s *DietStore) AddMeal(ctx context.Context, date string, meal models.MealType, item models.MealItem) (models.MealItem, error) {
	if !utils.IsDateKey(date) {
		return models.MealItem{}, ErrInvalidDate
	}
	if !meal.Valid() {
		return models.MealItem{}, ErrInvalidMeal
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return models.MealItem{}, ErrInvalidMealItem
	}
	item = clampMealItem(item)

	err := s.h.mutate(ctx, date, func(m map[string]models.DailyDiet) bool {
		day, ok := m[date]
		if !ok {
			day = models.EmptyDailyDiet(date)
		}
		if item.ID == "" || hasMealID(day, item.ID) {
			item.ID = uuid.NewString()
		}
		day.SetBucket(meal, append(day.Bucket(meal), item))
		m[date] = day
		return true
	})
	return item, err
}

// RemoveMeal drops the item with id from the meal bucket of date. It reports
// whether an item was removed; an unknown date or id writes nothing.
func (s *DietStore) RemoveMeal(ctx context.Context, date string, meal models.MealType, id string) (bool, error) {
	if !meal.Valid() {
		return false, ErrInvalidMeal
	}
	removed := false
	err := s.h.mutate(ctx, date, func(m map[string]models.DailyDiet) bool {
		day, ok := m[date]
		if !ok {
			return false
		}
		items := day.Bucket(meal)
		kept := make([]models.MealItem, 0, len(items))
		for _, it := range items {
			if it.ID == id {
				removed = true
				continue
			}
			kept = append(kept, it)
		}
		if !removed {
			return false
		}
		day.SetBucket(meal, kept)
		m[date] = day
		return true
	})
	return removed, err
}

func (s *DietStore) Clear(ctx context.Context) error { return s.h.clear(ctx) }

func (s *DietStore) Err() error { return s.h.err() }

func hasMealID(day models.DailyDiet, id string) bool {
	for _, meal := range models.MealTypes {
		for _, it := range day.Bucket(meal) {
			if it.ID == id {
				return true
			}
		}
	}
	return false
}

func clampMealItem(it models.MealItem) models.MealItem {
	if it.Calories != nil {
		c := utils.ClampFloat(*it.Calories, 0, 1e6)
		it.Calories = &c
	}
	return it
}

// normalizeDiet fills missing buckets and re-keys duplicate or empty ids so
// RemoveMeal can address every item.
func normalizeDiet(date string, d models.DailyDiet) models.DailyDiet {
	out := models.EmptyDailyDiet(date)
	seen := map[string]bool{}
	for _, meal := range models.MealTypes {
		items := make([]models.MealItem, 0, len(d.Bucket(meal)))
		for _, it := range d.Bucket(meal) {
			if it.ID == "" || seen[it.ID] {
				it.ID = uuid.NewString()
			}
			seen[it.ID] = true
			items = append(items, clampMealItem(it))
		}
		out.SetBucket(meal, items)
	}
	return out
}
