package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthdash/models"
	"healthdash/storage"
)

func newStores(t *testing.T, a storage.Adapter) (*ProfileStore, *HabitStore, *DietStore, *WorkoutStore, *eventRecorder) {
	t.Helper()
	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec.record)
	log := zap.NewNop()
	p := NewProfileStore(a, bus, log)
	h := NewHabitStore(a, bus, log)
	d := NewDietStore(a, bus, log)
	w := NewWorkoutStore(a, bus, log)
	ctx := context.Background()
	for _, load := range []func(context.Context) error{p.Load, h.Load, d.Load, w.Load} {
		require.NoError(t, load(ctx))
	}
	return p, h, d, w, rec
}

func TestHabitStore_UpdateMergesOntoDefaults(t *testing.T) {
	_, habits, _, _, rec := newStores(t, storage.NewMemory())

	got, err := habits.Update(context.Background(), "2024-05-01", models.DailyHabitPatch{WaterIntake: intPtr(750)})
	require.NoError(t, err)

	assert.Equal(t, 750, got.WaterIntake)
	assert.Equal(t, models.DefaultStressLevel, got.StressLevel)
	assert.Equal(t, models.DefaultEnergyLevel, got.EnergyLevel)
	assert.Equal(t, models.DefaultMood, got.Mood)
	assert.Nil(t, got.ScreenTime)
	assert.Equal(t, []string{models.EventHabitsUpdated}, rec.kinds())

	got, err = habits.Update(context.Background(), "2024-05-01", models.DailyHabitPatch{SleepHours: floatPtr(7.5)})
	require.NoError(t, err)
	assert.Equal(t, 750, got.WaterIntake, "earlier fields survive a later patch")
	assert.Equal(t, 7.5, got.SleepHours)
}

func TestHabitStore_ClampsNumericFields(t *testing.T) {
	_, habits, _, _, _ := newStores(t, storage.NewMemory())

	got, err := habits.Update(context.Background(), "2024-05-01", models.DailyHabitPatch{
		WaterIntake:       intPtr(-100),
		SleepHours:        floatPtr(30),
		StressLevel:       intPtr(42),
		EnergyLevel:       intPtr(-3),
		AlcoholIntake:     intPtr(-1),
		Smoking:           intPtr(-2),
		ScreenTime:        intPtr(-60),
		MeditationMinutes: intPtr(-5),
		WakeUpTime:        strPtr("7am"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, got.WaterIntake)
	assert.Equal(t, 24.0, got.SleepHours)
	assert.Equal(t, 10, got.StressLevel)
	assert.Equal(t, 1, got.EnergyLevel)
	assert.Equal(t, 0, got.AlcoholIntake)
	assert.Equal(t, 0, got.Smoking)
	require.NotNil(t, got.ScreenTime)
	assert.Equal(t, 0, *got.ScreenTime)
	require.NotNil(t, got.MeditationMinutes)
	assert.Equal(t, 0, *got.MeditationMinutes)
	assert.Nil(t, got.WakeUpTime)
}

func TestHabitStore_RejectsBadDate(t *testing.T) {
	_, habits, _, _, _ := newStores(t, storage.NewMemory())
	_, err := habits.Update(context.Background(), "2024-5-1", models.DailyHabitPatch{})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, habits.Set(context.Background(), models.DailyHabitEntry{Date: "yesterday"}), ErrInvalidDate)
}

func TestHabitStore_RangeRemoveAndReload(t *testing.T) {
	a := storage.NewMemory()
	ctx := context.Background()
	_, habits, _, _, _ := newStores(t, a)

	require.NoError(t, habits.SetMany(ctx, []models.DailyHabitEntry{
		models.DefaultHabitEntry("2024-05-01"),
		models.DefaultHabitEntry("2024-05-02"),
		models.DefaultHabitEntry("2024-05-03"),
	}))
	require.NoError(t, habits.Remove(ctx, "2024-05-02"))
	require.NoError(t, habits.Remove(ctx, "2024-01-01"))

	assert.Len(t, habits.Range("2024-05-01", "2024-05-02"), 1)
	assert.Equal(t, []string{"2024-05-01", "2024-05-03"}, habits.Dates())

	_, reloaded, _, _, _ := newStores(t, a)
	assert.Equal(t, habits.All(), reloaded.All())

	require.NoError(t, habits.Clear(ctx))
	assert.Empty(t, habits.All())
	_, err := a.Read(ctx, storage.KeyHabits)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHabitStore_GetReturnsCopy(t *testing.T) {
	_, habits, _, _, _ := newStores(t, storage.NewMemory())
	_, err := habits.Update(context.Background(), "2024-05-01", models.DailyHabitPatch{ScreenTime: intPtr(90)})
	require.NoError(t, err)

	e, ok := habits.Get("2024-05-01")
	require.True(t, ok)
	*e.ScreenTime = 1

	again, _ := habits.Get("2024-05-01")
	assert.Equal(t, 90, *again.ScreenTime)
}

func TestStore_PersistFailureIsRecordedAndStateKept(t *testing.T) {
	a := newFlakyAdapter()
	ctx := context.Background()
	_, habits, _, _, rec := newStores(t, a)

	a.failWrites.Store(true)
	_, err := habits.Update(ctx, "2024-05-01", models.DailyHabitPatch{WaterIntake: intPtr(500)})
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, habits.Err(), errDiskFull)
	assert.Empty(t, rec.kinds(), "no event for a failed write")

	got, ok := habits.Get("2024-05-01")
	require.True(t, ok)
	assert.Equal(t, 500, got.WaterIntake)

	a.failWrites.Store(false)
	_, err = habits.Update(ctx, "2024-05-02", models.DailyHabitPatch{})
	require.NoError(t, err)
	assert.NoError(t, habits.Err())

	_, reloaded, _, _, _ := newStores(t, a)
	assert.Len(t, reloaded.All(), 2, "next successful write repairs the durable copy")
}

func TestStore_LoadCorruptAndLegacyData(t *testing.T) {
	ctx := context.Background()
	a := storage.NewMemory()
	require.NoError(t, a.Write(ctx, storage.KeyHabits, []byte(`{"2024-05-01": {"waterIntake": 2`)))
	require.NoError(t, a.Write(ctx, storage.KeyWorkoutHistory,
		[]byte(`{"2024-05-01":{"date":"2024-05-01","walking":20,"running":-5,"gymTime":10},"bogus":{"walking":1}}`)))
	require.NoError(t, a.Write(ctx, storage.KeyProfile, []byte(`{"version": 99, "data": {}}`)))

	profile, habits, _, workouts, _ := newStores(t, a)

	assert.Empty(t, habits.All())
	_, ok := profile.Get()
	assert.False(t, ok)

	w, ok := workouts.Get("2024-05-01")
	require.True(t, ok)
	assert.Equal(t, models.DailyWorkout{Date: "2024-05-01", Walking: 20, GymTime: 10}, w)
	assert.Len(t, workouts.All(), 1, "non-canonical keys are dropped")
}

func TestDietStore_AddAndRemoveMeal(t *testing.T) {
	ctx := context.Background()
	_, _, diet, _, rec := newStores(t, storage.NewMemory())

	first, err := diet.AddMeal(ctx, "2024-05-01", models.MealLunch, models.MealItem{Name: " Rice ", Calories: floatPtr(200)})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "Rice", first.Name)

	second, err := diet.AddMeal(ctx, "2024-05-01", models.MealLunch, models.MealItem{ID: first.ID, Name: "Beans", IsCustom: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "colliding ids are replaced")

	day, ok := diet.Get("2024-05-01")
	require.True(t, ok)
	assert.Len(t, day.Lunch, 2)
	assert.NotNil(t, day.Breakfast)
	assert.Empty(t, day.Breakfast)
	assert.Equal(t, 200.0, day.TotalCalories())

	removed, err := diet.RemoveMeal(ctx, "2024-05-01", models.MealLunch, first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = diet.RemoveMeal(ctx, "2024-06-01", models.MealLunch, first.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	day, _ = diet.Get("2024-05-01")
	require.Len(t, day.Lunch, 1)
	assert.Equal(t, "Beans", day.Lunch[0].Name)
	assert.Equal(t, []string{models.EventDietUpdated, models.EventDietUpdated, models.EventDietUpdated}, rec.kinds())
}

func TestDietStore_Validation(t *testing.T) {
	ctx := context.Background()
	_, _, diet, _, _ := newStores(t, storage.NewMemory())

	_, err := diet.AddMeal(ctx, "2024-05-01", "brunch", models.MealItem{Name: "Eggs"})
	assert.ErrorIs(t, err, ErrInvalidMeal)
	_, err = diet.AddMeal(ctx, "2024-05-01", models.MealDinner, models.MealItem{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidMealItem)
	_, err = diet.AddMeal(ctx, "05/01/2024", models.MealDinner, models.MealItem{Name: "Soup"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	item, err := diet.AddMeal(ctx, "2024-05-01", models.MealDinner, models.MealItem{Name: "Soup", Calories: floatPtr(-50)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, *item.Calories)
}

func TestWorkoutStore_SetAddAndPlan(t *testing.T) {
	ctx := context.Background()
	_, _, _, workouts, _ := newStores(t, storage.NewMemory())

	w, err := workouts.Set(ctx, "2024-05-01", models.WorkoutWalking, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, w.Walking)

	w, err = workouts.Set(ctx, "2024-05-01", models.WorkoutWalking, 15)
	require.NoError(t, err)
	assert.Equal(t, 15, w.Walking, "Set is absolute")

	w, err = workouts.Add(ctx, "2024-05-01", models.WorkoutWalking, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, w.Walking)

	w, err = workouts.Add(ctx, "2024-05-01", models.WorkoutRunning, -40)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Running)

	plan := models.WorkoutPlan{
		Walking: []models.PlanExercise{{Name: "Walk", Duration: 5}},
		Running: []models.PlanExercise{{Name: "Jog", Duration: 10}},
		Gym:     []models.PlanExercise{{Name: "Press", Duration: 7}, {Name: "Row", Duration: 8}},
	}
	w, err = workouts.AddPlan(ctx, "2024-05-01", plan)
	require.NoError(t, err)
	assert.Equal(t, models.DailyWorkout{Date: "2024-05-01", Walking: 30, Running: 10, GymTime: 15}, w)

	_, err = workouts.Set(ctx, "2024-05-01", "swimming", 10)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	a := storage.NewMemory()
	profile, _, _, _, rec := newStores(t, a)

	_, updated, err := profile.Update(ctx, models.UserProfilePatch{Name: strPtr("Ann")})
	require.NoError(t, err)
	assert.False(t, updated, "update without a profile is a no-op")
	assert.Empty(t, rec.kinds())

	assert.ErrorIs(t, profile.Set(ctx, models.UserProfile{Name: "Ann", Goal: "bulk"}), ErrInvalidGoal)

	require.NoError(t, profile.Set(ctx, models.UserProfile{
		Name: "Ann", Age: 30, Gender: "female", Height: 165, Weight: -1, Goal: models.GoalMaintainWeight,
	}))
	p, ok := profile.Get()
	require.True(t, ok)
	assert.Equal(t, 0.0, p.Weight)

	p, updated, err = profile.Update(ctx, models.UserProfilePatch{Weight: floatPtr(60)})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, 60.0, p.Weight)
	assert.Equal(t, "Ann", p.Name)

	reloaded, _, _, _, _ := newStores(t, a)
	got, ok := reloaded.Get()
	require.True(t, ok)
	assert.Equal(t, p, got)

	require.NoError(t, profile.Clear(ctx))
	_, ok = profile.Get()
	assert.False(t, ok)
	assert.Equal(t, []string{models.EventProfileUpdated, models.EventProfileUpdated, models.EventProfileUpdated}, rec.kinds())
}
