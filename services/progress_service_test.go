package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"healthdash/models"
	"healthdash/utils"
)

const today = "2024-05-10"

func fullDay() Snapshot {
	item := []models.MealItem{{ID: "1", Name: "x", Calories: floatPtr(100)}}
	return Snapshot{
		Habits: map[string]models.DailyHabitEntry{
			today: {Date: today, WaterIntake: 2000, SleepHours: 8, StressLevel: 5, EnergyLevel: 5, Mood: "Happy"},
		},
		Diet: map[string]models.DailyDiet{
			today: {Date: today, Breakfast: item, Lunch: item, Snack: item, Dinner: item},
		},
		Workouts: map[string]models.DailyWorkout{
			today: {Date: today, Walking: 10, Running: 10, GymTime: 10},
		},
	}
}

func TestGoalCompletion_AllMet(t *testing.T) {
	st := GoalCompletion(fullDay(), today)
	assert.Equal(t, models.GoalStatus{
		WaterGoalMet: true, SleepGoalMet: true, DietGoalMet: true, WorkoutGoalMet: true,
		TotalCompleted: 4, TotalGoals: 4,
	}, st)
}

func TestGoalCompletion_NothingLogged(t *testing.T) {
	st := GoalCompletion(Snapshot{}, today)
	assert.Equal(t, models.GoalStatus{TotalGoals: 4}, st)
}

func TestGoalCompletion_PartialDay(t *testing.T) {
	snap := fullDay()
	d := snap.Diet[today]
	d.Snack = []models.MealItem{}
	snap.Diet[today] = d
	snap.Workouts[today] = models.DailyWorkout{Date: today, Walking: 29}
	h := snap.Habits[today]
	h.SleepHours = 7.9
	snap.Habits[today] = h

	st := GoalCompletion(snap, today)
	assert.True(t, st.WaterGoalMet)
	assert.False(t, st.SleepGoalMet)
	assert.False(t, st.DietGoalMet)
	assert.False(t, st.WorkoutGoalMet)
	assert.Equal(t, 1, st.TotalCompleted)
}

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		name    string
		profile *models.UserProfile
		want    models.BMIResult
	}{
		{"normal", &models.UserProfile{Height: 175, Weight: 75}, models.BMIResult{HasValue: true, Value: 24.5, Category: "Normal"}},
		{"underweight", &models.UserProfile{Height: 180, Weight: 50}, models.BMIResult{HasValue: true, Value: 15.4, Category: "Underweight"}},
		{"obese", &models.UserProfile{Height: 160, Weight: 90}, models.BMIResult{HasValue: true, Value: 35.2, Category: "Obese"}},
		{"no profile", nil, models.BMIResult{Category: "No data"}},
		{"no height", &models.UserProfile{Weight: 70}, models.BMIResult{Category: "No data"}},
		{"no weight", &models.UserProfile{Height: 170}, models.BMIResult{Category: "No data"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBMI(tt.profile))
		})
	}
}

func TestStreak(t *testing.T) {
	habits := map[string]models.DailyHabitEntry{
		"2024-05-10": {}, "2024-05-09": {}, "2024-05-07": {}, "2024-05-06": {},
	}
	assert.Equal(t, 2, Streak(habits, today))
	assert.Equal(t, 0, Streak(habits, "2024-05-11"), "no entry today")
	assert.Equal(t, 0, Streak(nil, today))
	assert.Equal(t, 0, Streak(habits, "not-a-date"))
}

func TestStreak_CrossesMonthAndCaps(t *testing.T) {
	habits := map[string]models.DailyHabitEntry{"2024-03-01": {}, "2024-02-29": {}, "2024-02-28": {}}
	assert.Equal(t, 3, Streak(habits, "2024-03-01"))

	long := map[string]models.DailyHabitEntry{}
	date := today
	for i := 0; i < 400; i++ {
		long[date] = models.DailyHabitEntry{}
		date = mustAddDays(t, date, -1)
	}
	assert.Equal(t, MaxStreakLookbackDays, Streak(long, today))
}

func TestWeeklyAverages(t *testing.T) {
	habits := map[string]models.DailyHabitEntry{
		"2024-05-10": {WaterIntake: 2000, SleepHours: 8, StressLevel: 4, EnergyLevel: 6, ScreenTime: intPtr(120)},
		"2024-05-04": {WaterIntake: 1001, SleepHours: 6.5, StressLevel: 6, EnergyLevel: 7, Smoking: 2},
		"2024-05-03": {WaterIntake: 9999, SleepHours: 1}, // outside the window
		"2024-05-11": {WaterIntake: 9999},                // future
	}
	got := WeeklyAverages(habits, today)

	assert.Equal(t, "2024-05-04", got.From)
	assert.Equal(t, today, got.To)
	assert.Equal(t, 2, got.DaysTracked)
	assert.Equal(t, 1501.0, got.AvgWaterIntake)
	assert.Equal(t, 7.3, got.AvgSleepHours)
	assert.Equal(t, 5.0, got.AvgStressLevel)
	assert.Equal(t, 6.5, got.AvgEnergyLevel)
	assert.Equal(t, 1.0, got.AvgSmoking)
	assert.Equal(t, 60.0, got.AvgScreenTime)
	assert.Equal(t, 0.0, got.AvgMeditationMinutes)
}

func TestWeeklyAverages_Empty(t *testing.T) {
	got := WeeklyAverages(map[string]models.DailyHabitEntry{"2024-01-01": {WaterIntake: 500}}, today)
	assert.Equal(t, models.WeeklyAverages{From: "2024-05-04", To: today}, got)
}

func TestBuildDashboard(t *testing.T) {
	snap := fullDay()
	snap.Profile = &models.UserProfile{Height: 175, Weight: 75, Goal: models.GoalMaintainWeight}

	d := BuildDashboard(snap, today)
	assert.Equal(t, today, d.Date)
	assert.Equal(t, 4, d.Goals.TotalCompleted)
	assert.Equal(t, 1, d.Streak)
	assert.Equal(t, 30, d.WorkoutMinutes)
	assert.Equal(t, 400.0, d.DietCalories)
	assert.Equal(t, "Normal", d.BMI.Category)
	assert.Equal(t, 100.0, d.Progress["water"].Percent)
	assert.Equal(t, 100.0, d.Progress["diet"].Percent)

	empty := BuildDashboard(Snapshot{}, today)
	assert.Equal(t, 0.0, empty.Progress["sleep"].Percent)
	assert.False(t, empty.BMI.HasValue)
}

func mustAddDays(t *testing.T, date string, n int) string {
	t.Helper()
	out, err := utils.AddDays(date, n)
	if err != nil {
		t.Fatal(err)
	}
	return out
}
