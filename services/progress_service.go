package services

import (
	"time"

	"healthdash/models"
	"healthdash/utils"
)

// MaxStreakLookbackDays bounds how far back Streak walks.
const MaxStreakLookbackDays = 365

// WeekDays is the length of the trailing window used by WeeklyAverages.
const WeekDays = 7

// Snapshot is a point-in-time copy of every store. Derived values are computed
// from it and never persisted.
type Snapshot struct {
	Profile  *models.UserProfile               `json:"profile"`
	Habits   map[string]models.DailyHabitEntry `json:"habits"`
	Diet     map[string]models.DailyDiet       `json:"diet"`
	Workouts map[string]models.DailyWorkout    `json:"workouts"`
}

// GoalCompletion reports which of the four fixed daily goals are met on today.
// Missing entries count as not met.
func GoalCompletion(snap Snapshot, today string) models.GoalStatus {
	st := models.GoalStatus{TotalGoals: models.TotalDailyGoals}

	if h, ok := snap.Habits[today]; ok {
		st.WaterGoalMet = h.WaterIntake >= models.WaterGoalML
		st.SleepGoalMet = h.SleepHours >= models.SleepGoalHours
	}
	if w, ok := snap.Workouts[today]; ok {
		st.WorkoutGoalMet = w.Total() >= models.WorkoutGoalMinutes
	}
	if d, ok := snap.Diet[today]; ok {
		st.DietGoalMet = true
		for _, meal := range models.MealTypes {
			if len(d.Bucket(meal)) == 0 {
				st.DietGoalMet = false
				break
			}
		}
	}

	for _, met := range []bool{st.WaterGoalMet, st.SleepGoalMet, st.DietGoalMet, st.WorkoutGoalMet} {
		if met {
			st.TotalCompleted++
		}
	}
	return st
}

// ComputeBMI never fails; a missing profile or measurement yields "No data".
func ComputeBMI(p *models.UserProfile) models.BMIResult {
	none := models.BMIResult{Category: "No data"}
	if p == nil {
		return none
	}
	bmi, err := utils.CalculateBMI(p.Height, p.Weight)
	if err != nil {
		return none
	}
	return models.BMIResult{HasValue: true, Value: bmi, Category: utils.BMICategory(bmi)}
}

// Streak counts consecutive logged days ending at today.
func Streak(habits map[string]models.DailyHabitEntry, today string) int {
	day, err := utils.ParseDate(today)
	if err != nil {
		return 0
	}
	streak := 0
	for i := 0; i < MaxStreakLookbackDays; i++ {
		if _, ok := habits[utils.FormatDate(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// WeeklyAverages averages the habit entries dated within [today-6, today].
// Optional fields count as zero on days they were not recorded.
func WeeklyAverages(habits map[string]models.DailyHabitEntry, today string) models.WeeklyAverages {
	out := models.WeeklyAverages{To: today}
	from, err := utils.AddDays(today, -(WeekDays - 1))
	if err != nil {
		return out
	}
	out.From = from

	var water, sleep, stress, energy, alcohol, smoking, screen, meditation float64
	n := 0
	for date, h := range habits {
		if date < from || date > today {
			continue
		}
		n++
		water += float64(h.WaterIntake)
		sleep += h.SleepHours
		stress += float64(h.StressLevel)
		energy += float64(h.EnergyLevel)
		alcohol += float64(h.AlcoholIntake)
		smoking += float64(h.Smoking)
		if h.ScreenTime != nil {
			screen += float64(*h.ScreenTime)
		}
		if h.MeditationMinutes != nil {
			meditation += float64(*h.MeditationMinutes)
		}
	}
	// avoid div by zero
	if n == 0 {
		return out
	}

	out.DaysTracked = n
	out.AvgWaterIntake = float64(int(utils.Avg(water, n) + 0.5))
	out.AvgSleepHours = utils.Round1(utils.Avg(sleep, n))
	out.AvgStressLevel = utils.Round1(utils.Avg(stress, n))
	out.AvgEnergyLevel = utils.Round1(utils.Avg(energy, n))
	out.AvgAlcoholIntake = utils.Round1(utils.Avg(alcohol, n))
	out.AvgSmoking = utils.Round1(utils.Avg(smoking, n))
	out.AvgScreenTime = utils.Round1(utils.Avg(screen, n))
	out.AvgMeditationMinutes = utils.Round1(utils.Avg(meditation, n))
	return out
}

// GoalProgress reports today's percentage toward each goal, capped at 100.
func GoalProgress(snap Snapshot, today string) map[string]models.Metric {
	var water, sleep float64
	if h, ok := snap.Habits[today]; ok {
		water = float64(h.WaterIntake)
		sleep = h.SleepHours
	}
	var workout float64
	if w, ok := snap.Workouts[today]; ok {
		workout = float64(w.Total())
	}
	var buckets float64
	if d, ok := snap.Diet[today]; ok {
		for _, meal := range models.MealTypes {
			if len(d.Bucket(meal)) > 0 {
				buckets++
			}
		}
	}
	mealCount := float64(len(models.MealTypes))

	return map[string]models.Metric{
		"water":   {Actual: water, Target: models.WaterGoalML, Percent: utils.Pct(water, models.WaterGoalML), Unit: "ml"},
		"sleep":   {Actual: sleep, Target: models.SleepGoalHours, Percent: utils.Pct(sleep, models.SleepGoalHours), Unit: "h"},
		"workout": {Actual: workout, Target: models.WorkoutGoalMinutes, Percent: utils.Pct(workout, models.WorkoutGoalMinutes), Unit: "min"},
		"diet":    {Actual: buckets, Target: mealCount, Percent: utils.Pct(buckets, mealCount), Unit: "meals"},
	}
}

// BuildDashboard gathers every derived value for today.
func BuildDashboard(snap Snapshot, today string) models.Dashboard {
	d := models.Dashboard{
		Date:     today,
		Goals:    GoalCompletion(snap, today),
		Progress: GoalProgress(snap, today),
		BMI:      ComputeBMI(snap.Profile),
		Streak:   Streak(snap.Habits, today),
		Weekly:   WeeklyAverages(snap.Habits, today),
	}
	if w, ok := snap.Workouts[today]; ok {
		d.WorkoutMinutes = w.Total()
	}
	if diet, ok := snap.Diet[today]; ok {
		d.DietCalories = utils.Round1(diet.TotalCalories())
	}
	return d
}

// TodayIn returns the date key of now in loc.
func TodayIn(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return utils.FormatDate(now.In(loc))
}
