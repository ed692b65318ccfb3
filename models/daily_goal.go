package models

// Fixed daily targets.
const (
	WaterGoalML        = 2000
	SleepGoalHours     = 8.0
	WorkoutGoalMinutes = 30
	TotalDailyGoals    = 4
)

// GoalStatus is today's completion of the four daily goals.
type GoalStatus struct {
	WaterGoalMet   bool `json:"waterGoalMet"`
	SleepGoalMet   bool `json:"sleepGoalMet"`
	DietGoalMet    bool `json:"dietGoalMet"`
	WorkoutGoalMet bool `json:"workoutGoalMet"`
	TotalCompleted int  `json:"totalCompleted"`
	TotalGoals     int  `json:"totalGoals"`
}

// Metric mirrors the per-goal progress shape used by the dashboard.
type Metric struct {
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
	Unit    string  `json:"unit,omitempty"`
}

// BMIResult is the derived body-mass index. HasValue is false when the profile
// does not carry enough data; Category is then "No data".
type BMIResult struct {
	HasValue bool    `json:"hasValue"`
	Value    float64 `json:"value"`
	Category string  `json:"category"`
}

// WeeklyAverages are means over the habit entries of the trailing seven days.
type WeeklyAverages struct {
	From                 string  `json:"from"`
	To                   string  `json:"to"`
	AvgWaterIntake       float64 `json:"avgWaterIntake"`
	AvgSleepHours        float64 `json:"avgSleepHours"`
	AvgStressLevel       float64 `json:"avgStressLevel"`
	AvgEnergyLevel       float64 `json:"avgEnergyLevel"`
	AvgAlcoholIntake     float64 `json:"avgAlcoholIntake"`
	AvgSmoking           float64 `json:"avgSmoking"`
	AvgScreenTime        float64 `json:"avgScreenTime"`
	AvgMeditationMinutes float64 `json:"avgMeditationMinutes"`
	DaysTracked          int     `json:"daysTracked"`
}

// Dashboard bundles every derived value shown on the home screen.
type Dashboard struct {
	Date           string            `json:"date"`
	Goals          GoalStatus        `json:"goals"`
	Progress       map[string]Metric `json:"progress"`
	BMI            BMIResult         `json:"bmi"`
	Streak         int               `json:"streak"`
	Weekly         WeeklyAverages    `json:"weekly"`
	WorkoutMinutes int               `json:"workoutMinutes"`
	DietCalories   float64           `json:"dietCalories"`
}
