package models

// PlanMeal is one suggested dish in a diet plan.
type PlanMeal struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// DietPlan is the structured diet plan returned by the AI service.
type DietPlan struct {
	Breakfast     []PlanMeal `json:"breakfast"`
	Lunch         []PlanMeal `json:"lunch"`
	Snack         []PlanMeal `json:"snack"`
	Dinner        []PlanMeal `json:"dinner"`
	Explanation   string     `json:"explanation"`
	TotalCalories float64    `json:"totalCalories"`
}

// PlanExercise is one suggested exercise with its duration in minutes.
type PlanExercise struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Details  string `json:"details,omitempty"`
}

// WorkoutPlan is the structured workout plan returned by the AI service. The
// three categories line up with the DailyWorkout fields.
type WorkoutPlan struct {
	Walking       []PlanExercise `json:"walking"`
	Running       []PlanExercise `json:"running"`
	Gym           []PlanExercise `json:"gym"`
	Explanation   string         `json:"explanation"`
	TotalDuration int            `json:"totalDuration"`
}

// Exercises returns the plan items for a workout field.
func (p WorkoutPlan) Exercises(f WorkoutField) []PlanExercise {
	switch f {
	case WorkoutWalking:
		return p.Walking
	case WorkoutRunning:
		return p.Running
	case WorkoutGym:
		return p.Gym
	}
	return nil
}

// CategoryMinutes sums the durations planned for f.
func (p WorkoutPlan) CategoryMinutes(f WorkoutField) int {
	total := 0
	for _, ex := range p.Exercises(f) {
		if ex.Duration > 0 {
			total += ex.Duration
		}
	}
	return total
}
