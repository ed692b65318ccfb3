package models

import "time"

// Event kinds broadcast to realtime clients after a store mutation.
const (
	EventProfileUpdated = "profile.updated"
	EventHabitsUpdated  = "habits.updated"
	EventDietUpdated    = "diet.updated"
	EventWorkoutUpdated = "workout.updated"
	EventPlanUpdated    = "plan.updated"
)

// Event tells the UI that a slice of state changed and should be re-read.
type Event struct {
	Kind      string    `json:"kind"`
	Date      string    `json:"date,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
