package models

// WorkoutField is one of the tracked activity categories.
type WorkoutField string

const (
	WorkoutWalking WorkoutField = "walking"
	WorkoutRunning WorkoutField = "running"
	WorkoutGym     WorkoutField = "gymTime"
)

var WorkoutFields = []WorkoutField{WorkoutWalking, WorkoutRunning, WorkoutGym}

func (f WorkoutField) Valid() bool {
	switch f {
	case WorkoutWalking, WorkoutRunning, WorkoutGym:
		return true
	}
	return false
}

func (f WorkoutField) Label() string {
	switch f {
	case WorkoutWalking:
		return "Walking"
	case WorkoutRunning:
		return "Running"
	case WorkoutGym:
		return "Gym"
	}
	return string(f)
}

// DailyWorkout holds minutes per activity for one date.
type DailyWorkout struct {
	Date    string `json:"date"`
	Walking int    `json:"walking"`
	Running int    `json:"running"`
	GymTime int    `json:"gymTime"`
}

func (w DailyWorkout) Minutes(f WorkoutField) int {
	switch f {
	case WorkoutWalking:
		return w.Walking
	case WorkoutRunning:
		return w.Running
	case WorkoutGym:
		return w.GymTime
	}
	return 0
}

func (w *DailyWorkout) SetMinutes(f WorkoutField, v int) {
	switch f {
	case WorkoutWalking:
		w.Walking = v
	case WorkoutRunning:
		w.Running = v
	case WorkoutGym:
		w.GymTime = v
	}
}

// Total is walking + running + gym.
func (w DailyWorkout) Total() int {
	return w.Walking + w.Running + w.GymTime
}
