package models

// DailyHabitEntry is one day of self-reported habits, keyed by Date (YYYY-MM-DD).
type DailyHabitEntry struct {
	Date              string  `json:"date"`
	WaterIntake       int     `json:"waterIntake"` // ml
	SleepHours        float64 `json:"sleepHours"`
	StressLevel       int     `json:"stressLevel"` // 1-10
	Mood              string  `json:"mood"`
	EnergyLevel       int     `json:"energyLevel"` // 1-10
	AlcoholIntake     int     `json:"alcoholIntake"`
	Smoking           int     `json:"smoking"`
	ScreenTime        *int    `json:"screenTime,omitempty"` // minutes
	WakeUpTime        *string `json:"wakeUpTime,omitempty"` // HH:MM
	MeditationMinutes *int    `json:"meditationMinutes,omitempty"`
}

// DailyHabitPatch is a partial habit update. Nil fields keep the current value.
type DailyHabitPatch struct {
	WaterIntake       *int     `json:"waterIntake"`
	SleepHours        *float64 `json:"sleepHours"`
	StressLevel       *int     `json:"stressLevel"`
	Mood              *string  `json:"mood"`
	EnergyLevel       *int     `json:"energyLevel"`
	AlcoholIntake     *int     `json:"alcoholIntake"`
	Smoking           *int     `json:"smoking"`
	ScreenTime        *int     `json:"screenTime"`
	WakeUpTime        *string  `json:"wakeUpTime"`
	MeditationMinutes *int     `json:"meditationMinutes"`
}

const (
	DefaultStressLevel = 5
	DefaultEnergyLevel = 5
	DefaultMood        = "Neutral"
)

// DefaultHabitEntry is the template a missing day is synthesized from before a
// patch is merged onto it. Optional fields stay absent.
func DefaultHabitEntry(date string) DailyHabitEntry {
	return DailyHabitEntry{
		Date:        date,
		StressLevel: DefaultStressLevel,
		Mood:        DefaultMood,
		EnergyLevel: DefaultEnergyLevel,
	}
}

// Merge shallow-merges patch onto e and returns the result.
func (e DailyHabitEntry) Merge(patch DailyHabitPatch) DailyHabitEntry {
	if patch.WaterIntake != nil {
		e.WaterIntake = *patch.WaterIntake
	}
	if patch.SleepHours != nil {
		e.SleepHours = *patch.SleepHours
	}
	if patch.StressLevel != nil {
		e.StressLevel = *patch.StressLevel
	}
	if patch.Mood != nil {
		e.Mood = *patch.Mood
	}
	if patch.EnergyLevel != nil {
		e.EnergyLevel = *patch.EnergyLevel
	}
	if patch.AlcoholIntake != nil {
		e.AlcoholIntake = *patch.AlcoholIntake
	}
	if patch.Smoking != nil {
		e.Smoking = *patch.Smoking
	}
	if patch.ScreenTime != nil {
		v := *patch.ScreenTime
		e.ScreenTime = &v
	}
	if patch.WakeUpTime != nil {
		v := *patch.WakeUpTime
		e.WakeUpTime = &v
	}
	if patch.MeditationMinutes != nil {
		v := *patch.MeditationMinutes
		e.MeditationMinutes = &v
	}
	return e
}

// Clone returns a copy that shares no pointers with e.
func (e DailyHabitEntry) Clone() DailyHabitEntry {
	if e.ScreenTime != nil {
		v := *e.ScreenTime
		e.ScreenTime = &v
	}
	if e.WakeUpTime != nil {
		v := *e.WakeUpTime
		e.WakeUpTime = &v
	}
	if e.MeditationMinutes != nil {
		v := *e.MeditationMinutes
		e.MeditationMinutes = &v
	}
	return e
}
