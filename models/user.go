package models

// Goal is the user's weight objective.
type Goal string

const (
	GoalReduceWeight   Goal = "reduceWeight"
	GoalGainWeight     Goal = "gainWeight"
	GoalMaintainWeight Goal = "maintainWeight"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalReduceWeight, GoalGainWeight, GoalMaintainWeight:
		return true
	}
	return false
}

// Label is the human form used in prompts and summaries.
func (g Goal) Label() string {
	switch g {
	case GoalReduceWeight:
		return "Reduce Weight"
	case GoalGainWeight:
		return "Gain Weight"
	case GoalMaintainWeight:
		return "Maintain Weight"
	default:
		return string(g)
	}
}

// UserProfile is the singleton profile of the device owner.
type UserProfile struct {
	Name   string  `json:"name"`
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Height float64 `json:"height"` // cm
	Weight float64 `json:"weight"` // kg
	Goal   Goal    `json:"goal"`
}

// UserProfilePatch carries a partial profile update; nil fields are left alone.
type UserProfilePatch struct {
	Name   *string  `json:"name"`
	Age    *int     `json:"age"`
	Gender *string  `json:"gender"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
	Goal   *Goal    `json:"goal"`
}

// Apply shallow-merges the patch onto p.
func (patch UserProfilePatch) Apply(p UserProfile) UserProfile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Height != nil {
		p.Height = *patch.Height
	}
	if patch.Weight != nil {
		p.Weight = *patch.Weight
	}
	if patch.Goal != nil {
		p.Goal = *patch.Goal
	}
	return p
}
