package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"healthdash/models"
)

const (
	maxContextItemsPerMeal = 12
	maxContextNameRunes    = 60
	maxContextBytes        = 4000
)

// BuildCoachContext renders today's state as a plain-text block for the chat
// prompt. Missing data degrades to explicit placeholders.
func BuildCoachContext(snap Snapshot, today string) string {
	var b strings.Builder

	if p := snap.Profile; p != nil {
		fmt.Fprintf(&b, "User Profile: Name: %s, Age: %d, Gender: %s, Height: %gcm, Weight: %gkg, Goal: %s\n",
			orNotSet(truncateRunes(p.Name, maxContextNameRunes)), p.Age, orNotSet(p.Gender), p.Height, p.Weight, p.Goal.Label())
	} else {
		b.WriteString("Profile: not set\n")
	}
	bmi := ComputeBMI(snap.Profile)
	if bmi.HasValue {
		fmt.Fprintf(&b, "BMI: %.1f (%s)\n", bmi.Value, bmi.Category)
	} else {
		fmt.Fprintf(&b, "BMI: %s\n", bmi.Category)
	}
	fmt.Fprintf(&b, "Date: %s\n", today)

	b.WriteString("\nToday's Diet:\n")
	diet := snap.Diet[today]
	for _, meal := range models.MealTypes {
		fmt.Fprintf(&b, "- %s: %s\n", meal.Label(), mealNames(diet.Bucket(meal)))
	}

	b.WriteString("\nToday's Workout:\n")
	if w, ok := snap.Workouts[today]; ok {
		fmt.Fprintf(&b, "- Walking: %d mins\n- Running: %d mins\n- Gym: %d mins\n", w.Walking, w.Running, w.GymTime)
	} else {
		b.WriteString("No activity logged today\n")
	}

	b.WriteString("\nToday's Habits:\n")
	h, ok := snap.Habits[today]
	mood := "Not logged"
	if ok && h.Mood != "" {
		mood = h.Mood
	}
	fmt.Fprintf(&b, "- Water: %d ml\n- Sleep: %g hours\n- Mood: %s\n", h.WaterIntake, h.SleepHours, mood)

	return capBytes(b.String(), maxContextBytes)
}

func mealNames(items []models.MealItem) string {
	if len(items) == 0 {
		return "None"
	}
	shown := items
	if len(shown) > maxContextItemsPerMeal {
		shown = shown[:maxContextItemsPerMeal]
	}
	names := make([]string, 0, len(shown)+1)
	for _, it := range shown {
		names = append(names, truncateRunes(it.Name, maxContextNameRunes))
	}
	if extra := len(items) - len(shown); extra > 0 {
		names = append(names, fmt.Sprintf("+%d more", extra))
	}
	return strings.Join(names, ", ")
}

func orNotSet(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not set"
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}

// capBytes cuts s to at most n bytes on a rune boundary.
func capBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
