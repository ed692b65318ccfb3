package models

// MealType names one of the four diet buckets.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnack     MealType = "snack"
	MealDinner    MealType = "dinner"
)

// MealTypes lists the buckets in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealSnack, MealDinner}

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealSnack, MealDinner:
		return true
	}
	return false
}

// Label is "Breakfast", "Lunch", ...
func (m MealType) Label() string {
	switch m {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealSnack:
		return "Snack"
	case MealDinner:
		return "Dinner"
	}
	return string(m)
}

// MealItem is one logged food.
type MealItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Calories *float64 `json:"calories,omitempty"`
	IsCustom bool     `json:"isCustom"`
}

// DailyDiet holds the meals logged for one date.
type DailyDiet struct {
	Date      string     `json:"date"`
	Breakfast []MealItem `json:"breakfast"`
	Lunch     []MealItem `json:"lunch"`
	Snack     []MealItem `json:"snack"`
	Dinner    []MealItem `json:"dinner"`
}

// EmptyDailyDiet returns a day with four empty buckets.
func EmptyDailyDiet(date string) DailyDiet {
	return DailyDiet{
		Date:      date,
		Breakfast: []MealItem{},
		Lunch:     []MealItem{},
		Snack:     []MealItem{},
		Dinner:    []MealItem{},
	}
}

// Bucket returns the items for meal.
func (d DailyDiet) Bucket(meal MealType) []MealItem {
	switch meal {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	case MealSnack:
		return d.Snack
	case MealDinner:
		return d.Dinner
	}
	return nil
}

// SetBucket replaces the items for meal.
func (d *DailyDiet) SetBucket(meal MealType, items []MealItem) {
	switch meal {
	case MealBreakfast:
		d.Breakfast = items
	case MealLunch:
		d.Lunch = items
	case MealSnack:
		d.Snack = items
	case MealDinner:
		d.Dinner = items
	}
}

// TotalCalories sums the calories of every item that has them.
func (d DailyDiet) TotalCalories() float64 {
	var sum float64
	for _, meal := range MealTypes {
		for _, it := range d.Bucket(meal) {
			if it.Calories != nil {
				sum += *it.Calories
			}
		}
	}
	return sum
}

// Clone deep-copies the buckets.
func (d DailyDiet) Clone() DailyDiet {
	out := DailyDiet{Date: d.Date}
	for _, meal := range MealTypes {
		src := d.Bucket(meal)
		items := make([]MealItem, len(src))
		for i, it := range src {
			if it.Calories != nil {
				c := *it.Calories
				it.Calories = &c
			}
			items[i] = it
		}
		out.SetBucket(meal, items)
	}
	return out
}
