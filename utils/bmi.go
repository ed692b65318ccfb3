package utils

import "errors"

// ErrNoBMIData is returned when height or weight is missing.
var ErrNoBMIData = errors.New("height and weight must be positive")

// CalculateBMI expects height in centimeters and weight in kilograms. The result
// is rounded to one decimal.
func CalculateBMI(heightCm, weightKg float64) (float64, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, ErrNoBMIData
	}

	h := heightCm / 100.0 // to meters
	return Round1(weightKg / (h * h)), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}
