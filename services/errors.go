package services

import (
	"errors"

	"healthdash/utils"
)

var (
	ErrInvalidDate       = utils.ErrInvalidDate
	ErrInvalidMeal       = errors.New("meal must be one of breakfast, lunch, snack, dinner")
	ErrInvalidMealItem   = errors.New("meal item name is required")
	ErrInvalidField      = errors.New("workout field must be one of walking, running, gymTime")
	ErrInvalidGoal       = errors.New("goal must be one of reduceWeight, gainWeight, maintainWeight")
	ErrNoProfile         = errors.New("user profile is not set")
	ErrPlanPending       = errors.New("a plan request is already in progress")
	ErrFlowClosed        = errors.New("plan requests are shut down")
	ErrMissingCredential = errors.New("AI credential is not configured")
)

// IsValidation reports whether err came from rejected input rather than a
// storage or provider failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidMeal) ||
		errors.Is(err, ErrInvalidMealItem) ||
		errors.Is(err, ErrInvalidField) ||
		errors.Is(err, ErrInvalidGoal)
}
