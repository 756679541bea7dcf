package plan

import "errors"

var (
	// ErrPlanNotFound is returned when a diet plan id does not resolve.
	ErrPlanNotFound = errors.New("diet plan not found")

	// ErrMealPlanNotFound is returned when a day entry is missing.
	ErrMealPlanNotFound = errors.New("meal plan not found")

	// ErrInvalidMealType is returned for meal slots outside the known set.
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrInvalidDayOfWeek is returned for days outside monday..sunday.
	ErrInvalidDayOfWeek = errors.New("invalid day of week")
)
