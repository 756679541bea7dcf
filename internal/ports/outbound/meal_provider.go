package outbound

import (
	"context"

	"github.com/nutriplan/v1/internal/domain/nutrition"
	"github.com/nutriplan/v1/internal/domain/profile"
)

// MealProvider generates a day of meals from a client profile and the
// day's nutritional targets. Implementations wrap a single AI backend.
type MealProvider interface {
	// Name identifies the provider in logs and rate limiter keys.
	Name() string

	// GenerateMealsForDay produces the full set of meals for one day.
	// Transient failures and rate limits are reported through the typed
	// errors in pkg/errors so the orchestrator can decide retry behavior.
	GenerateMealsForDay(ctx context.Context, req MealGenerationRequest) ([]GeneratedMeal, error)

	// TestConnection verifies the backend is reachable and configured.
	TestConnection(ctx context.Context) error
}

// MealGenerationRequest carries everything a provider needs for one day.
type MealGenerationRequest struct {
	Profile   *profile.ClientProfile
	Targets   nutrition.Targets
	DayOfWeek string
}

// GeneratedMeal is the provider-neutral shape of a generated meal,
// before persistence assigns ids.
type GeneratedMeal struct {
	MealType     string  `json:"meal_type"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Calories     int     `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatsGrams    float64 `json:"fats_grams"`
	TimeOfDay    string  `json:"time_of_day"`
	Recipe       string  `json:"recipe"`
}
