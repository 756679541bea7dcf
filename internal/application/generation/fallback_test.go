package generation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/nutrition"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSlotSharesSumToOne(t *testing.T) {
	total := 0.0
	for _, slot := range fallbackSlots {
		total += slot.share
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSynthesizeFallbackMealsScalesTargets(t *testing.T) {
	req := outbound.MealGenerationRequest{
		Targets:   nutrition.Targets{DailyCalories: 2000, ProteinGrams: 150, CarbsGrams: 200, FatsGrams: 67},
		DayOfWeek: "monday",
	}

	meals := SynthesizeFallbackMeals(req)
	require.Len(t, meals, 6)

	assert.Equal(t, "breakfast", meals[0].MealType)
	assert.Equal(t, 500, meals[0].Calories)
	assert.Equal(t, 37.5, meals[0].ProteinGrams)
	assert.Equal(t, "08:00", meals[0].TimeOfDay)

	assert.Equal(t, "lunch", meals[2].MealType)
	assert.Equal(t, 600, meals[2].Calories)

	calories := 0
	for _, m := range meals {
		calories += m.Calories
	}
	assert.InDelta(t, 2000, calories, 6)
}

func TestSynthesizeFallbackMealsIsDeterministic(t *testing.T) {
	req := outbound.MealGenerationRequest{
		Targets:   nutrition.Targets{DailyCalories: 1800, ProteinGrams: 135, CarbsGrams: 180, FatsGrams: 60},
		DayOfWeek: "tuesday",
	}
	assert.Equal(t, SynthesizeFallbackMeals(req), SynthesizeFallbackMeals(req))
}

func TestSynthesizeFallbackMealsUsesDietLabel(t *testing.T) {
	p := profile.NewClientProfile(uuid.New())
	p.DietType = "high_protein"

	meals := SynthesizeFallbackMeals(outbound.MealGenerationRequest{
		Profile: p,
		Targets: nutrition.Targets{DailyCalories: 2000, ProteinGrams: 150, CarbsGrams: 200, FatsGrams: 67},
	})
	assert.Contains(t, meals[0].Description, "High protein")

	meals = SynthesizeFallbackMeals(outbound.MealGenerationRequest{
		Targets: nutrition.Targets{DailyCalories: 2000},
	})
	assert.Contains(t, meals[0].Description, "Balanced")
}

func TestPlanTitleAndDescription(t *testing.T) {
	p := profile.NewClientProfile(uuid.New())
	p.PrimaryGoal = "weight_loss"
	p.DietType = "high_protein"
	p.HealthConditions = []string{"diabetes", "none"}
	p.FoodRestrictions = []string{"red_meat", "other"}

	assert.Equal(t, "Weight Loss High Protein Plan", planTitle(p))

	desc := planDescription(p)
	assert.Contains(t, desc, "Adjusted for: diabetes.")
	assert.Contains(t, desc, "Avoids: red meat.")
	assert.NotContains(t, desc, "other")

	p.PrimaryGoal = "something_new"
	p.DietType = ""
	assert.Equal(t, "Personalized Nutrition Plan", planTitle(p))
}

func TestPlanEndDateHorizons(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, start.AddDate(0, 0, 28), planEndDate(start, "short"))
	assert.Equal(t, start.AddDate(0, 3, 0), planEndDate(start, "medium"))
	assert.Equal(t, start.AddDate(0, 6, 0), planEndDate(start, "long"))
	assert.Equal(t, start.AddDate(1, 0, 0), planEndDate(start, "lifestyle"))
	assert.Equal(t, start.AddDate(0, 3, 0), planEndDate(start, ""))
}
