package generation

import (
	"fmt"
	"math"
	"strings"

	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/nutriplan/v1/internal/ports/outbound"
)

// fallbackSlot describes one of the six synthesized meals: its slot,
// share of the daily targets, serving time and a per-diet name table.
type fallbackSlot struct {
	mealType  plan.MealType
	share     float64
	timeOfDay string
	name      string
}

var fallbackSlots = []fallbackSlot{
	{plan.MealBreakfast, 0.25, "08:00", "Balanced breakfast bowl"},
	{plan.MealMorningSnack, 0.10, "10:30", "Morning fruit and nuts"},
	{plan.MealLunch, 0.30, "13:00", "Hearty lunch plate"},
	{plan.MealAfternoonSnack, 0.10, "16:00", "Afternoon protein snack"},
	{plan.MealDinner, 0.20, "19:00", "Light dinner plate"},
	{plan.MealEveningSnack, 0.05, "21:00", "Evening snack"},
}

// SynthesizeFallbackMeals builds a deterministic six-meal day scaled to
// the request's targets. It is used when every provider attempt for a
// day has been exhausted, so a plan always ships with usable meals.
func SynthesizeFallbackMeals(req outbound.MealGenerationRequest) []outbound.GeneratedMeal {
	t := req.Targets
	dietLabel := dietDisplayName(req.Profile)

	meals := make([]outbound.GeneratedMeal, 0, len(fallbackSlots))
	for _, slot := range fallbackSlots {
		meals = append(meals, outbound.GeneratedMeal{
			MealType:     string(slot.mealType),
			Name:         slot.name,
			Description:  fmt.Sprintf("%s option sized to your daily targets", dietLabel),
			Calories:     int(math.Round(float64(t.DailyCalories) * slot.share)),
			ProteinGrams: round1(float64(t.ProteinGrams) * slot.share),
			CarbsGrams:   round1(float64(t.CarbsGrams) * slot.share),
			FatsGrams:    round1(float64(t.FatsGrams) * slot.share),
			TimeOfDay:    slot.timeOfDay,
			Recipe:       "Combine pantry staples that match the macro split for this meal.",
		})
	}
	return meals
}

func dietDisplayName(p *profile.ClientProfile) string {
	if p == nil || p.DietType == "" {
		return "Balanced"
	}
	label := strings.ReplaceAll(string(p.DietType), "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
