// Package ai holds the pieces shared by every meal provider backend:
// prompt construction from the client profile and tolerant parsing of
// the model's JSON output.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
)

// SystemPrompt frames the model as a meal planner that answers with
// machine-readable JSON only.
const SystemPrompt = `You are a professional nutritionist creating personalized daily meal plans.
Respond ONLY with a JSON array of meal objects. Each object has exactly these fields:
meal_type (one of: breakfast, morning_snack, lunch, afternoon_snack, dinner, evening_snack, pre_workout, post_workout),
name, description, calories (integer), protein_grams, carbs_grams, fats_grams (numbers),
time_of_day (HH:MM), recipe (short preparation steps).
Do not include any text outside the JSON array.`

// BuildMealPrompt renders the user prompt for one day's generation.
func BuildMealPrompt(req outbound.MealGenerationRequest) string {
	p := req.Profile
	t := req.Targets

	var b strings.Builder
	fmt.Fprintf(&b, "Create a full day of meals for %s.\n\n", capitalize(req.DayOfWeek))
	fmt.Fprintf(&b, "Daily targets: %d kcal, %dg protein, %dg carbs, %dg fat.\n",
		t.DailyCalories, t.ProteinGrams, t.CarbsGrams, t.FatsGrams)

	if p != nil {
		fmt.Fprintf(&b, "Diet type: %s. Primary goal: %s.\n", p.DietType, p.PrimaryGoal)
		if p.Age > 0 {
			fmt.Fprintf(&b, "Client: %d years old, %s, %.0f cm, %.0f kg.\n",
				p.Age, p.Gender, p.HeightCm, p.WeightKg)
		}
		writeList(&b, "Health conditions", p.HealthConditions)
		writeList(&b, "Allergies (must avoid)", p.Allergies)
		writeList(&b, "Recovery needs", p.RecoveryNeeds)
		writeList(&b, "Food restrictions", p.FoodRestrictions)
		writeList(&b, "Preferred cuisines", p.CuisinePreferences)
		if p.CookingCapability != "" {
			fmt.Fprintf(&b, "Cooking skill: %s.\n", p.CookingCapability)
		}
		if p.MealTiming != "" {
			fmt.Fprintf(&b, "Meal timing preference: %s.\n", p.MealTiming)
		}
	}

	b.WriteString("\nThe meals together should add up to the daily targets.")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeList(b *strings.Builder, label string, values []string) {
	filtered := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || v == "none" {
			continue
		}
		filtered = append(filtered, v)
	}
	if len(filtered) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s.\n", label, strings.Join(filtered, ", "))
}

// ExtractMeals parses the model output into meals. Models wrap JSON in
// markdown fences or chatter around it often enough that we cut the
// array out of the surrounding text before unmarshaling.
func ExtractMeals(provider, raw string) ([]outbound.GeneratedMeal, error) {
	cleaned := stripFences(raw)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, errors.NewProviderTransientError(provider,
			fmt.Errorf("no JSON array in response"))
	}

	var meals []outbound.GeneratedMeal
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &meals); err != nil {
		return nil, errors.NewProviderTransientError(provider,
			fmt.Errorf("malformed meal JSON: %w", err))
	}
	if len(meals) == 0 {
		return nil, errors.NewProviderTransientError(provider,
			fmt.Errorf("empty meal list"))
	}
	return meals, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
