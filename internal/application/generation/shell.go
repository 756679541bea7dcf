package generation

import (
	"fmt"
	"strings"
	"time"

	"github.com/nutriplan/v1/internal/domain/profile"
)

// Plan shell composition: the title, description and end date are
// derived from the profile so the plan reads personalized before any
// meals exist.

var goalTitles = map[string]string{
	"weight_loss": "Weight Loss",
	"muscle_gain": "Muscle Building",
	"maintenance": "Maintenance",
	"energy":      "Energy Boost",
	"recovery":    "Recovery Support",
}

func planTitle(p *profile.ClientProfile) string {
	goal, ok := goalTitles[p.PrimaryGoal]
	if !ok {
		goal = "Personalized"
	}
	diet := strings.ReplaceAll(string(p.DietType), "_", " ")
	if diet == "" {
		return fmt.Sprintf("%s Nutrition Plan", goal)
	}
	return fmt.Sprintf("%s %s Plan", goal, titleCase(diet))
}

func planDescription(p *profile.ClientProfile) string {
	parts := []string{"A weekly meal plan tailored to your assessment."}
	if conditions := meaningful(p.HealthConditions); len(conditions) > 0 {
		parts = append(parts, "Adjusted for: "+strings.Join(conditions, ", ")+".")
	}
	if len(p.RecoveryNeeds) > 0 {
		parts = append(parts, "Supports recovery with "+strings.Join(p.RecoveryNeeds, ", ")+".")
	}
	if restrictions := meaningful(p.FoodRestrictions); len(restrictions) > 0 {
		parts = append(parts, "Avoids: "+strings.Join(restrictions, ", ")+".")
	}
	return strings.Join(parts, " ")
}

// planEndDate maps the goal timeline onto a plan horizon.
func planEndDate(start time.Time, timeline string) time.Time {
	switch timeline {
	case "short":
		return start.AddDate(0, 0, 28)
	case "medium":
		return start.AddDate(0, 3, 0)
	case "long":
		return start.AddDate(0, 6, 0)
	case "lifestyle":
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 3, 0)
	}
}

// meaningful drops the "none" and "other" sentinels from display lists.
func meaningful(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "none" || v == "other" {
			continue
		}
		out = append(out, strings.ReplaceAll(v, "_", " "))
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
