// Package nutrition contains the deterministic nutrition-target math.
// Everything here is a pure function of the client profile and goal
// answers so plan generation stays reproducible.
package nutrition

import (
	"math"

	"github.com/nutriplan/v1/internal/domain/profile"
)

// Targets holds the computed daily nutrition targets for a client.
type Targets struct {
	DailyCalories int
	ProteinGrams  int
	CarbsGrams    int
	FatsGrams     int
}

// MacroSplit expresses a calorie distribution in percent. Protein and carbs
// convert at 4 kcal/g, fat at 9 kcal/g.
type MacroSplit struct {
	ProteinPct float64
	CarbsPct   float64
	FatPct     float64
}

const (
	// DefaultBMR is used when the profile lacks age, height, weight or
	// gender. Independent from the enum-mapping defaults in the profile
	// package.
	DefaultBMR = 1800.0

	caloriesPerGramProtein = 4.0
	caloriesPerGramCarbs   = 4.0
	caloriesPerGramFat     = 9.0
)

// activityMultipliers maps activity level to the TDEE multiplier.
var activityMultipliers = map[profile.ActivityLevel]float64{
	profile.ActivitySedentary:        1.2,
	profile.ActivityLightlyActive:    1.375,
	profile.ActivityModeratelyActive: 1.55,
	profile.ActivityVeryActive:       1.725,
	profile.ActivityExtremelyActive:  1.9,
}

// dietSplits are diet-type overrides that take precedence over goal splits.
var dietSplits = map[profile.DietType]MacroSplit{
	profile.DietKeto:        {ProteinPct: 25, CarbsPct: 5, FatPct: 70},
	profile.DietHighProtein: {ProteinPct: 40, CarbsPct: 30, FatPct: 30},
}

// goalSplits apply when the diet type carries no override.
var goalSplits = map[string]MacroSplit{
	"weight_loss": {ProteinPct: 30, CarbsPct: 45, FatPct: 25},
	"muscle_gain": {ProteinPct: 35, CarbsPct: 45, FatPct: 20},
	"maintenance": {ProteinPct: 25, CarbsPct: 50, FatPct: 25},
}

// defaultSplit is the catch-all macro distribution.
var defaultSplit = MacroSplit{ProteinPct: 30, CarbsPct: 40, FatPct: 30}

// ComputeTargets derives daily calorie and macro targets from the profile
// and the client's primary goal. It is pure and deterministic.
func ComputeTargets(p *profile.ClientProfile, primaryGoal string) Targets {
	bmr := BMR(p)
	tdee := bmr * ActivityMultiplier(p.ActivityLevel)
	split := ResolveSplit(p.DietType, primaryGoal)

	calories := int(math.Round(tdee))
	return Targets{
		DailyCalories: calories,
		ProteinGrams:  gramsFor(float64(calories), split.ProteinPct, caloriesPerGramProtein),
		CarbsGrams:    gramsFor(float64(calories), split.CarbsPct, caloriesPerGramCarbs),
		FatsGrams:     gramsFor(float64(calories), split.FatPct, caloriesPerGramFat),
	}
}

// BMR computes the Mifflin-St Jeor basal metabolic rate. An incomplete
// profile yields DefaultBMR.
func BMR(p *profile.ClientProfile) float64 {
	if p == nil || p.Age <= 0 || p.HeightCm <= 0 || p.WeightKg <= 0 || p.Gender == "" {
		return DefaultBMR
	}

	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if p.Gender == profile.GenderMale {
		return base + 5
	}
	return base - 161
}

// ActivityMultiplier returns the TDEE multiplier for an activity level,
// treating unknown levels as sedentary.
func ActivityMultiplier(level profile.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return 1.2
}

// ResolveSplit picks the macro distribution: diet-type overrides win over
// goal-based splits, which fall back to the default split.
func ResolveSplit(diet profile.DietType, primaryGoal string) MacroSplit {
	if split, ok := dietSplits[diet]; ok {
		return split
	}
	if split, ok := goalSplits[primaryGoal]; ok {
		return split
	}
	return defaultSplit
}

func gramsFor(calories, pct, perGram float64) int {
	return int(math.Round(calories * pct / 100 / perGram))
}
