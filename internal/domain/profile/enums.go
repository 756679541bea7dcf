package profile

import "strings"

// Coded-answer tables. The questionnaire delivers either a numeric option
// code ("1".."5") or a label; both resolve to the same canonical value.
// Unrecognized input falls back to the per-field default so a sloppy
// answer never blocks plan generation.

const (
	DefaultActivityLevel = ActivityModeratelyActive
	DefaultDietType      = DietOmnivore
	DefaultMealTiming    = "three_meals"
	DefaultDailySchedule = "standard"
	DefaultCooking       = "basic"
	DefaultExercise      = "none"
	DefaultStressSleep   = "moderate"
	DefaultPrimaryGoal   = "maintenance"
	DefaultTimeline      = "medium"
	DefaultMeasurement   = "metric"
	DefaultCommitment    = "moderate"
	DefaultMealVariety   = "balanced"
)

var activityTable = map[string]ActivityLevel{
	"1": ActivitySedentary, "sedentary": ActivitySedentary,
	"2": ActivityLightlyActive, "lightly_active": ActivityLightlyActive,
	"3": ActivityModeratelyActive, "moderately_active": ActivityModeratelyActive,
	"4": ActivityVeryActive, "very_active": ActivityVeryActive,
	"5": ActivityExtremelyActive, "extremely_active": ActivityExtremelyActive,
}

var dietTable = map[string]DietType{
	"1": DietOmnivore, "omnivore": DietOmnivore,
	"2": DietVegetarian, "vegetarian": DietVegetarian,
	"3": DietVegan, "vegan": DietVegan,
	"4": DietPescatarian, "pescatarian": DietPescatarian,
	"5": DietKeto, "keto": DietKeto,
	"6": DietPaleo, "paleo": DietPaleo,
	"7": DietHighProtein, "high_protein": DietHighProtein,
	"8": DietMediterranean, "mediterranean": DietMediterranean,
}

var mealTimingTable = map[string]string{
	"1": "three_meals", "three_meals": "three_meals",
	"2": "small_frequent", "small_frequent": "small_frequent",
	"3": "intermittent_fasting", "intermittent_fasting": "intermittent_fasting",
	"4": "flexible", "flexible": "flexible",
}

var dailyScheduleTable = map[string]string{
	"1": "early_riser", "early_riser": "early_riser",
	"2": "standard", "standard": "standard",
	"3": "night_shift", "night_shift": "night_shift",
	"4": "irregular", "irregular": "irregular",
}

var cookingTable = map[string]string{
	"1": "none", "none": "none",
	"2": "basic", "basic": "basic",
	"3": "intermediate", "intermediate": "intermediate",
	"4": "advanced", "advanced": "advanced",
}

var exerciseTable = map[string]string{
	"1": "none", "none": "none",
	"2": "cardio", "cardio": "cardio",
	"3": "strength", "strength": "strength",
	"4": "mixed", "mixed": "mixed",
	"5": "athlete", "athlete": "athlete",
}

var stressSleepTable = map[string]string{
	"1": "low", "low": "low",
	"2": "moderate", "moderate": "moderate",
	"3": "high", "high": "high",
}

var primaryGoalTable = map[string]string{
	"1": "weight_loss", "weight_loss": "weight_loss",
	"2": "muscle_gain", "muscle_gain": "muscle_gain",
	"3": "maintenance", "maintenance": "maintenance",
	"4": "energy", "energy": "energy",
	"5": "recovery", "recovery": "recovery",
}

var timelineTable = map[string]string{
	"1": "short", "short": "short",
	"2": "medium", "medium": "medium",
	"3": "long", "long": "long",
	"4": "lifestyle", "lifestyle": "lifestyle",
}

var measurementTable = map[string]string{
	"1": "metric", "metric": "metric",
	"2": "imperial", "imperial": "imperial",
}

var commitmentTable = map[string]string{
	"1": "light", "light": "light",
	"2": "moderate", "moderate": "moderate",
	"3": "strict", "strict": "strict",
}

var mealVarietyTable = map[string]string{
	"1": "repetitive", "repetitive": "repetitive",
	"2": "balanced", "balanced": "balanced",
	"3": "adventurous", "adventurous": "adventurous",
}

// MapActivityLevel resolves a coded answer to an ActivityLevel.
func MapActivityLevel(raw string) ActivityLevel {
	if v, ok := activityTable[normalizeCode(raw)]; ok {
		return v
	}
	return DefaultActivityLevel
}

// MapDietType resolves a coded answer to a DietType.
func MapDietType(raw string) DietType {
	if v, ok := dietTable[normalizeCode(raw)]; ok {
		return v
	}
	return DefaultDietType
}

func mapWithDefault(table map[string]string, raw, fallback string) string {
	if v, ok := table[normalizeCode(raw)]; ok {
		return v
	}
	return fallback
}

// MapMealTiming resolves a coded meal-timing answer.
func MapMealTiming(raw string) string { return mapWithDefault(mealTimingTable, raw, DefaultMealTiming) }

// MapDailySchedule resolves a coded daily-schedule answer.
func MapDailySchedule(raw string) string {
	return mapWithDefault(dailyScheduleTable, raw, DefaultDailySchedule)
}

// MapCookingCapability resolves a coded cooking-capability answer.
func MapCookingCapability(raw string) string {
	return mapWithDefault(cookingTable, raw, DefaultCooking)
}

// MapExerciseRoutine resolves a coded exercise-routine answer.
func MapExerciseRoutine(raw string) string {
	return mapWithDefault(exerciseTable, raw, DefaultExercise)
}

// MapStressSleep resolves a coded stress/sleep bucket.
func MapStressSleep(raw string) string {
	return mapWithDefault(stressSleepTable, raw, DefaultStressSleep)
}

// MapPrimaryGoal resolves a coded primary-goal answer.
func MapPrimaryGoal(raw string) string {
	return mapWithDefault(primaryGoalTable, raw, DefaultPrimaryGoal)
}

// MapGoalTimeline resolves a coded timeline answer.
func MapGoalTimeline(raw string) string { return mapWithDefault(timelineTable, raw, DefaultTimeline) }

// MapMeasurementPref resolves a coded measurement preference.
func MapMeasurementPref(raw string) string {
	return mapWithDefault(measurementTable, raw, DefaultMeasurement)
}

// MapCommitmentLevel resolves a coded commitment level.
func MapCommitmentLevel(raw string) string {
	return mapWithDefault(commitmentTable, raw, DefaultCommitment)
}

// MapMealVariety resolves a coded meal-variety answer.
func MapMealVariety(raw string) string {
	return mapWithDefault(mealVarietyTable, raw, DefaultMealVariety)
}

// MapGender normalizes a gender answer, keeping unknown values as "other".
func MapGender(raw string) Gender {
	switch normalizeCode(raw) {
	case "male", "m", "1":
		return GenderMale
	case "female", "f", "2":
		return GenderFemale
	default:
		return GenderOther
	}
}

func normalizeCode(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
