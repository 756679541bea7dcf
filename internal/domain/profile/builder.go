package profile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Response keys produced by the assessment flow. The builder only touches
// fields whose key is present, so repeated assessments update partially.
const (
	keyAge              = "age"
	keyGender           = "gender"
	keyHeight           = "height"
	keyWeight           = "weight"
	keyTargetWeight     = "target_weight"
	keyActivityLevel    = "activity_level"
	keyDietType         = "diet_type"
	keyMealTiming       = "meal_timing"
	keyDailySchedule    = "daily_schedule"
	keyCooking          = "cooking_capability"
	keyExercise         = "exercise_routine"
	keyStressSleep      = "stress_sleep"
	keyPrimaryGoal      = "primary_goal"
	keyGoalTimeline     = "goal_timeline"
	keyMeasurement      = "measurement_preference"
	keyCommitment       = "commitment_level"
	keyMealVariety      = "meal_variety"
	keyHealthConditions = "health_conditions"
	keyAllergies        = "allergies"
	keyRecoveryNeeds    = "recovery_needs"
	keyCuisines         = "cuisine_preferences"
	keyRestrictions     = "food_restrictions"
	keyMedications      = "medications"
)

const (
	cmPerFoot  = 30.48
	cmPerInch  = 2.54
	kgPerPound = 0.453592
)

var feetInchesPattern = regexp.MustCompile(`^\s*(\d+)\s*'\s*(\d+(?:\.\d+)?)\s*"?\s*$`)
var poundsPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*lbs?\.?\s*$`)

// Apply maps raw assessment responses onto the profile. Unseen keys leave
// their fields untouched.
func Apply(p *ClientProfile, responses map[string]interface{}) {
	if v, ok := stringValue(responses, keyAge); ok {
		if age, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			p.Age = age
		}
	}
	if v, ok := stringValue(responses, keyGender); ok {
		p.Gender = MapGender(v)
	}
	if v, ok := stringValue(responses, keyHeight); ok {
		if cm, err := ParseHeightCm(v); err == nil {
			p.HeightCm = cm
		}
	}
	if v, ok := stringValue(responses, keyWeight); ok {
		if kg, err := ParseWeightKg(v); err == nil {
			p.WeightKg = kg
		}
	}
	if v, ok := stringValue(responses, keyTargetWeight); ok {
		if kg, err := ParseWeightKg(v); err == nil {
			p.TargetWeightKg = kg
		}
	}

	if v, ok := stringValue(responses, keyActivityLevel); ok {
		p.ActivityLevel = MapActivityLevel(v)
	}
	if v, ok := stringValue(responses, keyDietType); ok {
		p.DietType = MapDietType(v)
	}
	if v, ok := stringValue(responses, keyMealTiming); ok {
		p.MealTiming = MapMealTiming(v)
	}
	if v, ok := stringValue(responses, keyDailySchedule); ok {
		p.DailySchedule = MapDailySchedule(v)
	}
	if v, ok := stringValue(responses, keyCooking); ok {
		p.CookingCapability = MapCookingCapability(v)
	}
	if v, ok := stringValue(responses, keyExercise); ok {
		p.ExerciseRoutine = MapExerciseRoutine(v)
	}
	if v, ok := stringValue(responses, keyStressSleep); ok {
		p.StressSleep = MapStressSleep(v)
	}
	if v, ok := stringValue(responses, keyPrimaryGoal); ok {
		p.PrimaryGoal = MapPrimaryGoal(v)
	}
	if v, ok := stringValue(responses, keyGoalTimeline); ok {
		p.GoalTimeline = MapGoalTimeline(v)
	}
	if v, ok := stringValue(responses, keyMeasurement); ok {
		p.MeasurementPref = MapMeasurementPref(v)
	}
	if v, ok := stringValue(responses, keyCommitment); ok {
		p.CommitmentLevel = MapCommitmentLevel(v)
	}
	if v, ok := stringValue(responses, keyMealVariety); ok {
		p.MealVariety = MapMealVariety(v)
	}

	if raw, ok := responses[keyHealthConditions]; ok {
		p.HealthConditions = NormalizeList(raw)
	}
	if raw, ok := responses[keyAllergies]; ok {
		p.Allergies = NormalizeList(raw)
	}
	if raw, ok := responses[keyRecoveryNeeds]; ok {
		p.RecoveryNeeds = NormalizeList(raw)
	}
	if raw, ok := responses[keyCuisines]; ok {
		p.CuisinePreferences = NormalizeList(raw)
	}
	if raw, ok := responses[keyRestrictions]; ok {
		p.FoodRestrictions = NormalizeList(raw)
	}
	if raw, ok := responses[keyMedications]; ok {
		p.Medications = NormalizeList(raw)
	}

	p.UpdatedAt = time.Now()
}

// ParseHeightCm parses a height answer. Feet'inches notation converts to
// centimeters; anything else is treated as an already-metric value.
func ParseHeightCm(raw string) (float64, error) {
	if m := feetInchesPattern.FindStringSubmatch(raw); m != nil {
		feet, _ := strconv.ParseFloat(m[1], 64)
		inches, _ := strconv.ParseFloat(m[2], 64)
		return math.Round(feet*cmPerFoot + inches*cmPerInch), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// ParseWeightKg parses a weight answer. A trailing lb/lbs marker converts
// to kilograms; anything else is treated as an already-metric value.
func ParseWeightKg(raw string) (float64, error) {
	if m := poundsPattern.FindStringSubmatch(raw); m != nil {
		pounds, _ := strconv.ParseFloat(m[1], 64)
		return pounds * kgPerPound, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// NormalizeList coerces a raw answer into a clean string slice: arrays pass
// through, comma-joined strings split, bare scalars wrap.
func NormalizeList(raw interface{}) []string {
	switch v := raw.(type) {
	case []string:
		return trimAll(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.Contains(v, ",") {
			return trimAll(strings.Split(v, ","))
		}
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{strings.TrimSpace(v)}
	default:
		return []string{}
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func stringValue(responses map[string]interface{}, key string) (string, bool) {
	raw, ok := responses[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}
