package assessment

// Built-in question graphs. Definitions are plain data; all branching
// logic lives in Conditional entries referencing registered predicates.
//
// Phases: 1 basics, 2 health, 3 diet preferences, 4 lifestyle, 5 goals,
// 6 customization.

const defaultLanguage = "en"

var ageValidation = &ValidationRule{Numeric: true, Min: 12, Max: 120}
var heightValidation = &ValidationRule{Pattern: `^\s*(\d+(\.\d+)?|\d+\s*'\s*\d+(\.\d+)?\s*"?)\s*$`}
var weightValidation = &ValidationRule{Pattern: `(?i)^\s*\d+(\.\d+)?\s*(lbs?\.?)?\s*$`}

var genderOptions = []Option{
	{ID: "1", Title: "Male"},
	{ID: "2", Title: "Female"},
	{ID: "3", Title: "Other / prefer not to say"},
}

var activityOptions = []Option{
	{ID: "1", Title: "Sedentary", Description: "Desk job, little or no exercise"},
	{ID: "2", Title: "Lightly active", Description: "Light exercise 1-3 days a week"},
	{ID: "3", Title: "Moderately active", Description: "Moderate exercise 3-5 days a week"},
	{ID: "4", Title: "Very active", Description: "Hard exercise 6-7 days a week"},
	{ID: "5", Title: "Extremely active", Description: "Physical job or twice-daily training"},
}

var dietOptions = []Option{
	{ID: "1", Title: "Omnivore"},
	{ID: "2", Title: "Vegetarian"},
	{ID: "3", Title: "Vegan"},
	{ID: "4", Title: "Pescatarian"},
	{ID: "5", Title: "Keto"},
	{ID: "6", Title: "Paleo"},
	{ID: "7", Title: "High protein"},
	{ID: "8", Title: "Mediterranean"},
}

var healthConditionOptions = []Option{
	{ID: OptionNone, Title: "None"},
	{ID: "diabetes", Title: "Diabetes"},
	{ID: "hypertension", Title: "Hypertension"},
	{ID: "heart_disease", Title: "Heart disease"},
	{ID: "thyroid", Title: "Thyroid condition"},
	{ID: OptionOrganRecovery, Title: "Organ recovery"},
	{ID: OptionPostSurgery, Title: "Post-surgery recovery"},
	{ID: OptionOther, Title: "Other"},
}

var allergyOptions = []Option{
	{ID: OptionNone, Title: "None"},
	{ID: "dairy", Title: "Dairy"},
	{ID: "gluten", Title: "Gluten"},
	{ID: "nuts", Title: "Tree nuts / peanuts"},
	{ID: "shellfish", Title: "Shellfish"},
	{ID: "eggs", Title: "Eggs"},
	{ID: "soy", Title: "Soy"},
	{ID: OptionOther, Title: "Other"},
}

var recoveryNeedOptions = []Option{
	{ID: "low_sodium", Title: "Low sodium"},
	{ID: "high_protein", Title: "Extra protein"},
	{ID: "soft_foods", Title: "Soft foods"},
	{ID: "anti_inflammatory", Title: "Anti-inflammatory"},
	{ID: "low_fat", Title: "Low fat"},
}

var cuisineOptions = []Option{
	{ID: "italian", Title: "Italian"},
	{ID: "mexican", Title: "Mexican"},
	{ID: "chinese", Title: "Chinese"},
	{ID: "indian", Title: "Indian"},
	{ID: "japanese", Title: "Japanese"},
	{ID: "thai", Title: "Thai"},
	{ID: "mediterranean", Title: "Mediterranean"},
	{ID: "french", Title: "French"},
	{ID: "korean", Title: "Korean"},
	{ID: "vietnamese", Title: "Vietnamese"},
	{ID: "middle_eastern", Title: "Middle Eastern"},
	{ID: "american", Title: "American"},
}

var restrictionOptions = []Option{
	{ID: OptionNone, Title: "None"},
	{ID: "no_pork", Title: "No pork"},
	{ID: "no_beef", Title: "No beef"},
	{ID: "halal", Title: "Halal"},
	{ID: "kosher", Title: "Kosher"},
	{ID: "low_sugar", Title: "Low sugar"},
	{ID: "low_sodium", Title: "Low sodium"},
	{ID: OptionOther, Title: "Other"},
}

var exerciseOptions = []Option{
	{ID: "1", Title: "None"},
	{ID: "2", Title: "Cardio"},
	{ID: "3", Title: "Strength training"},
	{ID: "4", Title: "Mixed"},
	{ID: "5", Title: "Competitive athlete"},
}

var scheduleOptions = []Option{
	{ID: "1", Title: "Early riser"},
	{ID: "2", Title: "Standard 9 to 5"},
	{ID: "3", Title: "Night shift"},
	{ID: "4", Title: "Irregular"},
}

var mealTimingOptions = []Option{
	{ID: "1", Title: "Three meals a day"},
	{ID: "2", Title: "Small frequent meals"},
	{ID: "3", Title: "Intermittent fasting"},
	{ID: "4", Title: "Flexible"},
}

var cookingOptions = []Option{
	{ID: "1", Title: "I don't cook"},
	{ID: "2", Title: "Basic"},
	{ID: "3", Title: "Intermediate"},
	{ID: "4", Title: "Advanced"},
}

var stressSleepOptions = []Option{
	{ID: "1", Title: "Low stress, good sleep"},
	{ID: "2", Title: "Moderate"},
	{ID: "3", Title: "High stress or poor sleep"},
}

var goalOptions = []Option{
	{ID: "1", Title: "Lose weight"},
	{ID: "2", Title: "Build muscle"},
	{ID: "3", Title: "Maintain"},
	{ID: "4", Title: "More energy"},
	{ID: "5", Title: "Recovery support"},
}

var timelineOptions = []Option{
	{ID: "1", Title: "Next few weeks"},
	{ID: "2", Title: "A few months"},
	{ID: "3", Title: "Six months or more"},
	{ID: "4", Title: "Lifestyle change"},
}

var commitmentOptions = []Option{
	{ID: "1", Title: "Light touch"},
	{ID: "2", Title: "Moderate"},
	{ID: "3", Title: "Strict plan"},
}

var varietyOptions = []Option{
	{ID: "1", Title: "Keep it simple"},
	{ID: "2", Title: "Balanced mix"},
	{ID: "3", Title: "Surprise me"},
}

var measurementOptions = []Option{
	{ID: "1", Title: "Metric (kg, cm)"},
	{ID: "2", Title: "Imperial (lb, ft)"},
}

var severityOptions = []Option{
	{ID: "mild", Title: "Mild"},
	{ID: "moderate", Title: "Moderate"},
	{ID: "severe", Title: "Severe"},
}

func textQ(id string, phase int, prompt string, v *ValidationRule, next string) *QuestionDefinition {
	return &QuestionDefinition{ID: id, Phase: phase, Prompt: prompt, Type: TypeText, Validation: v, Next: next}
}

func buttonQ(id string, phase int, prompt string, opts []Option, next string) *QuestionDefinition {
	return &QuestionDefinition{ID: id, Phase: phase, Prompt: prompt, Type: TypeButton, Options: opts, Next: next}
}

func listQ(id string, phase int, prompt string, opts []Option, multiple bool, next string) *QuestionDefinition {
	return &QuestionDefinition{ID: id, Phase: phase, Prompt: prompt, Type: TypeList, Options: opts, Multiple: multiple, Next: next}
}

func final(q *QuestionDefinition) *QuestionDefinition {
	q.Next = ""
	q.IsFinal = true
	return q
}

func quickGraph() *Graph {
	defs := []*QuestionDefinition{
		textQ("age", 1, "How old are you?", ageValidation, "gender"),
		buttonQ("gender", 1, "What is your gender?", genderOptions, "height"),
		textQ("height", 1, "What is your height? (cm or feet'inches)", heightValidation, "weight"),
		textQ("weight", 1, "What is your current weight? (kg or lbs)", weightValidation, "activity_level"),
		buttonQ("activity_level", 4, "How active are you?", activityOptions, "diet_type"),
		buttonQ("diet_type", 3, "How do you prefer to eat?", dietOptions, "primary_goal"),
		final(buttonQ("primary_goal", 5, "What is your main goal?", goalOptions, "")),
	}
	return NewGraph(TierQuick, defaultLanguage, "age", defs)
}

func moderateGraph() *Graph {
	healthConditions := listQ("health_conditions", 2, "Any health conditions we should know about?", healthConditionOptions, true, "")
	healthConditions.NextConditional = &Conditional{
		Conditions: []Condition{
			{Predicate: "has_selection_beyond_none", Next: "medications"},
		},
		Default: "allergies",
	}

	allergies := listQ("allergies", 2, "Any food allergies?", allergyOptions, true, "")
	allergies.NextConditional = &Conditional{
		Conditions: []Condition{
			{Predicate: "contains_other_allergies", Next: "allergy_severity"},
			{Predicate: "has_selection_beyond_none", Next: "allergy_severity"},
		},
		Default: "diet_type",
	}

	defs := []*QuestionDefinition{
		textQ("age", 1, "How old are you?", ageValidation, "gender"),
		buttonQ("gender", 1, "What is your gender?", genderOptions, "height"),
		textQ("height", 1, "What is your height? (cm or feet'inches)", heightValidation, "weight"),
		textQ("weight", 1, "What is your current weight? (kg or lbs)", weightValidation, "target_weight"),
		textQ("target_weight", 1, "What weight are you aiming for? (kg or lbs)", weightValidation, "health_conditions"),
		healthConditions,
		textQ("medications", 2, "List any medications you take regularly.", nil, "allergies"),
		allergies,
		buttonQ("allergy_severity", 2, "How severe are your allergies?", severityOptions, "diet_type"),
		buttonQ("diet_type", 3, "How do you prefer to eat?", dietOptions, "food_restrictions"),
		listQ("food_restrictions", 3, "Any foods you avoid?", restrictionOptions, true, "activity_level"),
		buttonQ("activity_level", 4, "How active are you?", activityOptions, "exercise_routine"),
		buttonQ("exercise_routine", 4, "What does your exercise look like?", exerciseOptions, "primary_goal"),
		buttonQ("primary_goal", 5, "What is your main goal?", goalOptions, "goal_timeline"),
		final(buttonQ("goal_timeline", 5, "What timeline feels right?", timelineOptions, "")),
	}
	return NewGraph(TierModerate, defaultLanguage, "age", defs)
}

func comprehensiveGraph() *Graph {
	healthConditions := listQ("health_conditions", 2, "Any health conditions we should know about?", healthConditionOptions, true, "")
	healthConditions.NextConditional = &Conditional{
		Conditions: []Condition{
			{Predicate: "contains_organ_recovery", Next: "recovery_needs"},
			{Predicate: "contains_post_surgery", Next: "recovery_needs"},
			{Predicate: "has_selection_beyond_none", Next: "medications"},
		},
		Default: "allergies",
	}

	allergies := listQ("allergies", 2, "Any food allergies?", allergyOptions, true, "")
	allergies.NextConditional = &Conditional{
		Conditions: []Condition{
			{Predicate: "contains_other_allergies", Next: "allergy_severity"},
			{Predicate: "has_selection_beyond_none", Next: "allergy_severity"},
		},
		Default: "diet_type",
	}

	defs := []*QuestionDefinition{
		textQ("age", 1, "How old are you?", ageValidation, "gender"),
		buttonQ("gender", 1, "What is your gender?", genderOptions, "height"),
		textQ("height", 1, "What is your height? (cm or feet'inches)", heightValidation, "weight"),
		textQ("weight", 1, "What is your current weight? (kg or lbs)", weightValidation, "target_weight"),
		textQ("target_weight", 1, "What weight are you aiming for? (kg or lbs)", weightValidation, "health_conditions"),
		healthConditions,
		listQ("recovery_needs", 2, "What should your meals support while you recover?", recoveryNeedOptions, true, "medications"),
		textQ("medications", 2, "List any medications you take regularly.", nil, "allergies"),
		allergies,
		buttonQ("allergy_severity", 2, "How severe are your allergies?", severityOptions, "diet_type"),
		buttonQ("diet_type", 3, "How do you prefer to eat?", dietOptions, "cuisine_preferences"),
		listQ("cuisine_preferences", 3, "Which cuisines do you enjoy?", cuisineOptions, true, "food_restrictions"),
		listQ("food_restrictions", 3, "Any foods you avoid?", restrictionOptions, true, "meal_variety"),
		buttonQ("meal_variety", 3, "How much variety do you want?", varietyOptions, "activity_level"),
		buttonQ("activity_level", 4, "How active are you?", activityOptions, "exercise_routine"),
		buttonQ("exercise_routine", 4, "What does your exercise look like?", exerciseOptions, "daily_schedule"),
		buttonQ("daily_schedule", 4, "What does your day look like?", scheduleOptions, "meal_timing"),
		buttonQ("meal_timing", 4, "How do you like to space your meals?", mealTimingOptions, "cooking_capability"),
		buttonQ("cooking_capability", 4, "How comfortable are you cooking?", cookingOptions, "stress_sleep"),
		buttonQ("stress_sleep", 4, "How are your stress and sleep?", stressSleepOptions, "primary_goal"),
		buttonQ("primary_goal", 5, "What is your main goal?", goalOptions, "goal_timeline"),
		buttonQ("goal_timeline", 5, "What timeline feels right?", timelineOptions, "commitment_level"),
		buttonQ("commitment_level", 5, "How strictly do you want to follow the plan?", commitmentOptions, "measurement_preference"),
		final(buttonQ("measurement_preference", 6, "Which units do you prefer?", measurementOptions, "")),
	}
	return NewGraph(TierComprehensive, defaultLanguage, "age", defs)
}

func init() {
	registerGraph(quickGraph())
	registerGraph(moderateGraph())
	registerGraph(comprehensiveGraph())
}
