// Package profile contains the canonical client profile and the mapping
// from raw assessment answers to canonical values.
package profile

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the canonical gender value used by the BMR formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel is the canonical activity bucket.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// DietType is the canonical diet preference.
type DietType string

const (
	DietOmnivore      DietType = "omnivore"
	DietVegetarian    DietType = "vegetarian"
	DietVegan         DietType = "vegan"
	DietPescatarian   DietType = "pescatarian"
	DietKeto          DietType = "keto"
	DietPaleo         DietType = "paleo"
	DietHighProtein   DietType = "high_protein"
	DietMediterranean DietType = "mediterranean"
)

// ClientProfile is the canonical, unit-normalized profile built from
// assessment responses. One row per user; updates are partial.
type ClientProfile struct {
	ID     uuid.UUID
	UserID uuid.UUID

	// Scalars
	Age            int
	Gender         Gender
	HeightCm       float64
	WeightKg       float64
	TargetWeightKg float64

	// Canonical enums
	ActivityLevel     ActivityLevel
	DietType          DietType
	MealTiming        string
	DailySchedule     string
	CookingCapability string
	ExerciseRoutine   string
	StressSleep       string
	PrimaryGoal       string
	GoalTimeline      string
	MeasurementPref   string
	CommitmentLevel   string
	MealVariety       string

	// List-valued fields
	HealthConditions   []string
	Allergies          []string
	RecoveryNeeds      []string
	CuisinePreferences []string
	FoodRestrictions   []string
	Medications        []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewClientProfile creates an empty profile for a user.
func NewClientProfile(userID uuid.UUID) *ClientProfile {
	now := time.Now()
	return &ClientProfile{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
