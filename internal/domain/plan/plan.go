// Package plan holds the diet plan aggregate: a plan spans a week of
// per-day meal plans, each carrying individual meals with macro targets.
package plan

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a diet plan.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// GenerationStatus tracks per-day meal generation progress.
type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationInProgress GenerationStatus = "in_progress"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
)

// MealType identifies a slot within a day. The set is fixed; repositories
// upsert meals by (meal plan, meal type) so regeneration replaces in place.
type MealType string

const (
	MealBreakfast      MealType = "breakfast"
	MealMorningSnack   MealType = "morning_snack"
	MealLunch          MealType = "lunch"
	MealAfternoonSnack MealType = "afternoon_snack"
	MealDinner         MealType = "dinner"
	MealEveningSnack   MealType = "evening_snack"
	MealPreWorkout     MealType = "pre_workout"
	MealPostWorkout    MealType = "post_workout"
)

// DaysOfWeek is the canonical generation order.
var DaysOfWeek = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DietPlan is the top-level aggregate produced after an assessment completes.
type DietPlan struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AssessmentID  uuid.UUID
	Title         string
	Description   string
	Status        Status
	DailyCalories int
	ProteinGrams  float64
	CarbsGrams    float64
	FatsGrams     float64
	StartDate     time.Time
	EndDate       time.Time
	MealPlans     []*MealPlan
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MealPlan is a single day's slice of the diet plan.
type MealPlan struct {
	ID               uuid.UUID
	DietPlanID       uuid.UUID
	DayOfWeek        string
	GenerationStatus GenerationStatus
	TotalCalories    int
	TotalProtein     float64
	TotalCarbs       float64
	TotalFats        float64
	Meals            []*Meal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Meal is one entry in a day's meal plan.
type Meal struct {
	ID           uuid.UUID
	MealPlanID   uuid.UUID
	MealType     MealType
	Name         string
	Description  string
	Calories     int
	ProteinGrams float64
	CarbsGrams   float64
	FatsGrams    float64
	TimeOfDay    string
	Recipe       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewDietPlan creates a pending plan shell for the given user and assessment.
func NewDietPlan(userID, assessmentID uuid.UUID) *DietPlan {
	now := time.Now().UTC()
	return &DietPlan{
		ID:           uuid.New(),
		UserID:       userID,
		AssessmentID: assessmentID,
		Status:       StatusActive,
		StartDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewMealPlan creates an empty day entry in pending state.
func NewMealPlan(dietPlanID uuid.UUID, dayOfWeek string) *MealPlan {
	now := time.Now().UTC()
	return &MealPlan{
		ID:               uuid.New(),
		DietPlanID:       dietPlanID,
		DayOfWeek:        dayOfWeek,
		GenerationStatus: GenerationPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsActive reports whether the plan is the user's current plan.
func (p *DietPlan) IsActive() bool { return p.Status == StatusActive }

// Archive moves the plan out of the active set.
func (p *DietPlan) Archive() {
	p.Status = StatusArchived
	p.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the plan superseded without archiving it.
func (p *DietPlan) Deactivate() {
	p.Status = StatusInactive
	p.UpdatedAt = time.Now().UTC()
}

// MarkInProgress flags the day as being generated.
func (mp *MealPlan) MarkInProgress() {
	mp.GenerationStatus = GenerationInProgress
	mp.UpdatedAt = time.Now().UTC()
}

// MarkCompleted records the day's meals and recomputes daily totals.
func (mp *MealPlan) MarkCompleted(meals []*Meal) {
	mp.Meals = meals
	mp.GenerationStatus = GenerationCompleted
	mp.RecomputeTotals()
	mp.UpdatedAt = time.Now().UTC()
}

// MarkFailed flags the day after all generation attempts were exhausted.
func (mp *MealPlan) MarkFailed() {
	mp.GenerationStatus = GenerationFailed
	mp.UpdatedAt = time.Now().UTC()
}

// MarkFallback records synthesized meals for a day whose provider
// attempts were exhausted. The meals are usable, but the day keeps the
// failed status so regeneration can target it later.
func (mp *MealPlan) MarkFallback(meals []*Meal) {
	mp.Meals = meals
	mp.GenerationStatus = GenerationFailed
	mp.RecomputeTotals()
	mp.UpdatedAt = time.Now().UTC()
}

// RecomputeTotals sums meal macros into the day totals.
func (mp *MealPlan) RecomputeTotals() {
	var calories int
	var protein, carbs, fats float64
	for _, m := range mp.Meals {
		calories += m.Calories
		protein += m.ProteinGrams
		carbs += m.CarbsGrams
		fats += m.FatsGrams
	}
	mp.TotalCalories = calories
	mp.TotalProtein = protein
	mp.TotalCarbs = carbs
	mp.TotalFats = fats
}

// ValidMealType reports whether t is one of the known slots.
func ValidMealType(t MealType) bool {
	switch t {
	case MealBreakfast, MealMorningSnack, MealLunch, MealAfternoonSnack,
		MealDinner, MealEveningSnack, MealPreWorkout, MealPostWorkout:
		return true
	}
	return false
}
