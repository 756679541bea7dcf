package plan

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDietPlanStartsActive(t *testing.T) {
	p := NewDietPlan(uuid.New(), uuid.New())
	assert.True(t, p.IsActive())
	assert.NotEqual(t, uuid.Nil, p.ID)

	p.Deactivate()
	assert.Equal(t, StatusInactive, p.Status)
	assert.False(t, p.IsActive())

	p.Archive()
	assert.Equal(t, StatusArchived, p.Status)
}

func TestMealPlanGenerationLifecycle(t *testing.T) {
	mp := NewMealPlan(uuid.New(), "monday")
	assert.Equal(t, GenerationPending, mp.GenerationStatus)

	mp.MarkInProgress()
	assert.Equal(t, GenerationInProgress, mp.GenerationStatus)

	meals := []*Meal{
		{MealType: MealBreakfast, Calories: 400, ProteinGrams: 30, CarbsGrams: 45, FatsGrams: 12},
		{MealType: MealLunch, Calories: 650, ProteinGrams: 45, CarbsGrams: 70, FatsGrams: 20},
		{MealType: MealDinner, Calories: 550, ProteinGrams: 40, CarbsGrams: 50, FatsGrams: 18},
	}
	mp.MarkCompleted(meals)
	assert.Equal(t, GenerationCompleted, mp.GenerationStatus)
	assert.Equal(t, 1600, mp.TotalCalories)
	assert.Equal(t, 115.0, mp.TotalProtein)
	assert.Equal(t, 165.0, mp.TotalCarbs)
	assert.Equal(t, 50.0, mp.TotalFats)

	mp.MarkFailed()
	assert.Equal(t, GenerationFailed, mp.GenerationStatus)
}

func TestMarkFallbackKeepsMealsButFailsDay(t *testing.T) {
	mp := NewMealPlan(uuid.New(), "friday")
	meals := []*Meal{
		{MealType: MealBreakfast, Calories: 500},
		{MealType: MealLunch, Calories: 600},
	}
	mp.MarkFallback(meals)
	assert.Equal(t, GenerationFailed, mp.GenerationStatus)
	assert.Len(t, mp.Meals, 2)
	assert.Equal(t, 1100, mp.TotalCalories)
}

func TestValidMealType(t *testing.T) {
	assert.True(t, ValidMealType(MealBreakfast))
	assert.True(t, ValidMealType(MealPostWorkout))
	assert.False(t, ValidMealType(MealType("brunch")))
	assert.False(t, ValidMealType(MealType("")))
}

func TestDaysOfWeekOrder(t *testing.T) {
	assert.Len(t, DaysOfWeek, 7)
	assert.Equal(t, "monday", DaysOfWeek[0])
	assert.Equal(t, "sunday", DaysOfWeek[6])
}
