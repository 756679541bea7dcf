package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository implements the diet plan repository using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) outbound.PlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan persists a new diet plan shell
func (r *PlanRepository) CreatePlan(ctx context.Context, dietPlan *plan.DietPlan) error {
	return r.db.WithContext(ctx).Create(PlanToModel(dietPlan)).Error
}

// UpdatePlan saves diet plan state
func (r *PlanRepository) UpdatePlan(ctx context.Context, dietPlan *plan.DietPlan) error {
	result := r.db.WithContext(ctx).Save(PlanToModel(dietPlan))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindPlanByID loads a plan with its days and meals. Missing returns (nil, nil).
func (r *PlanRepository) FindPlanByID(ctx context.Context, id uuid.UUID) (*plan.DietPlan, error) {
	var model DietPlanModel
	result := r.db.WithContext(ctx).
		Preload("MealPlans.Meals").
		Preload("MealPlans").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToPlan(&model), nil
}

// FindPlansByUser returns the user's plans, newest first, with pagination
func (r *PlanRepository) FindPlansByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*plan.DietPlan, int, error) {
	var models []DietPlanModel
	var total int64

	query := r.db.WithContext(ctx).Model(&DietPlanModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	plans := make([]*plan.DietPlan, 0, len(models))
	for i := range models {
		plans = append(plans, ModelToPlan(&models[i]))
	}
	return plans, int(total), nil
}

// FindActivePlanByUser returns the user's active plan, or (nil, nil).
func (r *PlanRepository) FindActivePlanByUser(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error) {
	var model DietPlanModel
	result := r.db.WithContext(ctx).
		Preload("MealPlans.Meals").
		Preload("MealPlans").
		Where("user_id = ? AND status = ?", userID, string(plan.StatusActive)).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToPlan(&model), nil
}

// CreateMealPlan persists a new day entry
func (r *PlanRepository) CreateMealPlan(ctx context.Context, mealPlan *plan.MealPlan) error {
	return r.db.WithContext(ctx).Create(MealPlanToModel(mealPlan)).Error
}

// UpdateMealPlan saves day state
func (r *PlanRepository) UpdateMealPlan(ctx context.Context, mealPlan *plan.MealPlan) error {
	result := r.db.WithContext(ctx).Save(MealPlanToModel(mealPlan))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMealPlan loads one day with meals. Missing returns (nil, nil).
func (r *PlanRepository) FindMealPlan(ctx context.Context, dietPlanID uuid.UUID, dayOfWeek string) (*plan.MealPlan, error) {
	var model MealPlanModel
	result := r.db.WithContext(ctx).
		Preload("Meals").
		Where("diet_plan_id = ? AND day_of_week = ?", dietPlanID, dayOfWeek).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToMealPlan(&model), nil
}

// UpsertMeal inserts the meal or replaces the row sharing its
// (meal plan, meal type), keeping the original row id.
func (r *PlanRepository) UpsertMeal(ctx context.Context, meal *plan.Meal) error {
	model := MealToModel(meal)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meal_plan_id"}, {Name: "meal_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "calories",
				"protein_grams", "carbs_grams", "fats_grams",
				"time_of_day", "recipe", "updated_at",
			}),
		}).
		Create(model).Error
}
