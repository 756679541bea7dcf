// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
)

// SessionRepository persists assessment sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *assessment.Session) error
	Update(ctx context.Context, session *assessment.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*assessment.Session, error)

	// FindActiveByUser returns the user's in-progress session, if any.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*assessment.Session, error)

	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Session, int, error)
}

// ProfileRepository persists client profiles built from assessment responses.
type ProfileRepository interface {
	Save(ctx context.Context, p *profile.ClientProfile) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*profile.ClientProfile, error)
}

// PlanRepository persists diet plans, their per-day meal plans and meals.
type PlanRepository interface {
	CreatePlan(ctx context.Context, dietPlan *plan.DietPlan) error
	UpdatePlan(ctx context.Context, dietPlan *plan.DietPlan) error
	FindPlanByID(ctx context.Context, id uuid.UUID) (*plan.DietPlan, error)
	FindPlansByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*plan.DietPlan, int, error)

	// FindActivePlanByUser returns the user's single active plan, if any.
	FindActivePlanByUser(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error)

	CreateMealPlan(ctx context.Context, mealPlan *plan.MealPlan) error
	UpdateMealPlan(ctx context.Context, mealPlan *plan.MealPlan) error
	FindMealPlan(ctx context.Context, dietPlanID uuid.UUID, dayOfWeek string) (*plan.MealPlan, error)

	// UpsertMeal inserts the meal or replaces the existing row with the
	// same (meal plan, meal type), keeping the original meal id.
	UpsertMeal(ctx context.Context, meal *plan.Meal) error
}

// CacheRepository defines the caching operations used across services.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Counter operations, used by the provider rate limiter.
	Increment(ctx context.Context, key string) (int64, error)
	IncrementBy(ctx context.Context, key string, delta int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
