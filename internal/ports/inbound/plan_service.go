package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/plan"
)

// PlanService exposes diet plan generation and retrieval.
type PlanService interface {
	// GenerateDietPlan builds the profile from a completed session,
	// computes targets, persists the plan shell and generates the week's
	// meals. It returns the plan and whether every day came from the AI
	// provider; success is false when any day fell back to the
	// deterministic synthesizer.
	GenerateDietPlan(ctx context.Context, sessionID uuid.UUID) (*plan.DietPlan, bool, error)

	// GetDietPlan returns the full plan with days and meals.
	GetDietPlan(ctx context.Context, planID uuid.UUID) (*plan.DietPlan, error)

	// GetActivePlan returns the user's active plan, if any.
	GetActivePlan(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error)

	// ArchivePlan moves the plan out of the user's active set.
	ArchivePlan(ctx context.Context, planID, userID uuid.UUID) error
}
