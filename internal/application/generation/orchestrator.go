package generation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/domain/nutrition"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"go.uber.org/zap"
)

// Options tunes the generation pipeline.
type Options struct {
	// Workers caps concurrent per-day generations.
	Workers int
	// Provider names the preferred provider; unknown names fall back to
	// the factory default.
	Provider string
	// Model is the provider model id, used in rate limiter keys.
	Model string
	// EstimatedTokensPerDay sizes the token budget reservation for one
	// day's generation request.
	EstimatedTokensPerDay int
	// Retry overrides the provider retry policy.
	Retry RetryPolicy
	// BackgroundTimeout bounds a full background generation run.
	BackgroundTimeout time.Duration
}

func (o Options) normalized() Options {
	if o.Workers <= 0 {
		o.Workers = 3
	}
	if o.EstimatedTokensPerDay <= 0 {
		o.EstimatedTokensPerDay = 1500
	}
	if o.BackgroundTimeout <= 0 {
		o.BackgroundTimeout = 15 * time.Minute
	}
	o.Retry = o.Retry.normalized()
	return o
}

// Orchestrator implements diet plan generation: profile from a completed
// session, deterministic targets, a persisted plan shell, then a bounded
// worker pool generating each day's meals with retry and fallback.
type Orchestrator struct {
	sessions outbound.SessionRepository
	profiles outbound.ProfileRepository
	plans    outbound.PlanRepository
	factory  *ProviderFactory
	limiter  *RateLimiter
	opts     Options
	logger   *zap.Logger
}

// NewOrchestrator creates a plan generation orchestrator.
func NewOrchestrator(
	sessions outbound.SessionRepository,
	profiles outbound.ProfileRepository,
	plans outbound.PlanRepository,
	factory *ProviderFactory,
	limiter *RateLimiter,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		profiles: profiles,
		plans:    plans,
		factory:  factory,
		limiter:  limiter,
		opts:     opts.normalized(),
		logger:   logger.Named("plan-generator"),
	}
}

// TriggerGeneration starts plan generation for a completed session in
// the background. Failures are logged; the plan itself records per-day
// outcomes for later inspection.
func (o *Orchestrator) TriggerGeneration(sessionID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.opts.BackgroundTimeout)
		defer cancel()
		if _, _, err := o.GenerateDietPlan(ctx, sessionID); err != nil {
			o.logger.Error("Background plan generation failed",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
		}
	}()
}

// GenerateDietPlan runs the full pipeline for a completed session. The
// boolean result is false when any day used the fallback synthesizer.
func (o *Orchestrator) GenerateDietPlan(ctx context.Context, sessionID uuid.UUID) (*plan.DietPlan, bool, error) {
	session, err := o.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, false, errors.NewDatabaseError("find session", err)
	}
	if session == nil {
		return nil, false, errors.NewAppError(errors.CodeSessionNotFound, "Assessment session not found", "")
	}
	if session.Status != assessment.StatusCompleted {
		return nil, false, errors.NewConflictError("assessment is not completed")
	}

	// Responses only overwrite the fields their tier asked about, so a
	// quick re-assessment keeps the stored comprehensive answers.
	clientProfile, err := o.profiles.FindByUser(ctx, session.UserID)
	if err != nil {
		return nil, false, errors.NewDatabaseError("find profile", err)
	}
	if clientProfile == nil {
		clientProfile = profile.NewClientProfile(session.UserID)
	}
	profile.Apply(clientProfile, session.Responses.ToMap())
	if err := o.profiles.Save(ctx, clientProfile); err != nil {
		return nil, false, errors.NewDatabaseError("save profile", err)
	}

	targets := nutrition.ComputeTargets(clientProfile, clientProfile.PrimaryGoal)
	o.logger.Info("Computed nutrition targets",
		zap.String("user_id", session.UserID.String()),
		zap.Int("daily_calories", targets.DailyCalories),
		zap.Int("protein_g", targets.ProteinGrams),
		zap.Int("carbs_g", targets.CarbsGrams),
		zap.Int("fats_g", targets.FatsGrams),
	)

	if err := o.retireActivePlan(ctx, session.UserID); err != nil {
		return nil, false, err
	}

	dietPlan, err := o.createShell(ctx, session, clientProfile, targets)
	if err != nil {
		return nil, false, err
	}

	allGenerated := o.generateWeek(ctx, dietPlan, clientProfile, targets)

	dietPlan.UpdatedAt = time.Now().UTC()
	if err := o.plans.UpdatePlan(ctx, dietPlan); err != nil {
		return nil, false, errors.NewDatabaseError("update plan", err)
	}

	o.logger.Info("Diet plan generation finished",
		zap.String("plan_id", dietPlan.ID.String()),
		zap.Bool("fully_generated", allGenerated),
	)
	return dietPlan, allGenerated, nil
}

// retireActivePlan deactivates the user's current plan so at most one
// plan stays active.
func (o *Orchestrator) retireActivePlan(ctx context.Context, userID uuid.UUID) error {
	active, err := o.plans.FindActivePlanByUser(ctx, userID)
	if err != nil {
		return errors.NewDatabaseError("find active plan", err)
	}
	if active == nil {
		return nil
	}
	active.Deactivate()
	if err := o.plans.UpdatePlan(ctx, active); err != nil {
		return errors.NewDatabaseError("deactivate plan", err)
	}
	return nil
}

func (o *Orchestrator) createShell(
	ctx context.Context,
	session *assessment.Session,
	clientProfile *profile.ClientProfile,
	targets nutrition.Targets,
) (*plan.DietPlan, error) {
	dietPlan := plan.NewDietPlan(session.UserID, session.ID)
	dietPlan.Title = planTitle(clientProfile)
	dietPlan.Description = planDescription(clientProfile)
	dietPlan.DailyCalories = targets.DailyCalories
	dietPlan.ProteinGrams = float64(targets.ProteinGrams)
	dietPlan.CarbsGrams = float64(targets.CarbsGrams)
	dietPlan.FatsGrams = float64(targets.FatsGrams)
	dietPlan.EndDate = planEndDate(dietPlan.StartDate, clientProfile.GoalTimeline)

	if err := o.plans.CreatePlan(ctx, dietPlan); err != nil {
		return nil, errors.NewDatabaseError("create plan", err)
	}

	for _, day := range plan.DaysOfWeek {
		mp := plan.NewMealPlan(dietPlan.ID, day)
		if err := o.plans.CreateMealPlan(ctx, mp); err != nil {
			return nil, errors.NewDatabaseError("create meal plan", err)
		}
		dietPlan.MealPlans = append(dietPlan.MealPlans, mp)
	}
	return dietPlan, nil
}

// generateWeek runs the per-day worker pool and reports whether every
// day came from the provider.
func (o *Orchestrator) generateWeek(
	ctx context.Context,
	dietPlan *plan.DietPlan,
	clientProfile *profile.ClientProfile,
	targets nutrition.Targets,
) bool {
	provider := &limitedProvider{
		inner:   o.factory.Provider(o.opts.Provider),
		limiter: o.limiter,
		model:   o.opts.Model,
		tokens:  o.opts.EstimatedTokensPerDay,
	}

	days := make(chan *plan.MealPlan)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allGenerated := true

	for i := 0; i < o.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for mp := range days {
				generated := o.generateDay(ctx, provider, mp, clientProfile, targets)
				if !generated {
					mu.Lock()
					allGenerated = false
					mu.Unlock()
				}
			}
		}()
	}

	for _, mp := range dietPlan.MealPlans {
		days <- mp
	}
	close(days)
	wg.Wait()

	return allGenerated
}

// generateDay produces and persists one day's meals, falling back to the
// deterministic synthesizer when retries are exhausted. The return value
// reports whether the provider produced the meals.
func (o *Orchestrator) generateDay(
	ctx context.Context,
	provider outbound.MealProvider,
	mp *plan.MealPlan,
	clientProfile *profile.ClientProfile,
	targets nutrition.Targets,
) bool {
	mp.MarkInProgress()
	if err := o.plans.UpdateMealPlan(ctx, mp); err != nil {
		o.logger.Error("Failed to mark day in progress",
			zap.String("day", mp.DayOfWeek), zap.Error(err))
	}

	req := outbound.MealGenerationRequest{
		Profile:   clientProfile,
		Targets:   targets,
		DayOfWeek: mp.DayOfWeek,
	}

	fromProvider := true
	generated, err := generateWithRetry(ctx, provider, req, o.opts.Retry, o.logger)
	if err != nil {
		o.logger.Warn("Provider failed for day, using fallback meals",
			zap.String("day", mp.DayOfWeek),
			zap.Error(err),
		)
		generated = SynthesizeFallbackMeals(req)
		fromProvider = false
	}

	meals := make([]*plan.Meal, 0, len(generated))
	for _, g := range generated {
		mealType := plan.MealType(g.MealType)
		if !plan.ValidMealType(mealType) {
			o.logger.Warn("Skipping meal with unknown slot",
				zap.String("day", mp.DayOfWeek),
				zap.String("meal_type", g.MealType),
			)
			continue
		}
		meal := &plan.Meal{
			ID:           uuid.New(),
			MealPlanID:   mp.ID,
			MealType:     mealType,
			Name:         g.Name,
			Description:  g.Description,
			Calories:     g.Calories,
			ProteinGrams: g.ProteinGrams,
			CarbsGrams:   g.CarbsGrams,
			FatsGrams:    g.FatsGrams,
			TimeOfDay:    g.TimeOfDay,
			Recipe:       g.Recipe,
			CreatedAt:    time.Now().UTC(),
			UpdatedAt:    time.Now().UTC(),
		}
		if err := o.plans.UpsertMeal(ctx, meal); err != nil {
			o.logger.Error("Failed to persist meal",
				zap.String("day", mp.DayOfWeek),
				zap.String("meal_type", string(mealType)),
				zap.Error(err),
			)
			mp.MarkFailed()
			_ = o.plans.UpdateMealPlan(ctx, mp)
			return false
		}
		meals = append(meals, meal)
	}

	if fromProvider {
		mp.MarkCompleted(meals)
	} else {
		mp.MarkFallback(meals)
	}
	if err := o.plans.UpdateMealPlan(ctx, mp); err != nil {
		o.logger.Error("Failed to record day result",
			zap.String("day", mp.DayOfWeek), zap.Error(err))
		return false
	}
	return fromProvider
}

// GetDietPlan returns the full plan with days and meals.
func (o *Orchestrator) GetDietPlan(ctx context.Context, planID uuid.UUID) (*plan.DietPlan, error) {
	dietPlan, err := o.plans.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find plan", err)
	}
	if dietPlan == nil {
		return nil, errors.NewNotFoundError("diet plan")
	}
	return dietPlan, nil
}

// GetActivePlan returns the user's active plan, if any.
func (o *Orchestrator) GetActivePlan(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error) {
	dietPlan, err := o.plans.FindActivePlanByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find active plan", err)
	}
	if dietPlan == nil {
		return nil, errors.NewNotFoundError("active diet plan")
	}
	return dietPlan, nil
}

// ArchivePlan moves a plan out of the user's active set. Only the owner
// may archive a plan.
func (o *Orchestrator) ArchivePlan(ctx context.Context, planID, userID uuid.UUID) error {
	dietPlan, err := o.plans.FindPlanByID(ctx, planID)
	if err != nil {
		return errors.NewDatabaseError("find plan", err)
	}
	if dietPlan == nil {
		return errors.NewNotFoundError("diet plan")
	}
	if dietPlan.UserID != userID {
		return errors.NewAppError(errors.CodeForbidden, "Plan belongs to another user", "")
	}
	dietPlan.Archive()
	if err := o.plans.UpdatePlan(ctx, dietPlan); err != nil {
		return errors.NewDatabaseError("archive plan", err)
	}
	return nil
}
