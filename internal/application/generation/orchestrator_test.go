package generation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"github.com/nutriplan/v1/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*assessment.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*assessment.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *assessment.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, s *assessment.Session) error {
	return r.Create(ctx, s)
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*assessment.Session, error) {
	return nil, nil
}

func (r *fakeSessionRepo) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Session, int, error) {
	return nil, 0, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*profile.ClientProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*profile.ClientProfile{}}
}

func (r *fakeProfileRepo) Save(ctx context.Context, p *profile.ClientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*profile.ClientProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[userID], nil
}

// fakePlanRepo keeps plans in memory and honors the (meal plan, meal
// type) upsert contract.
type fakePlanRepo struct {
	mu        sync.Mutex
	plans     map[uuid.UUID]*plan.DietPlan
	mealPlans map[uuid.UUID]*plan.MealPlan
	meals     map[string]*plan.Meal
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans:     map[uuid.UUID]*plan.DietPlan{},
		mealPlans: map[uuid.UUID]*plan.MealPlan{},
		meals:     map[string]*plan.Meal{},
	}
}

func mealKey(mealPlanID uuid.UUID, mealType plan.MealType) string {
	return mealPlanID.String() + ":" + string(mealType)
}

func (r *fakePlanRepo) CreatePlan(ctx context.Context, p *plan.DietPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[p.ID] = p
	return nil
}

func (r *fakePlanRepo) UpdatePlan(ctx context.Context, p *plan.DietPlan) error {
	return r.CreatePlan(ctx, p)
}

func (r *fakePlanRepo) FindPlanByID(ctx context.Context, id uuid.UUID) (*plan.DietPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plans[id], nil
}

func (r *fakePlanRepo) FindPlansByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*plan.DietPlan, int, error) {
	return nil, 0, nil
}

func (r *fakePlanRepo) FindActivePlanByUser(ctx context.Context, userID uuid.UUID) (*plan.DietPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.UserID == userID && p.Status == plan.StatusActive {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) CreateMealPlan(ctx context.Context, mp *plan.MealPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mealPlans[mp.ID] = mp
	return nil
}

func (r *fakePlanRepo) UpdateMealPlan(ctx context.Context, mp *plan.MealPlan) error {
	return r.CreateMealPlan(ctx, mp)
}

func (r *fakePlanRepo) FindMealPlan(ctx context.Context, dietPlanID uuid.UUID, dayOfWeek string) (*plan.MealPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mp := range r.mealPlans {
		if mp.DietPlanID == dietPlanID && mp.DayOfWeek == dayOfWeek {
			return mp, nil
		}
	}
	return nil, nil
}

func (r *fakePlanRepo) UpsertMeal(ctx context.Context, meal *plan.Meal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := mealKey(meal.MealPlanID, meal.MealType)
	if existing, ok := r.meals[key]; ok {
		meal.ID = existing.ID
	}
	r.meals[key] = meal
	return nil
}

func (r *fakePlanRepo) mealsForPlan(mealPlanID uuid.UUID) []*plan.Meal {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*plan.Meal
	for _, m := range r.meals {
		if m.MealPlanID == mealPlanID {
			out = append(out, m)
		}
	}
	return out
}

// stubProvider scripts per-call results.
type stubProvider struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GenerateMealsForDay(ctx context.Context, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
	p.mu.Lock()
	p.calls++
	call := p.calls
	p.mu.Unlock()
	return p.fn(call, req)
}

func (p *stubProvider) TestConnection(ctx context.Context) error { return nil }

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func providerMeals(day string) []outbound.GeneratedMeal {
	return []outbound.GeneratedMeal{
		{MealType: "breakfast", Name: "Oatmeal " + day, Calories: 450, ProteinGrams: 20, CarbsGrams: 60, FatsGrams: 12, TimeOfDay: "08:00"},
		{MealType: "lunch", Name: "Chicken bowl " + day, Calories: 650, ProteinGrams: 45, CarbsGrams: 70, FatsGrams: 18, TimeOfDay: "13:00"},
		{MealType: "dinner", Name: "Salmon plate " + day, Calories: 600, ProteinGrams: 40, CarbsGrams: 45, FatsGrams: 25, TimeOfDay: "19:00"},
	}
}

func completedSession(t *testing.T) *assessment.Session {
	t.Helper()
	s := assessment.NewSession(uuid.New(), assessment.TierQuick, "en", "age")
	for key, value := range map[string]interface{}{
		"age":            "30",
		"gender":         "1",
		"height":         "180",
		"weight":         "80",
		"activity_level": "3",
		"diet_type":      "1",
		"primary_goal":   "1",
	} {
		s.Responses.Set(key, value)
	}
	s.Complete()
	return s
}

func fastRetry() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    2,
		BaseBackoff:    time.Millisecond,
		AttemptTimeout: time.Second,
	}
}

func newTestOrchestrator(t *testing.T, provider outbound.MealProvider) (*Orchestrator, *fakeSessionRepo, *fakePlanRepo, *fakeProfileRepo) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	sessions := newFakeSessionRepo()
	plans := newFakePlanRepo()
	profiles := newFakeProfileRepo()
	factory := NewProviderFactory([]outbound.MealProvider{provider}, provider.Name(), logger)
	limiter := NewRateLimiter(ProviderBudget{RequestsPerMinute: 1000, TokensPerMinute: 1_000_000}, nil, logger)
	orch := NewOrchestrator(sessions, profiles, plans, factory, limiter, Options{
		Workers:  2,
		Provider: provider.Name(),
		Model:    "test-model",
		Retry:    fastRetry(),
	}, logger)
	return orch, sessions, plans, profiles
}

func TestGenerateDietPlanFromProvider(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, sessions, plans, _ := newTestOrchestrator(t, provider)

	session := completedSession(t)
	require.NoError(t, sessions.Create(context.Background(), session))

	dietPlan, allGenerated, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, allGenerated)
	assert.Equal(t, plan.StatusActive, dietPlan.Status)
	require.Len(t, dietPlan.MealPlans, 7)

	for _, mp := range dietPlan.MealPlans {
		assert.Equal(t, plan.GenerationCompleted, mp.GenerationStatus)
		assert.Len(t, plans.mealsForPlan(mp.ID), 3)
	}
	assert.Equal(t, 7, provider.callCount())
}

func TestGenerateDietPlanKeepsProfileFieldsTheTierNeverAsked(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, sessions, _, profiles := newTestOrchestrator(t, provider)

	session := completedSession(t)
	require.NoError(t, sessions.Create(context.Background(), session))

	// a prior comprehensive run stored fields the quick tier never asks
	existing := profile.NewClientProfile(session.UserID)
	existing.Age = 44
	existing.Allergies = []string{"nuts", "shellfish"}
	existing.HealthConditions = []string{"diabetes"}
	require.NoError(t, profiles.Save(context.Background(), existing))

	_, _, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.NoError(t, err)

	stored, err := profiles.FindByUser(context.Background(), session.UserID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.Age)
	assert.Equal(t, []string{"nuts", "shellfish"}, stored.Allergies)
	assert.Equal(t, []string{"diabetes"}, stored.HealthConditions)
}

func TestGenerateDietPlanFallsBackWhenProviderFails(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return nil, errors.NewProviderTransientError("stub", fmt.Errorf("model overloaded"))
	}}
	orch, sessions, plans, _ := newTestOrchestrator(t, provider)

	session := completedSession(t)
	require.NoError(t, sessions.Create(context.Background(), session))

	dietPlan, allGenerated, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, allGenerated)

	// every day is still usable: six fallback slots each, with the day
	// kept in failed status for later regeneration
	for _, mp := range dietPlan.MealPlans {
		assert.Equal(t, plan.GenerationFailed, mp.GenerationStatus)
		meals := plans.mealsForPlan(mp.ID)
		assert.Len(t, meals, 6)
		total := 0
		for _, m := range meals {
			total += m.Calories
		}
		assert.InDelta(t, dietPlan.DailyCalories, total, float64(len(meals)))
	}
}

func TestGenerateDietPlanRetriesTransientThenSucceeds(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		if call == 1 {
			return nil, errors.NewProviderTransientError("stub", fmt.Errorf("timeout"))
		}
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, sessions, _, _ := newTestOrchestrator(t, provider)

	session := completedSession(t)
	require.NoError(t, sessions.Create(context.Background(), session))

	_, allGenerated, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, allGenerated)
	assert.Equal(t, 8, provider.callCount())
}

func TestGenerateDietPlanRetiresPreviousActivePlan(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, sessions, plans, _ := newTestOrchestrator(t, provider)

	session := completedSession(t)
	require.NoError(t, sessions.Create(context.Background(), session))

	old := plan.NewDietPlan(session.UserID, uuid.New())
	require.NoError(t, plans.CreatePlan(context.Background(), old))

	fresh, _, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, plan.StatusInactive, old.Status)
	active, err := plans.FindActivePlanByUser(context.Background(), session.UserID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, fresh.ID, active.ID)
}

func TestGenerateDietPlanRejectsIncompleteSession(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, sessions, _, _ := newTestOrchestrator(t, provider)

	session := assessment.NewSession(uuid.New(), assessment.TierQuick, "en", "age")
	require.NoError(t, sessions.Create(context.Background(), session))

	_, _, err := orch.GenerateDietPlan(context.Background(), session.ID)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConflict, errors.GetCode(err))

	_, _, err = orch.GenerateDietPlan(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.CodeSessionNotFound, errors.GetCode(err))
}

func TestArchivePlanChecksOwnership(t *testing.T) {
	provider := &stubProvider{fn: func(call int, req outbound.MealGenerationRequest) ([]outbound.GeneratedMeal, error) {
		return providerMeals(req.DayOfWeek), nil
	}}
	orch, _, plans, _ := newTestOrchestrator(t, provider)

	owner := uuid.New()
	p := plan.NewDietPlan(owner, uuid.New())
	require.NoError(t, plans.CreatePlan(context.Background(), p))

	err := orch.ArchivePlan(context.Background(), p.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))

	require.NoError(t, orch.ArchivePlan(context.Background(), p.ID, owner))
	assert.Equal(t, plan.StatusArchived, p.Status)
}

func TestUpsertMealReplacesSlotInPlace(t *testing.T) {
	repo := newFakePlanRepo()
	mealPlanID := uuid.New()

	first := &plan.Meal{ID: uuid.New(), MealPlanID: mealPlanID, MealType: plan.MealLunch, Name: "Pasta", Calories: 700}
	require.NoError(t, repo.UpsertMeal(context.Background(), first))

	second := &plan.Meal{ID: uuid.New(), MealPlanID: mealPlanID, MealType: plan.MealLunch, Name: "Salad", Calories: 420}
	require.NoError(t, repo.UpsertMeal(context.Background(), second))

	meals := repo.mealsForPlan(mealPlanID)
	require.Len(t, meals, 1)
	assert.Equal(t, "Salad", meals[0].Name)
	assert.Equal(t, first.ID, meals[0].ID)
}
