package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func TestSessionRepositoryRoundtrip(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()

	session := assessment.NewSession(uuid.New(), assessment.TierModerate, "en", "age")
	session.Responses.Set("age", "30")
	session.Responses.Set("health_conditions", []string{"diabetes"})
	require.NoError(t, repo.Create(ctx, session))

	loaded, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.UserID, loaded.UserID)
	assert.Equal(t, assessment.TierModerate, loaded.Tier)
	assert.Equal(t, []string{"age", "health_conditions"}, loaded.Responses.Keys())

	// JSON roundtrips slices as []interface{}
	raw, ok := loaded.Responses.Get("health_conditions")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"diabetes"}, raw)

	loaded.Complete()
	require.NoError(t, repo.Update(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, assessment.StatusCompleted, reloaded.Status)
	require.NotNil(t, reloaded.CompletedAt)
}

func TestSessionRepositoryFindActiveByUser(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	ctx := context.Background()
	userID := uuid.New()

	abandoned := assessment.NewSession(userID, assessment.TierQuick, "en", "age")
	abandoned.Abandon()
	require.NoError(t, repo.Create(ctx, abandoned))

	none, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, none)

	active := assessment.NewSession(userID, assessment.TierQuick, "en", "age")
	require.NoError(t, repo.Create(ctx, active))

	found, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, active.ID, found.ID)
}

func TestSessionRepositoryFindByIDMissing(t *testing.T) {
	repo := NewSessionRepository(testDB(t))
	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProfileRepositoryUpsertsByUser(t *testing.T) {
	repo := NewProfileRepository(testDB(t))
	ctx := context.Background()
	userID := uuid.New()

	p := profile.NewClientProfile(userID)
	p.Age = 30
	p.DietType = profile.DietKeto
	p.Allergies = []string{"peanuts"}
	require.NoError(t, repo.Save(ctx, p))

	// saving again for the same user replaces, not duplicates
	p2 := profile.NewClientProfile(userID)
	p2.Age = 31
	p2.DietType = profile.DietVegan
	require.NoError(t, repo.Save(ctx, p2))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 31, loaded.Age)
	assert.Equal(t, profile.DietVegan, loaded.DietType)

	missing, err := repo.FindByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func seedPlan(t *testing.T, repo *PlanRepository) *plan.DietPlan {
	t.Helper()
	ctx := context.Background()

	dietPlan := plan.NewDietPlan(uuid.New(), uuid.New())
	dietPlan.Title = "Weight Loss High Protein Plan"
	dietPlan.DailyCalories = 2136
	dietPlan.EndDate = dietPlan.StartDate.AddDate(0, 3, 0)
	require.NoError(t, repo.CreatePlan(ctx, dietPlan))

	for _, day := range plan.DaysOfWeek {
		mp := plan.NewMealPlan(dietPlan.ID, day)
		require.NoError(t, repo.CreateMealPlan(ctx, mp))
		dietPlan.MealPlans = append(dietPlan.MealPlans, mp)
	}
	return dietPlan
}

func TestPlanRepositoryLoadsFullWeek(t *testing.T) {
	repo := NewPlanRepository(testDB(t)).(*PlanRepository)
	ctx := context.Background()

	dietPlan := seedPlan(t, repo)

	loaded, err := repo.FindPlanByID(ctx, dietPlan.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, dietPlan.Title, loaded.Title)
	assert.Len(t, loaded.MealPlans, 7)
}

func TestPlanRepositoryActivePlanLookup(t *testing.T) {
	repo := NewPlanRepository(testDB(t)).(*PlanRepository)
	ctx := context.Background()

	dietPlan := seedPlan(t, repo)

	active, err := repo.FindActivePlanByUser(ctx, dietPlan.UserID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, dietPlan.ID, active.ID)

	dietPlan.Deactivate()
	require.NoError(t, repo.UpdatePlan(ctx, dietPlan))

	none, err := repo.FindActivePlanByUser(ctx, dietPlan.UserID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUpsertMealReplacesSlot(t *testing.T) {
	repo := NewPlanRepository(testDB(t)).(*PlanRepository)
	ctx := context.Background()

	dietPlan := seedPlan(t, repo)
	mealPlanID := dietPlan.MealPlans[0].ID

	now := time.Now().UTC()
	first := &plan.Meal{
		ID: uuid.New(), MealPlanID: mealPlanID, MealType: plan.MealLunch,
		Name: "Pasta", Calories: 700, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.UpsertMeal(ctx, first))

	second := &plan.Meal{
		ID: uuid.New(), MealPlanID: mealPlanID, MealType: plan.MealLunch,
		Name: "Salad", Calories: 420, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.UpsertMeal(ctx, second))

	other := &plan.Meal{
		ID: uuid.New(), MealPlanID: mealPlanID, MealType: plan.MealDinner,
		Name: "Salmon", Calories: 600, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.UpsertMeal(ctx, other))

	mp, err := repo.FindMealPlan(ctx, dietPlan.ID, dietPlan.MealPlans[0].DayOfWeek)
	require.NoError(t, err)
	require.NotNil(t, mp)
	require.Len(t, mp.Meals, 2)

	byType := map[plan.MealType]*plan.Meal{}
	for _, m := range mp.Meals {
		byType[m.MealType] = m
	}
	assert.Equal(t, "Salad", byType[plan.MealLunch].Name)
	assert.Equal(t, 420, byType[plan.MealLunch].Calories)
}
