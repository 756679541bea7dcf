package gorm

import (
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/domain/plan"
	"github.com/nutriplan/v1/internal/domain/profile"
)

// SessionToModel converts a domain session to its GORM model.
func SessionToModel(s *assessment.Session) (*SessionModel, error) {
	responses, err := assessment.MarshalResponses(s.Responses)
	if err != nil {
		return nil, err
	}
	return &SessionModel{
		ID:              s.ID,
		UserID:          s.UserID,
		Tier:            string(s.Tier),
		Language:        s.Language,
		CurrentPhase:    s.CurrentPhase,
		CurrentQuestion: s.CurrentQuestion,
		Responses:       JSONBlob(responses),
		Status:          string(s.Status),
		StartedAt:       s.StartedAt,
		CompletedAt:     s.CompletedAt,
		UpdatedAt:       s.UpdatedAt,
	}, nil
}

// ModelToSession converts a GORM model back to the domain session.
func ModelToSession(m *SessionModel) (*assessment.Session, error) {
	responses, err := assessment.UnmarshalResponses([]byte(m.Responses))
	if err != nil {
		return nil, err
	}
	return &assessment.Session{
		ID:              m.ID,
		UserID:          m.UserID,
		Tier:            assessment.Tier(m.Tier),
		Language:        m.Language,
		CurrentPhase:    m.CurrentPhase,
		CurrentQuestion: m.CurrentQuestion,
		Responses:       responses,
		Status:          assessment.Status(m.Status),
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// ProfileToModel converts a domain profile to its GORM model.
func ProfileToModel(p *profile.ClientProfile) *ClientProfileModel {
	return &ClientProfileModel{
		ID:                 p.ID,
		UserID:             p.UserID,
		Age:                p.Age,
		Gender:             string(p.Gender),
		HeightCm:           p.HeightCm,
		WeightKg:           p.WeightKg,
		TargetWeightKg:     p.TargetWeightKg,
		ActivityLevel:      string(p.ActivityLevel),
		DietType:           string(p.DietType),
		MealTiming:         p.MealTiming,
		DailySchedule:      p.DailySchedule,
		CookingCapability:  p.CookingCapability,
		ExerciseRoutine:    p.ExerciseRoutine,
		StressSleep:        p.StressSleep,
		PrimaryGoal:        p.PrimaryGoal,
		GoalTimeline:       p.GoalTimeline,
		MeasurementPref:    p.MeasurementPref,
		CommitmentLevel:    p.CommitmentLevel,
		MealVariety:        p.MealVariety,
		HealthConditions:   StringSlice(p.HealthConditions),
		Allergies:          StringSlice(p.Allergies),
		RecoveryNeeds:      StringSlice(p.RecoveryNeeds),
		CuisinePreferences: StringSlice(p.CuisinePreferences),
		FoodRestrictions:   StringSlice(p.FoodRestrictions),
		Medications:        StringSlice(p.Medications),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ModelToProfile converts a GORM model back to the domain profile.
func ModelToProfile(m *ClientProfileModel) *profile.ClientProfile {
	return &profile.ClientProfile{
		ID:                 m.ID,
		UserID:             m.UserID,
		Age:                m.Age,
		Gender:             profile.Gender(m.Gender),
		HeightCm:           m.HeightCm,
		WeightKg:           m.WeightKg,
		TargetWeightKg:     m.TargetWeightKg,
		ActivityLevel:      profile.ActivityLevel(m.ActivityLevel),
		DietType:           profile.DietType(m.DietType),
		MealTiming:         m.MealTiming,
		DailySchedule:      m.DailySchedule,
		CookingCapability:  m.CookingCapability,
		ExerciseRoutine:    m.ExerciseRoutine,
		StressSleep:        m.StressSleep,
		PrimaryGoal:        m.PrimaryGoal,
		GoalTimeline:       m.GoalTimeline,
		MeasurementPref:    m.MeasurementPref,
		CommitmentLevel:    m.CommitmentLevel,
		MealVariety:        m.MealVariety,
		HealthConditions:   []string(m.HealthConditions),
		Allergies:          []string(m.Allergies),
		RecoveryNeeds:      []string(m.RecoveryNeeds),
		CuisinePreferences: []string(m.CuisinePreferences),
		FoodRestrictions:   []string(m.FoodRestrictions),
		Medications:        []string(m.Medications),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// PlanToModel converts a diet plan to its GORM model, excluding children.
func PlanToModel(p *plan.DietPlan) *DietPlanModel {
	return &DietPlanModel{
		ID:            p.ID,
		UserID:        p.UserID,
		AssessmentID:  p.AssessmentID,
		Title:         p.Title,
		Description:   p.Description,
		Status:        string(p.Status),
		DailyCalories: p.DailyCalories,
		ProteinGrams:  p.ProteinGrams,
		CarbsGrams:    p.CarbsGrams,
		FatsGrams:     p.FatsGrams,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ModelToPlan converts a GORM model and its preloaded children back to
// the domain aggregate.
func ModelToPlan(m *DietPlanModel) *plan.DietPlan {
	p := &plan.DietPlan{
		ID:            m.ID,
		UserID:        m.UserID,
		AssessmentID:  m.AssessmentID,
		Title:         m.Title,
		Description:   m.Description,
		Status:        plan.Status(m.Status),
		DailyCalories: m.DailyCalories,
		ProteinGrams:  m.ProteinGrams,
		CarbsGrams:    m.CarbsGrams,
		FatsGrams:     m.FatsGrams,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for i := range m.MealPlans {
		p.MealPlans = append(p.MealPlans, ModelToMealPlan(&m.MealPlans[i]))
	}
	return p
}

// MealPlanToModel converts a day entry to its GORM model.
func MealPlanToModel(mp *plan.MealPlan) *MealPlanModel {
	return &MealPlanModel{
		ID:               mp.ID,
		DietPlanID:       mp.DietPlanID,
		DayOfWeek:        mp.DayOfWeek,
		GenerationStatus: string(mp.GenerationStatus),
		TotalCalories:    mp.TotalCalories,
		TotalProtein:     mp.TotalProtein,
		TotalCarbs:       mp.TotalCarbs,
		TotalFats:        mp.TotalFats,
		CreatedAt:        mp.CreatedAt,
		UpdatedAt:        mp.UpdatedAt,
	}
}

// ModelToMealPlan converts a GORM model and its meals back to the domain.
func ModelToMealPlan(m *MealPlanModel) *plan.MealPlan {
	mp := &plan.MealPlan{
		ID:               m.ID,
		DietPlanID:       m.DietPlanID,
		DayOfWeek:        m.DayOfWeek,
		GenerationStatus: plan.GenerationStatus(m.GenerationStatus),
		TotalCalories:    m.TotalCalories,
		TotalProtein:     m.TotalProtein,
		TotalCarbs:       m.TotalCarbs,
		TotalFats:        m.TotalFats,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	for i := range m.Meals {
		mp.Meals = append(mp.Meals, ModelToMeal(&m.Meals[i]))
	}
	return mp
}

// MealToModel converts a meal to its GORM model.
func MealToModel(meal *plan.Meal) *MealModel {
	return &MealModel{
		ID:           meal.ID,
		MealPlanID:   meal.MealPlanID,
		MealType:     string(meal.MealType),
		Name:         meal.Name,
		Description:  meal.Description,
		Calories:     meal.Calories,
		ProteinGrams: meal.ProteinGrams,
		CarbsGrams:   meal.CarbsGrams,
		FatsGrams:    meal.FatsGrams,
		TimeOfDay:    meal.TimeOfDay,
		Recipe:       meal.Recipe,
		CreatedAt:    meal.CreatedAt,
		UpdatedAt:    meal.UpdatedAt,
	}
}

// ModelToMeal converts a GORM model back to the domain meal.
func ModelToMeal(m *MealModel) *plan.Meal {
	return &plan.Meal{
		ID:           m.ID,
		MealPlanID:   m.MealPlanID,
		MealType:     plan.MealType(m.MealType),
		Name:         m.Name,
		Description:  m.Description,
		Calories:     m.Calories,
		ProteinGrams: m.ProteinGrams,
		CarbsGrams:   m.CarbsGrams,
		FatsGrams:    m.FatsGrams,
		TimeOfDay:    m.TimeOfDay,
		Recipe:       m.Recipe,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
