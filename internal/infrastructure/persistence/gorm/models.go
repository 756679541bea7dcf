// Package gorm provides GORM model definitions and repository
// implementations for sessions, profiles and diet plans.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionModel represents the GORM model for assessment sessions
type SessionModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID `gorm:"type:char(36);not null;index"`
	Tier            string    `gorm:"type:varchar(20);not null"`
	Language        string    `gorm:"type:varchar(10);default:'en'"`
	CurrentPhase    int       `gorm:"default:1"`
	CurrentQuestion string    `gorm:"type:varchar(100)"`
	Responses       JSONBlob  `gorm:"type:json"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	StartedAt       time.Time
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}

func (SessionModel) TableName() string { return "assessment_sessions" }

// ClientProfileModel represents the GORM model for client profiles
type ClientProfileModel struct {
	ID                 uuid.UUID   `gorm:"type:char(36);primaryKey"`
	UserID             uuid.UUID   `gorm:"type:char(36);not null;uniqueIndex"`
	Age                int         `gorm:"default:0"`
	Gender             string      `gorm:"type:varchar(10)"`
	HeightCm           float64     `gorm:"default:0"`
	WeightKg           float64     `gorm:"default:0"`
	TargetWeightKg     float64     `gorm:"default:0"`
	ActivityLevel      string      `gorm:"type:varchar(30)"`
	DietType           string      `gorm:"type:varchar(30)"`
	MealTiming         string      `gorm:"type:varchar(30)"`
	DailySchedule      string      `gorm:"type:varchar(30)"`
	CookingCapability  string      `gorm:"type:varchar(30)"`
	ExerciseRoutine    string      `gorm:"type:varchar(30)"`
	StressSleep        string      `gorm:"type:varchar(30)"`
	PrimaryGoal        string      `gorm:"type:varchar(30)"`
	GoalTimeline       string      `gorm:"type:varchar(30)"`
	MeasurementPref    string      `gorm:"type:varchar(20)"`
	CommitmentLevel    string      `gorm:"type:varchar(20)"`
	MealVariety        string      `gorm:"type:varchar(20)"`
	HealthConditions   StringSlice `gorm:"type:json"`
	Allergies          StringSlice `gorm:"type:json"`
	RecoveryNeeds      StringSlice `gorm:"type:json"`
	CuisinePreferences StringSlice `gorm:"type:json"`
	FoodRestrictions   StringSlice `gorm:"type:json"`
	Medications        StringSlice `gorm:"type:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ClientProfileModel) TableName() string { return "client_profiles" }

// DietPlanModel represents the GORM model for diet plans
type DietPlanModel struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID `gorm:"type:char(36);not null;index"`
	AssessmentID  uuid.UUID `gorm:"type:char(36);index"`
	Title         string    `gorm:"type:varchar(255);not null"`
	Description   string    `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	DailyCalories int       `gorm:"default:0"`
	ProteinGrams  float64   `gorm:"default:0"`
	CarbsGrams    float64   `gorm:"default:0"`
	FatsGrams     float64   `gorm:"default:0"`
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	// Relationships
	MealPlans []MealPlanModel `gorm:"foreignKey:DietPlanID"`
}

func (DietPlanModel) TableName() string { return "diet_plans" }

// MealPlanModel represents the GORM model for per-day meal plans
type MealPlanModel struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey"`
	DietPlanID       uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_plan_day"`
	DayOfWeek        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_plan_day"`
	GenerationStatus string    `gorm:"type:varchar(20);not null"`
	TotalCalories    int       `gorm:"default:0"`
	TotalProtein     float64   `gorm:"default:0"`
	TotalCarbs       float64   `gorm:"default:0"`
	TotalFats        float64   `gorm:"default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relationships
	Meals []MealModel `gorm:"foreignKey:MealPlanID"`
}

func (MealPlanModel) TableName() string { return "meal_plans" }

// MealModel represents the GORM model for individual meals
type MealModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	MealPlanID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_meal_slot"`
	MealType     string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_meal_slot"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Calories     int       `gorm:"default:0"`
	ProteinGrams float64   `gorm:"default:0"`
	CarbsGrams   float64   `gorm:"default:0"`
	FatsGrams    float64   `gorm:"default:0"`
	TimeOfDay    string    `gorm:"type:varchar(10)"`
	Recipe       string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (MealModel) TableName() string { return "meals" }

// StringSlice custom type for JSON string arrays
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONBlob stores an opaque JSON document
type JSONBlob []byte

// Scan implements the sql.Scanner interface
func (j *JSONBlob) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append(JSONBlob(nil), v...)
		return nil
	case string:
		*j = JSONBlob(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONBlob", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONBlob) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return []byte(j), nil
}

// BeforeCreate hook for SessionModel
func (m *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for DietPlanModel
func (m *DietPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealModel
func (m *MealModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AllModels returns every model for migration.
func AllModels() []interface{} {
	return []interface{}{
		&SessionModel{},
		&ClientProfileModel{},
		&DietPlanModel{},
		&MealPlanModel{},
		&MealModel{},
	}
}
