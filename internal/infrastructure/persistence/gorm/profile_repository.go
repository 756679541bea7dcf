package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/profile"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository implements the profile repository using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save upserts the profile by user id so repeated assessments update the
// same row.
func (r *ProfileRepository) Save(ctx context.Context, p *profile.ClientProfile) error {
	model := ProfileToModel(p)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// FindByUser finds a profile by user id. A missing profile returns (nil, nil).
func (r *ProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*profile.ClientProfile, error) {
	var model ClientProfileModel
	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToProfile(&model), nil
}
