package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriplan/v1/internal/domain/assessment"
	"github.com/nutriplan/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// SessionRepository implements the session repository using GORM
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) outbound.SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a new session
func (r *SessionRepository) Create(ctx context.Context, session *assessment.Session) error {
	model, err := SessionToModel(session)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update saves session state
func (r *SessionRepository) Update(ctx context.Context, session *assessment.Session) error {
	model, err := SessionToModel(session)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a session by id. A missing session returns (nil, nil).
func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Session, error) {
	var model SessionModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToSession(&model)
}

// FindActiveByUser returns the user's in-progress session, or (nil, nil).
func (r *SessionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*assessment.Session, error) {
	var model SessionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(assessment.StatusInProgress)).
		Order("started_at DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ModelToSession(&model)
}

// FindByUser returns the user's sessions, newest first, with pagination
func (r *SessionRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*assessment.Session, int, error) {
	var models []SessionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&SessionModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("started_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	sessions := make([]*assessment.Session, 0, len(models))
	for i := range models {
		s, err := ModelToSession(&models[i])
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, s)
	}
	return sessions, int(total), nil
}
