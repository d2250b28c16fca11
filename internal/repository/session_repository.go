package repository

import (
	"language_gems_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) ListByAssignment(assignmentID string) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.Where("assignment_id = ?", assignmentID).Find(&sessions).Error
	return sessions, err
}
