package repository

import (
	"language_gems_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment, vocabularyIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		if len(vocabularyIDs) == 0 {
			return nil
		}

		links := make([]model.AssignmentVocabulary, 0, len(vocabularyIDs))
		for _, vid := range vocabularyIDs {
			links = append(links, model.AssignmentVocabulary{
				AssignmentID: assignment.ID,
				VocabularyID: vid,
			})
		}
		return tx.Create(&links).Error
	})
}

func (r *AssignmentRepository) FindByID(id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.First(&assignment, "id = ?", id).Error
	return &assignment, err
}

func (r *AssignmentRepository) ListByCreator(creatorID uint, page, limit int) ([]model.Assignment, int64, error) {
	query := r.DB.Model(&model.Assignment{}).Where("creator_id = ?", creatorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []model.Assignment
	err := query.Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").Find(&assignments).Error
	return assignments, total, err
}

func (r *AssignmentRepository) ListByClass(classID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("class_id = ?", classID).
		Order("created_at DESC").Find(&assignments).Error
	return assignments, err
}

// GetVocabularyIDs 作业直接关联的词汇
func (r *AssignmentRepository) GetVocabularyIDs(assignmentID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.AssignmentVocabulary{}).
		Where("assignment_id = ?", assignmentID).
		Pluck("vocabulary_id", &ids).Error
	return ids, err
}
