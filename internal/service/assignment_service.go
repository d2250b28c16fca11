package service

import (
	"errors"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/repository"
	"language_gems_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	VocabRepo      *repository.VocabularyRepository
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, vocabRepo *repository.VocabularyRepository) *AssignmentService {
	return &AssignmentService{AssignmentRepo: assignmentRepo, VocabRepo: vocabRepo}
}

type CreateAssignmentInput struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	ClassID          string     `json:"classId"`
	ActivityID       string     `json:"activityId" binding:"required"`
	Language         string     `json:"language"`
	VocabularyListID string     `json:"vocabularyListId"`
	VocabularyIDs    []string   `json:"vocabularyIds"`
	DueAt            *time.Time `json:"dueAt"`
}

// CreateAssignment 创建作业
// 词汇来源二选一：直接给词汇 ID 列表，或引用已有词汇表；
// 都不给也允许，此时完成判定退化到兜底目标数
func (s *AssignmentService) CreateAssignment(creatorID uint, input *CreateAssignmentInput) (*model.Assignment, error) {
	if input.VocabularyListID != "" {
		if _, err := s.VocabRepo.FindListByID(input.VocabularyListID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrListNotFound
			}
			return nil, err
		}
	}

	assignment := &model.Assignment{
		Title:            input.Title,
		Description:      input.Description,
		ClassID:          input.ClassID,
		CreatorID:        creatorID,
		ActivityID:       input.ActivityID,
		Language:         input.Language,
		VocabularyListID: input.VocabularyListID,
		TargetWordCount:  len(input.VocabularyIDs),
		DueAt:            input.DueAt,
	}
	if err := s.AssignmentRepo.Create(assignment, input.VocabularyIDs); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetAssignment 作业详情，连同解析出的词汇 ID
// 直接关联优先，没有直接关联时回退到引用的词汇表
func (s *AssignmentService) GetAssignment(id string) (*model.Assignment, []string, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrAssignmentNotFound
		}
		return nil, nil, err
	}

	vocabularyIDs, err := s.AssignmentRepo.GetVocabularyIDs(id)
	if err != nil {
		return nil, nil, err
	}
	if len(vocabularyIDs) == 0 && assignment.VocabularyListID != "" {
		vocabularyIDs, err = s.VocabRepo.GetListVocabularyIDs(assignment.VocabularyListID)
		if err != nil {
			return nil, nil, err
		}
	}

	return assignment, vocabularyIDs, nil
}

func (s *AssignmentService) ListByCreator(creatorID uint, page, limit int) ([]model.Assignment, int64, error) {
	return s.AssignmentRepo.ListByCreator(creatorID, page, limit)
}

func (s *AssignmentService) ListByClass(classID string) ([]model.Assignment, error) {
	return s.AssignmentRepo.ListByClass(classID)
}
