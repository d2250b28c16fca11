package service

import (
	"errors"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/repository"
	"language_gems_backend/internal/util"

	"gorm.io/gorm"
)

type VocabularyService struct {
	VocabRepo *repository.VocabularyRepository
}

func NewVocabularyService(vocabRepo *repository.VocabularyRepository) *VocabularyService {
	return &VocabularyService{VocabRepo: vocabRepo}
}

type CreateVocabularyItemInput struct {
	Word        string `json:"word" binding:"required"`
	Translation string `json:"translation" binding:"required"`
	Language    string `json:"language" binding:"required"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type CreateVocabularyListInput struct {
	Name          string   `json:"name" binding:"required"`
	Language      string   `json:"language" binding:"required"`
	VocabularyIDs []string `json:"vocabularyIds"`
}

func (s *VocabularyService) CreateItem(input *CreateVocabularyItemInput) (*model.VocabularyItem, error) {
	item := &model.VocabularyItem{
		Word:        input.Word,
		Translation: input.Translation,
		Language:    input.Language,
		Category:    input.Category,
		Subcategory: input.Subcategory,
	}
	if err := s.VocabRepo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *VocabularyService) ListItems(language, category string, page, limit int) ([]model.VocabularyItem, int64, error) {
	return s.VocabRepo.ListItems(language, category, page, limit)
}

// CreateList 创建词汇表并按给定顺序挂词
func (s *VocabularyService) CreateList(creatorID uint, input *CreateVocabularyListInput) (*model.VocabularyList, error) {
	list := &model.VocabularyList{
		Name:      input.Name,
		Language:  input.Language,
		CreatorID: creatorID,
	}
	if err := s.VocabRepo.CreateList(list); err != nil {
		return nil, err
	}
	if err := s.VocabRepo.AddListItems(list.ID, input.VocabularyIDs); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *VocabularyService) GetList(id string) (*model.VocabularyList, []model.VocabularyItem, error) {
	list, err := s.VocabRepo.FindListByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrListNotFound
		}
		return nil, nil, err
	}

	ids, err := s.VocabRepo.GetListVocabularyIDs(id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.VocabRepo.FindItemsByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	return list, items, nil
}
