package repository

import (
	"language_gems_backend/internal/model"

	"gorm.io/gorm"
)

type VocabularyRepository struct {
	DB *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: db}
}

func (r *VocabularyRepository) CreateItem(item *model.VocabularyItem) error {
	return r.DB.Create(item).Error
}

func (r *VocabularyRepository) FindItemsByIDs(ids []string) ([]model.VocabularyItem, error) {
	var items []model.VocabularyItem
	err := r.DB.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// ListItems 按语言/类目分页查询词库
func (r *VocabularyRepository) ListItems(language, category string, page, limit int) ([]model.VocabularyItem, int64, error) {
	query := r.DB.Model(&model.VocabularyItem{})
	if language != "" {
		query = query.Where("language = ?", language)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.VocabularyItem
	err := query.Offset((page - 1) * limit).Limit(limit).
		Order("word ASC").Find(&items).Error
	return items, total, err
}

func (r *VocabularyRepository) CreateList(list *model.VocabularyList) error {
	return r.DB.Create(list).Error
}

func (r *VocabularyRepository) FindListByID(id string) (*model.VocabularyList, error) {
	var list model.VocabularyList
	err := r.DB.First(&list, "id = ?", id).Error
	return &list, err
}

func (r *VocabularyRepository) AddListItems(listID string, vocabularyIDs []string) error {
	if len(vocabularyIDs) == 0 {
		return nil
	}

	items := make([]model.VocabularyListItem, 0, len(vocabularyIDs))
	for i, vid := range vocabularyIDs {
		items = append(items, model.VocabularyListItem{
			ListID:       listID,
			VocabularyID: vid,
			Position:     i,
		})
	}
	return r.DB.Create(&items).Error
}

func (r *VocabularyRepository) GetListVocabularyIDs(listID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.VocabularyListItem{}).
		Where("list_id = ?", listID).
		Order("position ASC").
		Pluck("vocabulary_id", &ids).Error
	return ids, err
}
