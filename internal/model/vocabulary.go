package model

// VocabularyItem 中央词库里的一条词汇
// swagger:model VocabularyItem
type VocabularyItem struct {
	UUIDBase
	Word        string `gorm:"size:255;not null;index" json:"word"`
	Translation string `gorm:"size:255;not null" json:"translation"`
	Language    string `gorm:"size:10;not null;index" json:"language"`
	Category    string `gorm:"size:100;index" json:"category"`
	Subcategory string `gorm:"size:100" json:"subcategory"`
}

func (VocabularyItem) TableName() string {
	return "vocabulary_items"
}

// VocabularyList 教师自建的词汇表，可被作业引用
// swagger:model VocabularyList
type VocabularyList struct {
	UUIDBase
	Name      string `gorm:"size:255;not null" json:"name"`
	Language  string `gorm:"size:10;not null" json:"language"`
	CreatorID uint   `gorm:"index" json:"creatorId"`
}

func (VocabularyList) TableName() string {
	return "vocabulary_lists"
}

// VocabularyListItem 词汇表成员
type VocabularyListItem struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID       string `gorm:"type:varchar(36);not null;uniqueIndex:uniq_list_vocab" json:"listId"`
	VocabularyID string `gorm:"type:varchar(36);not null;uniqueIndex:uniq_list_vocab" json:"vocabularyId"`
	Position     int    `gorm:"default:0" json:"position"`
}

func (VocabularyListItem) TableName() string {
	return "vocabulary_list_items"
}
