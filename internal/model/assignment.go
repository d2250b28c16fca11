package model

import "time"

// Assignment 教师布置的作业：指定活动（游戏）和要掌握的词汇
// 词汇来源三选一：直接关联词汇、引用词汇表、或只给目标词数
// swagger:model Assignment
type Assignment struct {
	UUIDBase
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	ClassID          string     `gorm:"type:varchar(36);index" json:"classId"`
	CreatorID        uint       `gorm:"index" json:"creatorId"`
	ActivityID       string     `gorm:"size:100;not null" json:"activityId"` // 游戏标识，如 vocab-master
	Language         string     `gorm:"size:10" json:"language"`
	VocabularyListID string     `gorm:"type:varchar(36)" json:"vocabularyListId"`
	TargetWordCount  int        `gorm:"default:0" json:"targetWordCount"` // 冗余的目标词数，列表展示用
	DueAt            *time.Time `json:"dueAt"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentVocabulary 作业与词汇的直接关联
type AssignmentVocabulary struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID string `gorm:"type:varchar(36);not null;uniqueIndex:uniq_assignment_vocab" json:"assignmentId"`
	VocabularyID string `gorm:"type:varchar(36);not null;uniqueIndex:uniq_assignment_vocab" json:"vocabularyId"`
}

func (AssignmentVocabulary) TableName() string {
	return "assignment_vocabulary"
}
