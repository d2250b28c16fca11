package model

import "time"

// WordPerformance 某学生对某词的累计练习记录，由游戏端在答题时累加
type WordPerformance struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID         uint      `gorm:"not null;uniqueIndex:uniq_student_vocab" json:"studentId"`
	VocabularyID      string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_student_vocab" json:"vocabularyId"`
	TotalEncounters   int       `gorm:"default:0" json:"totalEncounters"`
	CorrectEncounters int       `gorm:"default:0" json:"correctEncounters"`
	LastEncounterAt   time.Time `json:"lastEncounterAt"`
}

func (WordPerformance) TableName() string {
	return "word_performances"
}

// WordExposure 词汇曝光事实：该词在该作业中向该学生展示过
// 与 WordPerformance 独立记录，展示了但还没答题时也要计入曝光
type WordExposure struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_exposure" json:"assignmentId"`
	StudentID    uint      `gorm:"not null;uniqueIndex:uniq_exposure" json:"studentId"`
	VocabularyID string    `gorm:"type:varchar(36);not null;uniqueIndex:uniq_exposure" json:"vocabularyId"`
	ExposedAt    time.Time `json:"exposedAt"`
}

func (WordExposure) TableName() string {
	return "word_exposures"
}
