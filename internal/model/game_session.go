package model

import "time"

// GameSession 一次完整的活动通关记录
// swagger:model GameSession
type GameSession struct {
	UUIDBase
	AssignmentID       string     `gorm:"type:varchar(36);not null;index:idx_session_lookup" json:"assignmentId"`
	StudentID          uint       `gorm:"not null;index:idx_session_lookup" json:"studentId"`
	ActivityID         string     `gorm:"size:100;not null;index:idx_session_lookup" json:"activityId"`
	AccuracyPercentage int        `gorm:"default:0" json:"accuracyPercentage"` // 0-100
	WordsAttempted     int        `gorm:"default:0" json:"wordsAttempted"`
	DurationSeconds    int        `gorm:"default:0" json:"durationSeconds"`
	EndedAt            *time.Time `json:"endedAt"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}
