package model

import "time"

type CompletionStatus string

const (
	StatusNotStarted CompletionStatus = "not_started"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
)

// ActivityCompletion 按 (作业, 学生, 活动) 维度持久化的完成/进度快照
// 自然键上做幂等 upsert，并发重复评估不会产生重复行
// swagger:model ActivityCompletion
type ActivityCompletion struct {
	ID                   uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	AssignmentID         string           `gorm:"type:varchar(36);not null;uniqueIndex:uniq_completion_key" json:"assignmentId"`
	StudentID            uint             `gorm:"not null;uniqueIndex:uniq_completion_key" json:"studentId"`
	ActivityID           string           `gorm:"size:100;not null;uniqueIndex:uniq_completion_key" json:"activityId"`
	Status               CompletionStatus `gorm:"type:enum('not_started','in_progress','completed');default:'not_started'" json:"status"`
	CompletedVia         string           `gorm:"size:32" json:"completedVia"`
	WordsExposed         int              `gorm:"default:0" json:"wordsExposed"`
	TargetWordCount      int              `gorm:"default:0" json:"targetWordCount"`
	AverageAccuracy      int              `gorm:"default:0" json:"averageAccuracy"`
	HighAccuracySessions int              `gorm:"default:0" json:"highAccuracySessions"`
	TotalSessions        int              `gorm:"default:0" json:"totalSessions"`
	Sampled              bool             `gorm:"default:false" json:"sampled"`
	SampledWordCount     int              `gorm:"default:0" json:"sampledWordCount"`
	EvaluatedAt          time.Time        `json:"evaluatedAt"`
	CompletedAt          *time.Time       `json:"completedAt"`
}

func (ActivityCompletion) TableName() string {
	return "activity_completions"
}
