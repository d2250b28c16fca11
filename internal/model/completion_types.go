package model

import "time"

// CompletionRule 完成判定走的规则
type CompletionRule string

const (
	RuleExposureQuality CompletionRule = "exposure_quality" // 规则A：全部曝光 + 平均正确率达标
	RuleMasterySessions CompletionRule = "mastery_sessions" // 规则B：多次高正确率会话
	RuleNone            CompletionRule = ""
)

// CompletionKey 完成记录的自然键
type CompletionKey struct {
	AssignmentID string
	StudentID    uint
	ActivityID   string
}

// EvidenceRecord 某学生对某词的累计练习证据（只读）
type EvidenceRecord struct {
	VocabularyID      string `json:"vocabularyId"`
	TotalEncounters   int    `json:"totalEncounters"`
	CorrectEncounters int    `json:"correctEncounters"`
}

// SessionRecord 规则B消费的会话证据（只读）
type SessionRecord struct {
	SessionID          string `json:"sessionId"`
	AccuracyPercentage int    `json:"accuracyPercentage"`
	WordsAttempted     int    `json:"wordsAttempted"`
}

// CompletionDecision 评估结果：是否完成、经由哪条规则、以及支撑指标
// swagger:model CompletionDecision
type CompletionDecision struct {
	Completed            bool           `json:"completed"`
	CompletedVia         CompletionRule `json:"completedVia"`
	WordsExposed         int            `json:"wordsExposed"`
	TargetWordCount      int            `json:"targetWordCount"`
	AverageAccuracy      int            `json:"averageAccuracy"` // 0-100
	HighAccuracySessions int            `json:"highAccuracySessions"`
	TotalSessions        int            `json:"totalSessions"`
	Sampled              bool           `json:"sampled"`
	SampledWordCount     int            `json:"sampledWordCount"`
	EvaluatedAt          time.Time      `json:"evaluatedAt"`
}
