package model

// AssignmentOverview 作业总览指标，教师端分诊区使用
type AssignmentOverview struct {
	AssignmentID        string  `json:"assignmentId"`
	AssignmentTitle     string  `json:"assignmentTitle"`
	TotalStudents       int     `json:"totalStudents"`
	CompletedStudents   int     `json:"completedStudents"`
	InProgressStudents  int     `json:"inProgressStudents"`
	NotStartedStudents  int     `json:"notStartedStudents"`
	CompletionRate      int     `json:"completionRate"` // 0-100
	AverageTimeMinutes  int     `json:"averageTimeMinutes"`
	ClassSuccessScore   int     `json:"classSuccessScore"` // 0-100
	StudentsNeedingHelp int     `json:"studentsNeedingHelp"`
	AverageAccuracy     float64 `json:"averageAccuracy"`
}

// WordDifficulty 词汇难度排行单项
type WordDifficulty struct {
	Rank          int    `json:"rank"`
	VocabularyID  string `json:"vocabularyId"`
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	TotalAttempts int    `json:"totalAttempts"`
	FailureCount  int    `json:"failureCount"`
	FailureRate   int    `json:"failureRate"` // 0-100
	InsightLevel  string `json:"insightLevel"` // success, monitor, review, problem
	Insight       string `json:"insight"`
}

// StudentRosterEntry 学生花名册单项，带干预标记
type StudentRosterEntry struct {
	StudentID        uint             `json:"studentId"`
	StudentName      string           `json:"studentName"`
	Status           CompletionStatus `json:"status"`
	CompletedVia     string           `json:"completedVia"`
	TimeSpentMinutes int              `json:"timeSpentMinutes"`
	AverageAccuracy  int              `json:"averageAccuracy"`
	FailureRate      int              `json:"failureRate"`
	TotalSessions    int              `json:"totalSessions"`
	InterventionFlag string           `json:"interventionFlag,omitempty"` // high_failure, stopped_midway, unusually_long
}
