package service

import (
	"language_gems_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankWordDifficulty_TwoTiers(t *testing.T) {
	items := map[string]model.VocabularyItem{
		"w1": {Word: "perro", Translation: "dog"},
		"w2": {Word: "gato", Translation: "cat"},
		"w3": {Word: "casa", Translation: "house"},
		"w4": {Word: "mesa", Translation: "table"},
	}
	perfs := []model.WordPerformance{
		// w1: 10 次 7 败，高置信
		{StudentID: 1, VocabularyID: "w1", TotalEncounters: 6, CorrectEncounters: 2},
		{StudentID: 2, VocabularyID: "w1", TotalEncounters: 4, CorrectEncounters: 1},
		// w2: 8 次 2 败，高置信
		{StudentID: 1, VocabularyID: "w2", TotalEncounters: 8, CorrectEncounters: 6},
		// w3: 2 次 2 败，低答题量但失败率 100，新兴难词
		{StudentID: 1, VocabularyID: "w3", TotalEncounters: 2, CorrectEncounters: 0},
		// w4: 2 次 0 败，低答题量低失败率，不上榜
		{StudentID: 2, VocabularyID: "w4", TotalEncounters: 2, CorrectEncounters: 2},
	}

	ranked := rankWordDifficulty(perfs, items)

	require.Len(t, ranked, 3)
	assert.Equal(t, "w1", ranked[0].VocabularyID, "高置信榜按失败率降序")
	assert.Equal(t, 70, ranked[0].FailureRate)
	assert.Equal(t, "problem", ranked[0].InsightLevel)
	assert.Equal(t, "w2", ranked[1].VocabularyID)
	assert.Equal(t, 25, ranked[1].FailureRate)
	assert.Equal(t, "monitor", ranked[1].InsightLevel)
	assert.Equal(t, "w3", ranked[2].VocabularyID, "新兴难词排在高置信榜之后")
	assert.Equal(t, 100, ranked[2].FailureRate)

	for i, entry := range ranked {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "perro", ranked[0].Word)
}

func TestRankWordDifficulty_Empty(t *testing.T) {
	ranked := rankWordDifficulty(nil, nil)
	assert.Empty(t, ranked)
}

func TestDifficultyInsight_Levels(t *testing.T) {
	tests := []struct {
		name        string
		failureRate int
		attempts    int
		wantLevel   string
	}{
		{"failing badly", 80, 20, "problem"},
		{"needs review", 45, 20, "review"},
		{"worth watching", 25, 20, "monitor"},
		{"doing fine", 5, 20, "success"},
		{"too few attempts", 0, 2, "monitor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, insight := difficultyInsight(tt.failureRate, tt.attempts)
			assert.Equal(t, tt.wantLevel, level)
			assert.NotEmpty(t, insight)
		})
	}
}

func TestAssembleRoster_StatusAndFlags(t *testing.T) {
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)

	users := []model.User{
		{BaseModel: model.BaseModel{ID: 1}, Name: "Ana"},
		{BaseModel: model.BaseModel{ID: 2}, Name: "Ben"},
		{BaseModel: model.BaseModel{ID: 3}, Name: "Cara"},
	}
	sessions := []model.GameSession{
		{StudentID: 1, DurationSeconds: 600, EndedAt: &now},
		{StudentID: 2, DurationSeconds: 300, EndedAt: &old},
		{StudentID: 3, DurationSeconds: 240, EndedAt: &now},
	}
	completions := []model.ActivityCompletion{
		{StudentID: 1, Status: model.StatusCompleted, CompletedVia: "exposure_quality", AverageAccuracy: 85, TotalSessions: 4},
		{StudentID: 2, Status: model.StatusInProgress},
		{StudentID: 3, Status: model.StatusInProgress},
	}
	perfs := []model.WordPerformance{
		{StudentID: 1, VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 9},
		{StudentID: 2, VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 8},
		// Cara 失败率 60%，应标记 high_failure
		{StudentID: 3, VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 4},
	}

	roster := assembleRoster(users, sessions, completions, perfs)

	require.Len(t, roster, 3)
	assert.Equal(t, uint(1), roster[0].StudentID)
	assert.Equal(t, "Ana", roster[0].StudentName)
	assert.Equal(t, model.StatusCompleted, roster[0].Status)
	assert.Equal(t, "exposure_quality", roster[0].CompletedVia)
	assert.Equal(t, 10, roster[0].TimeSpentMinutes)
	assert.Empty(t, roster[0].InterventionFlag)

	assert.Equal(t, model.StatusInProgress, roster[1].Status)
	assert.Equal(t, "stopped_midway", roster[1].InterventionFlag, "一周以上无活动的进行中学生")

	assert.Equal(t, 60, roster[2].FailureRate)
	assert.Equal(t, "high_failure", roster[2].InterventionFlag)
}

func TestInterventionFlag_Priority(t *testing.T) {
	// 高失败率优先于用时过长
	entry := model.StudentRosterEntry{
		Status:           model.StatusInProgress,
		FailureRate:      80,
		TimeSpentMinutes: 90,
	}
	assert.Equal(t, "high_failure", interventionFlag(entry, 10, time.Now()))

	entry.FailureRate = 10
	assert.Equal(t, "unusually_long", interventionFlag(entry, 10, time.Now()))

	entry.TimeSpentMinutes = 15
	assert.Equal(t, "", interventionFlag(entry, 10, time.Now()))
}

func TestComputeOverview(t *testing.T) {
	assignment := &model.Assignment{Title: "Unit 3 vocab"}
	assignment.ID = "a-1"
	roster := []model.StudentRosterEntry{
		{StudentID: 1, Status: model.StatusCompleted, TimeSpentMinutes: 10},
		{StudentID: 2, Status: model.StatusCompleted, TimeSpentMinutes: 20},
		{StudentID: 3, Status: model.StatusInProgress, TimeSpentMinutes: 6, InterventionFlag: "high_failure"},
		{StudentID: 4, Status: model.StatusNotStarted},
	}
	sessions := []model.GameSession{
		{AccuracyPercentage: 80},
		{AccuracyPercentage: 60},
	}

	overview := computeOverview(assignment, roster, sessions)

	assert.Equal(t, "a-1", overview.AssignmentID)
	assert.Equal(t, 4, overview.TotalStudents)
	assert.Equal(t, 2, overview.CompletedStudents)
	assert.Equal(t, 1, overview.InProgressStudents)
	assert.Equal(t, 1, overview.NotStartedStudents)
	assert.Equal(t, 50, overview.CompletionRate)
	assert.Equal(t, 9, overview.AverageTimeMinutes)
	assert.Equal(t, 1, overview.StudentsNeedingHelp)
	assert.InDelta(t, 70.0, overview.AverageAccuracy, 0.001)
	assert.Equal(t, 58, overview.ClassSuccessScore)
}
