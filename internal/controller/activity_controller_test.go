package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"language_gems_backend/internal/config"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/service"
	"language_gems_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompletionStore struct {
	targets  []string
	evidence []model.EvidenceRecord
	writes   int
}

func (s *stubCompletionStore) GetAssignmentTargetWords(ctx context.Context, assignmentID string) ([]string, error) {
	return s.targets, nil
}

func (s *stubCompletionStore) GetEvidenceRecords(ctx context.Context, studentID uint, vocabularyIDs []string) ([]model.EvidenceRecord, error) {
	return s.evidence, nil
}

func (s *stubCompletionStore) GetExposureFacts(ctx context.Context, assignmentID string, studentID uint, vocabularyIDs []string) ([]string, error) {
	return nil, nil
}

func (s *stubCompletionStore) GetSessions(ctx context.Context, assignmentID string, studentID uint, activityID string) ([]model.SessionRecord, error) {
	return nil, nil
}

func (s *stubCompletionStore) WriteCompleted(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	s.writes++
	return nil
}

func (s *stubCompletionStore) WriteProgress(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	s.writes++
	return nil
}

func TestGetCompletion_ReadOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &stubCompletionStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 9},
		},
	}
	svc := service.NewCompletionService(store, config.CompletionConfig{
		MinAccuracyPercent:     70,
		SessionAccuracyPercent: 80,
		RequiredSessions:       3,
		MinSessionWords:        3,
		MaxSampledWords:        50,
		FallbackWordCount:      10,
	})
	ctrl := NewActivityController(nil, svc)

	r := gin.New()
	r.GET("/api/assignments/:id/activities/:activityId/completion", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 7, Role: model.Student})
		ctrl.GetCompletion(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/assignments/a-1/activities/vocab-master/completion", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.writes, "状态查询是只读评估，不产生任何写入")

	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["completed"])
	assert.Equal(t, "exposure_quality", data["completedVia"])
}
