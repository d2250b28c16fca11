package service

import (
	"context"
	"errors"
	"fmt"
	"language_gems_backend/internal/config"
	"language_gems_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	targets      []string
	targetsErr   error
	evidence     []model.EvidenceRecord
	evidenceErr  error
	exposures    []string
	exposuresErr error
	sessions     []model.SessionRecord
	sessionsErr  error

	completedWrites []model.CompletionDecision
	progressWrites  []model.CompletionDecision
	writeErr        error
}

func (f *fakeStore) GetAssignmentTargetWords(ctx context.Context, assignmentID string) ([]string, error) {
	return f.targets, f.targetsErr
}

func (f *fakeStore) GetEvidenceRecords(ctx context.Context, studentID uint, vocabularyIDs []string) ([]model.EvidenceRecord, error) {
	return f.evidence, f.evidenceErr
}

func (f *fakeStore) GetExposureFacts(ctx context.Context, assignmentID string, studentID uint, vocabularyIDs []string) ([]string, error) {
	return f.exposures, f.exposuresErr
}

func (f *fakeStore) GetSessions(ctx context.Context, assignmentID string, studentID uint, activityID string) ([]model.SessionRecord, error) {
	return f.sessions, f.sessionsErr
}

func (f *fakeStore) WriteCompleted(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	f.completedWrites = append(f.completedWrites, decision)
	return f.writeErr
}

func (f *fakeStore) WriteProgress(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	f.progressWrites = append(f.progressWrites, decision)
	return f.writeErr
}

func testConfig() config.CompletionConfig {
	return config.CompletionConfig{
		MinAccuracyPercent:     70,
		SessionAccuracyPercent: 80,
		RequiredSessions:       3,
		MinSessionWords:        3,
		MaxSampledWords:        50,
		FallbackWordCount:      10,
	}
}

func testKey() model.CompletionKey {
	return model.CompletionKey{AssignmentID: "a-1", StudentID: 7, ActivityID: "vocab-master"}
}

func TestEvaluate_ExposureQualityCompleted(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1", "w2", "w3"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 4, CorrectEncounters: 3},
			{VocabularyID: "w2", TotalEncounters: 4, CorrectEncounters: 3},
		},
		exposures: []string{"w3"},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.True(t, decision.Completed)
	assert.Equal(t, model.RuleExposureQuality, decision.CompletedVia)
	assert.Equal(t, 3, decision.WordsExposed)
	assert.Equal(t, 3, decision.TargetWordCount)
	assert.Equal(t, 75, decision.AverageAccuracy)
	assert.False(t, decision.Sampled)
}

func TestEvaluate_ExposureUnionCountsBothSources(t *testing.T) {
	// w2 既有练习证据又有曝光事实，只能算一次
	store := &fakeStore{
		targets: []string{"w1", "w2", "w3"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 2, CorrectEncounters: 2},
			{VocabularyID: "w2", TotalEncounters: 2, CorrectEncounters: 2},
		},
		exposures: []string{"w2"},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.Equal(t, 2, decision.WordsExposed)
	assert.False(t, decision.Completed, "w3 未曝光，规则A不成立")
}

func TestEvaluate_AccuracyBelowThreshold(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1", "w2"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 6},
			{VocabularyID: "w2", TotalEncounters: 10, CorrectEncounters: 7},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, model.RuleNone, decision.CompletedVia)
	assert.Equal(t, 65, decision.AverageAccuracy)
}

func TestEvaluate_AccuracyIsAttemptWeighted(t *testing.T) {
	// 逐词平均是 (100+40)/2=70，但按答题量加权是 12/20=60，必须用后者
	store := &fakeStore{
		targets: []string{"w1", "w2"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 4},
			{VocabularyID: "w2", TotalEncounters: 10, CorrectEncounters: 8},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.Equal(t, 60, decision.AverageAccuracy)
	assert.False(t, decision.Completed)
}

func TestEvaluate_AccuracyRoundsHalfUp(t *testing.T) {
	// 139/200 = 69.5，四舍五入到 70，恰好达标
	store := &fakeStore{
		targets: []string{"w1", "w2"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 100, CorrectEncounters: 70},
			{VocabularyID: "w2", TotalEncounters: 100, CorrectEncounters: 69},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.Equal(t, 70, decision.AverageAccuracy)
	assert.True(t, decision.Completed)
}

func TestEvaluate_CorrectClampedToTotal(t *testing.T) {
	// 脏数据 correct > total 按 total 截断，不能算出超过 100 的正确率
	store := &fakeStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 5, CorrectEncounters: 9},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.Equal(t, 100, decision.AverageAccuracy)
	assert.True(t, decision.Completed)
}

func TestEvaluate_EvidenceOutsideTargetIgnored(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 2, CorrectEncounters: 2},
			{VocabularyID: "other", TotalEncounters: 10, CorrectEncounters: 0},
		},
		exposures: []string{"other2"},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.Equal(t, 1, decision.WordsExposed)
	assert.Equal(t, 100, decision.AverageAccuracy, "目标外的词不参与正确率")
	assert.True(t, decision.Completed)
}

func TestEvaluate_MasterySessionsCompleted(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1", "w2", "w3"},
		sessions: []model.SessionRecord{
			{SessionID: "s1", AccuracyPercentage: 85, WordsAttempted: 5},
			{SessionID: "s2", AccuracyPercentage: 90, WordsAttempted: 4},
			{SessionID: "s3", AccuracyPercentage: 80, WordsAttempted: 6},
			{SessionID: "s4", AccuracyPercentage: 40, WordsAttempted: 5},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.True(t, decision.Completed)
	assert.Equal(t, model.RuleMasterySessions, decision.CompletedVia)
	assert.Equal(t, 3, decision.HighAccuracySessions)
	assert.Equal(t, 4, decision.TotalSessions)
}

func TestEvaluate_MasterySessionsOrderIndependent(t *testing.T) {
	sessions := []model.SessionRecord{
		{SessionID: "s1", AccuracyPercentage: 85, WordsAttempted: 5},
		{SessionID: "s2", AccuracyPercentage: 40, WordsAttempted: 5},
		{SessionID: "s3", AccuracyPercentage: 90, WordsAttempted: 4},
		{SessionID: "s4", AccuracyPercentage: 80, WordsAttempted: 6},
	}
	reversed := make([]model.SessionRecord, len(sessions))
	for i, sess := range sessions {
		reversed[len(sessions)-1-i] = sess
	}

	svc := NewCompletionService(&fakeStore{targets: []string{"w1"}, sessions: sessions}, testConfig())
	svcReversed := NewCompletionService(&fakeStore{targets: []string{"w1"}, sessions: reversed}, testConfig())

	first := svc.Evaluate(context.Background(), testKey())
	second := svcReversed.Evaluate(context.Background(), testKey())

	assert.True(t, first.Completed)
	assert.Equal(t, model.RuleMasterySessions, first.CompletedVia)
	second.EvaluatedAt = first.EvaluatedAt
	assert.Equal(t, first, second, "会话顺序不能影响规则B的结果")
}

func TestEvaluate_ShortSessionsDoNotCount(t *testing.T) {
	// 高正确率但答题量不足的会话不参与达标计数
	store := &fakeStore{
		targets: []string{"w1"},
		sessions: []model.SessionRecord{
			{SessionID: "s1", AccuracyPercentage: 100, WordsAttempted: 1},
			{SessionID: "s2", AccuracyPercentage: 100, WordsAttempted: 2},
			{SessionID: "s3", AccuracyPercentage: 95, WordsAttempted: 5},
			{SessionID: "s4", AccuracyPercentage: 90, WordsAttempted: 5},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, 2, decision.HighAccuracySessions)
	assert.Equal(t, 4, decision.TotalSessions)
}

func TestEvaluate_BothRulesMetPrefersExposureQuality(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 9},
		},
		sessions: []model.SessionRecord{
			{SessionID: "s1", AccuracyPercentage: 90, WordsAttempted: 5},
			{SessionID: "s2", AccuracyPercentage: 90, WordsAttempted: 5},
			{SessionID: "s3", AccuracyPercentage: 90, WordsAttempted: 5},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.True(t, decision.Completed)
	assert.Equal(t, model.RuleExposureQuality, decision.CompletedVia)
}

func TestEvaluate_NoTargetWordsFallsBack(t *testing.T) {
	// 作业没有词汇关联：目标数退化到兜底值，规则A恒不成立
	store := &fakeStore{
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 5, CorrectEncounters: 5},
			{VocabularyID: "w2", TotalEncounters: 5, CorrectEncounters: 5},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, 10, decision.TargetWordCount)
	assert.Equal(t, 0, decision.WordsExposed)
}

func TestEvaluate_NoTargetWordsIgnoresPlatformWideEvidence(t *testing.T) {
	// 无词汇作业不能被学生在其他作业里攒下的练习记录刷成完成：
	// 即便学生有大量满分证据，规则A也必须不成立
	var evidence []model.EvidenceRecord
	var exposures []string
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("unrelated-%02d", i)
		evidence = append(evidence, model.EvidenceRecord{
			VocabularyID: id, TotalEncounters: 10, CorrectEncounters: 10,
		})
		exposures = append(exposures, id)
	}
	store := &fakeStore{evidence: evidence, exposures: exposures}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, model.RuleNone, decision.CompletedVia)
	assert.Equal(t, 0, decision.WordsExposed)
	assert.Equal(t, 0, decision.AverageAccuracy)
}

func TestEvaluate_LargePoolIsSampled(t *testing.T) {
	targets := make([]string, 80)
	for i := range targets {
		targets[i] = fmt.Sprintf("w-%03d", i)
	}
	store := &fakeStore{targets: targets}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.True(t, decision.Sampled)
	assert.Equal(t, 50, decision.SampledWordCount)
	assert.Equal(t, 50, decision.TargetWordCount)
}

func TestEvaluate_ReadErrorsDegradeToNotCompleted(t *testing.T) {
	store := &fakeStore{
		targetsErr:   errors.New("db down"),
		evidenceErr:  errors.New("db down"),
		exposuresErr: errors.New("db down"),
		sessionsErr:  errors.New("db down"),
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, 0, decision.WordsExposed)
	assert.Equal(t, 0, decision.TotalSessions)
	assert.Equal(t, 10, decision.TargetWordCount, "目标解析失败按无词汇处理，走兜底目标数")
}

func TestEvaluate_NoEvidenceAtAll(t *testing.T) {
	store := &fakeStore{targets: []string{"w1", "w2"}}
	svc := NewCompletionService(store, testConfig())

	decision := svc.Evaluate(context.Background(), testKey())

	assert.False(t, decision.Completed)
	assert.Equal(t, 0, decision.AverageAccuracy)
	assert.Equal(t, model.RuleNone, decision.CompletedVia)
}

func TestEvaluateAndPersist_WritesCompleted(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 9},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.EvaluateAndPersist(context.Background(), testKey())

	require.True(t, decision.Completed)
	require.Len(t, store.completedWrites, 1)
	assert.Empty(t, store.progressWrites)
	assert.Equal(t, model.RuleExposureQuality, store.completedWrites[0].CompletedVia)
}

func TestEvaluateAndPersist_WritesProgress(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1", "w2"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 1, CorrectEncounters: 1},
		},
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.EvaluateAndPersist(context.Background(), testKey())

	require.False(t, decision.Completed)
	require.Len(t, store.progressWrites, 1)
	assert.Empty(t, store.completedWrites)
}

func TestEvaluateAndPersist_WriteFailureStillReturnsDecision(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 10, CorrectEncounters: 9},
		},
		writeErr: errors.New("db down"),
	}
	svc := NewCompletionService(store, testConfig())

	decision := svc.EvaluateAndPersist(context.Background(), testKey())

	assert.True(t, decision.Completed, "落库失败不影响返回的判定结果")
}

func TestEvaluate_Idempotent(t *testing.T) {
	store := &fakeStore{
		targets: []string{"w1", "w2"},
		evidence: []model.EvidenceRecord{
			{VocabularyID: "w1", TotalEncounters: 4, CorrectEncounters: 4},
			{VocabularyID: "w2", TotalEncounters: 4, CorrectEncounters: 3},
		},
	}
	svc := NewCompletionService(store, testConfig())

	first := svc.Evaluate(context.Background(), testKey())
	second := svc.Evaluate(context.Background(), testKey())

	first.EvaluatedAt = second.EvaluatedAt
	assert.Equal(t, first, second, "同样的证据必须得到同样的判定")
}
