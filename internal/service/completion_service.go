package service

import (
	"context"
	"language_gems_backend/internal/config"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/util"
	"language_gems_backend/pkg/monitoring"
	"language_gems_backend/pkg/tracing"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CompletionStore 完成判定引擎的数据访问契约
// 引擎只依赖这六个操作，不关心底层是 MySQL 还是别的存储
type CompletionStore interface {
	GetAssignmentTargetWords(ctx context.Context, assignmentID string) ([]string, error)
	GetEvidenceRecords(ctx context.Context, studentID uint, vocabularyIDs []string) ([]model.EvidenceRecord, error)
	GetExposureFacts(ctx context.Context, assignmentID string, studentID uint, vocabularyIDs []string) ([]string, error)
	GetSessions(ctx context.Context, assignmentID string, studentID uint, activityID string) ([]model.SessionRecord, error)
	WriteCompleted(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error
	WriteProgress(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error
}

// CompletionService 活动完成判定引擎
// 两条规则任一满足即判定完成：
// 规则A（曝光+质量）：全部目标词已曝光且平均正确率达标
// 规则B（高分会话）：足够多次的高正确率会话
type CompletionService struct {
	Store CompletionStore
	cfg   config.CompletionConfig
}

func NewCompletionService(store CompletionStore, cfg config.CompletionConfig) *CompletionService {
	return &CompletionService{Store: store, cfg: cfg}
}

type exposureQualityResult struct {
	met             bool
	wordsExposed    int
	averageAccuracy int
}

type masterySessionsResult struct {
	met                  bool
	highAccuracySessions int
	totalSessions        int
}

// Evaluate 对 (作业, 学生, 活动) 三元组执行一次完整的完成判定
// 纯读操作，不写任何状态；数据读取失败一律降级为空集并告警，
// 评估本身永不报错——宁可判为未完成，也不让一次脏读卡住学生
func (s *CompletionService) Evaluate(ctx context.Context, key model.CompletionKey) model.CompletionDecision {
	ctx, span := tracing.Tracer.Start(ctx, "completion.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("assignment.id", key.AssignmentID),
		attribute.Int("student.id", int(key.StudentID)),
		attribute.String("activity.id", key.ActivityID),
	)

	timer := prometheus.NewTimer(monitoring.EvaluationDuration)
	defer timer.ObserveDuration()

	targetIDs, err := s.Store.GetAssignmentTargetWords(ctx, key.AssignmentID)
	if err != nil {
		zap.L().Warn("resolve target words failed, degrading to empty set",
			zap.String("assignment_id", key.AssignmentID), zap.Error(err))
		targetIDs = nil
	}

	sampled := false
	if len(targetIDs) > s.cfg.MaxSampledWords {
		targetIDs = sampleTargetWords(targetIDs, key.AssignmentID, key.StudentID, s.cfg.MaxSampledWords)
		sampled = true
	}

	// 作业没有任何词汇关联时退化到兜底目标数，此时规则A恒不成立
	// （曝光数恒为 0），完成只能走规则B
	targetCount := len(targetIDs)
	if targetCount == 0 {
		targetCount = s.cfg.FallbackWordCount
	}

	var (
		wg sync.WaitGroup
		ra exposureQualityResult
		rb masterySessionsResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ra = s.evaluateExposureQuality(ctx, key, targetIDs, targetCount)
	}()
	go func() {
		defer wg.Done()
		rb = s.evaluateMasterySessions(ctx, key)
	}()
	wg.Wait()

	decision := model.CompletionDecision{
		Completed:            ra.met || rb.met,
		CompletedVia:         model.RuleNone,
		WordsExposed:         ra.wordsExposed,
		TargetWordCount:      targetCount,
		AverageAccuracy:      ra.averageAccuracy,
		HighAccuracySessions: rb.highAccuracySessions,
		TotalSessions:        rb.totalSessions,
		Sampled:              sampled,
		SampledWordCount:     len(targetIDs),
		EvaluatedAt:          time.Now(),
	}

	// 两条规则同时满足时归因到规则A
	switch {
	case ra.met:
		decision.CompletedVia = model.RuleExposureQuality
	case rb.met:
		decision.CompletedVia = model.RuleMasterySessions
	}

	result := "not_completed"
	rule := "none"
	if decision.Completed {
		result = "completed"
		rule = string(decision.CompletedVia)
	}
	monitoring.EvaluationCounter.WithLabelValues(result, rule).Inc()

	return decision
}

// EvaluateAndPersist 评估并落库
// 写失败只记日志不回传——判定结果对调用方依然有效，
// 下一次评估会重新落库补齐
func (s *CompletionService) EvaluateAndPersist(ctx context.Context, key model.CompletionKey) model.CompletionDecision {
	decision := s.Evaluate(ctx, key)

	var err error
	if decision.Completed {
		err = s.Store.WriteCompleted(ctx, key, decision)
	} else {
		err = s.Store.WriteProgress(ctx, key, decision)
	}
	if err != nil {
		zap.L().Error("persist completion decision failed",
			zap.String("assignment_id", key.AssignmentID),
			zap.Uint("student_id", key.StudentID),
			zap.String("activity_id", key.ActivityID),
			zap.Bool("completed", decision.Completed),
			zap.Error(err))
	}

	return decision
}

// evaluateExposureQuality 规则A：目标词全部曝光且平均正确率达标
// 曝光 = 练习证据与曝光事实的并集；平均正确率按总答题数加权，
// 不是逐词平均，答得多的词权重自然更大
// 没有可解析的目标词时规则A直接不成立：曝光数恒为 0，
// 不能拿学生在全平台的练习记录去凑一个无词汇作业的完成
func (s *CompletionService) evaluateExposureQuality(ctx context.Context, key model.CompletionKey, targetIDs []string, targetCount int) exposureQualityResult {
	if len(targetIDs) == 0 {
		return exposureQualityResult{}
	}

	evidence, err := s.Store.GetEvidenceRecords(ctx, key.StudentID, targetIDs)
	if err != nil {
		zap.L().Warn("read evidence records failed, degrading to empty set",
			zap.Uint("student_id", key.StudentID), zap.Error(err))
		evidence = nil
	}

	exposures, err := s.Store.GetExposureFacts(ctx, key.AssignmentID, key.StudentID, targetIDs)
	if err != nil {
		zap.L().Warn("read exposure facts failed, degrading to empty set",
			zap.String("assignment_id", key.AssignmentID), zap.Error(err))
		exposures = nil
	}

	targetSet := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		targetSet[id] = true
	}

	exposed := make(map[string]bool)
	totalAttempts := 0
	totalCorrect := 0
	for _, rec := range evidence {
		if !targetSet[rec.VocabularyID] {
			continue
		}
		if rec.TotalEncounters > 0 {
			exposed[rec.VocabularyID] = true
		}

		// 上游数据偶尔出现 correct > total，按 total 截断而不是拒绝
		total := rec.TotalEncounters
		correct := rec.CorrectEncounters
		if total < 0 {
			total = 0
		}
		if correct < 0 {
			correct = 0
		}
		if correct > total {
			correct = total
		}
		totalAttempts += total
		totalCorrect += correct
	}
	for _, id := range exposures {
		if !targetSet[id] {
			continue
		}
		exposed[id] = true
	}

	averageAccuracy := 0
	if totalAttempts > 0 {
		averageAccuracy = int(math.Round(float64(totalCorrect) / float64(totalAttempts) * 100))
	}
	averageAccuracy = util.ClampPercent(averageAccuracy)

	allExposed := len(exposed) >= targetCount

	return exposureQualityResult{
		met:             allExposed && averageAccuracy >= s.cfg.MinAccuracyPercent,
		wordsExposed:    len(exposed),
		averageAccuracy: averageAccuracy,
	}
}

// evaluateMasterySessions 规则B：高正确率会话达到次数要求
// 答题量低于门槛的会话不参与达标计数，防止一两个词的"会话"刷完成
func (s *CompletionService) evaluateMasterySessions(ctx context.Context, key model.CompletionKey) masterySessionsResult {
	sessions, err := s.Store.GetSessions(ctx, key.AssignmentID, key.StudentID, key.ActivityID)
	if err != nil {
		zap.L().Warn("read sessions failed, degrading to empty set",
			zap.String("assignment_id", key.AssignmentID),
			zap.Uint("student_id", key.StudentID), zap.Error(err))
		sessions = nil
	}

	high := 0
	for _, sess := range sessions {
		if sess.WordsAttempted < s.cfg.MinSessionWords {
			continue
		}
		if util.ClampPercent(sess.AccuracyPercentage) >= s.cfg.SessionAccuracyPercent {
			high++
		}
	}

	return masterySessionsResult{
		met:                  high >= s.cfg.RequiredSessions,
		highAccuracySessions: high,
		totalSessions:        len(sessions),
	}
}
