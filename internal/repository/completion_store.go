package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"language_gems_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const targetWordsCacheTTL = 10 * time.Minute

// CompletionStore 完成判定引擎的数据访问实现
// 读操作按引擎要求全部带 context，写操作是自然键上的幂等 upsert
type CompletionStore struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewCompletionStore(db *gorm.DB, rdb *redis.Client) *CompletionStore {
	return &CompletionStore{DB: db, Redis: rdb}
}

// GetAssignmentTargetWords 解析作业的目标词汇
// 优先级：作业直接关联 > 引用的词汇表成员；两者都没有时返回空列表，
// 由引擎退化到配置的兜底目标数
func (s *CompletionStore) GetAssignmentTargetWords(ctx context.Context, assignmentID string) ([]string, error) {
	cacheKey := fmt.Sprintf("assignment:target_words:%s", assignmentID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var ids []string
			if err := json.Unmarshal([]byte(cached), &ids); err == nil {
				return ids, nil
			}
		}
	}

	var ids []string
	err := s.DB.WithContext(ctx).Model(&model.AssignmentVocabulary{}).
		Where("assignment_id = ?", assignmentID).
		Pluck("vocabulary_id", &ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		var assignment model.Assignment
		err = s.DB.WithContext(ctx).First(&assignment, "id = ?", assignmentID).Error
		if err != nil {
			return nil, err
		}

		if assignment.VocabularyListID != "" {
			err = s.DB.WithContext(ctx).Model(&model.VocabularyListItem{}).
				Where("list_id = ?", assignment.VocabularyListID).
				Order("position ASC").
				Pluck("vocabulary_id", &ids).Error
			if err != nil {
				return nil, err
			}
		}
	}

	if s.Redis != nil && len(ids) > 0 {
		if data, err := json.Marshal(ids); err == nil {
			s.Redis.Set(ctx, cacheKey, data, targetWordsCacheTTL)
		}
	}

	return ids, nil
}

func (s *CompletionStore) GetEvidenceRecords(ctx context.Context, studentID uint, vocabularyIDs []string) ([]model.EvidenceRecord, error) {
	query := s.DB.WithContext(ctx).Model(&model.WordPerformance{}).
		Where("student_id = ?", studentID)
	if len(vocabularyIDs) > 0 {
		query = query.Where("vocabulary_id IN ?", vocabularyIDs)
	}

	var perfs []model.WordPerformance
	if err := query.Find(&perfs).Error; err != nil {
		return nil, err
	}

	records := make([]model.EvidenceRecord, 0, len(perfs))
	for _, p := range perfs {
		records = append(records, model.EvidenceRecord{
			VocabularyID:      p.VocabularyID,
			TotalEncounters:   p.TotalEncounters,
			CorrectEncounters: p.CorrectEncounters,
		})
	}
	return records, nil
}

func (s *CompletionStore) GetExposureFacts(ctx context.Context, assignmentID string, studentID uint, vocabularyIDs []string) ([]string, error) {
	query := s.DB.WithContext(ctx).Model(&model.WordExposure{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID)
	if len(vocabularyIDs) > 0 {
		query = query.Where("vocabulary_id IN ?", vocabularyIDs)
	}

	var ids []string
	err := query.Pluck("vocabulary_id", &ids).Error
	return ids, err
}

func (s *CompletionStore) GetSessions(ctx context.Context, assignmentID string, studentID uint, activityID string) ([]model.SessionRecord, error) {
	var sessions []model.GameSession
	err := s.DB.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ? AND activity_id = ?", assignmentID, studentID, activityID).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	records := make([]model.SessionRecord, 0, len(sessions))
	for _, sess := range sessions {
		records = append(records, model.SessionRecord{
			SessionID:          sess.ID,
			AccuracyPercentage: sess.AccuracyPercentage,
			WordsAttempted:     sess.WordsAttempted,
		})
	}
	return records, nil
}

// WriteCompleted 写入终态完成记录，带完整指标快照
func (s *CompletionStore) WriteCompleted(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	now := time.Now()
	record := model.ActivityCompletion{
		AssignmentID:         key.AssignmentID,
		StudentID:            key.StudentID,
		ActivityID:           key.ActivityID,
		Status:               model.StatusCompleted,
		CompletedVia:         string(decision.CompletedVia),
		WordsExposed:         decision.WordsExposed,
		TargetWordCount:      decision.TargetWordCount,
		AverageAccuracy:      decision.AverageAccuracy,
		HighAccuracySessions: decision.HighAccuracySessions,
		TotalSessions:        decision.TotalSessions,
		Sampled:              decision.Sampled,
		SampledWordCount:     decision.SampledWordCount,
		EvaluatedAt:          decision.EvaluatedAt,
		CompletedAt:          &now,
	}

	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "completed_via", "words_exposed", "target_word_count",
			"average_accuracy", "high_accuracy_sessions", "total_sessions",
			"sampled", "sampled_word_count", "evaluated_at", "completed_at",
		}),
	}).Create(&record).Error
}

// WriteProgress 覆盖式写入进度快照
// 已是 completed 的记录不回退，完成状态是单向的
func (s *CompletionStore) WriteProgress(ctx context.Context, key model.CompletionKey, decision model.CompletionDecision) error {
	var existing model.ActivityCompletion
	err := s.DB.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ? AND activity_id = ?",
			key.AssignmentID, key.StudentID, key.ActivityID).
		First(&existing).Error
	if err == nil && existing.Status == model.StatusCompleted {
		return nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	status := model.StatusNotStarted
	if decision.WordsExposed > 0 || decision.TotalSessions > 0 {
		status = model.StatusInProgress
	}

	record := model.ActivityCompletion{
		AssignmentID:         key.AssignmentID,
		StudentID:            key.StudentID,
		ActivityID:           key.ActivityID,
		Status:               status,
		WordsExposed:         decision.WordsExposed,
		TargetWordCount:      decision.TargetWordCount,
		AverageAccuracy:      decision.AverageAccuracy,
		HighAccuracySessions: decision.HighAccuracySessions,
		TotalSessions:        decision.TotalSessions,
		Sampled:              decision.Sampled,
		SampledWordCount:     decision.SampledWordCount,
		EvaluatedAt:          decision.EvaluatedAt,
	}

	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}, {Name: "activity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "words_exposed", "target_word_count",
			"average_accuracy", "high_accuracy_sessions", "total_sessions",
			"sampled", "sampled_word_count", "evaluated_at",
		}),
	}).Create(&record).Error
}

// ListByAssignment 作业维度的完成记录，分析端使用
func (s *CompletionStore) ListByAssignment(assignmentID string) ([]model.ActivityCompletion, error) {
	var records []model.ActivityCompletion
	err := s.DB.Where("assignment_id = ?", assignmentID).Find(&records).Error
	return records, err
}
