package service

import (
	"context"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/repository"
	"time"

	"go.uber.org/zap"
)

// WordResult 会话内单个词的作答结果
type WordResult struct {
	VocabularyID string `json:"vocabularyId" binding:"required"`
	Correct      bool   `json:"correct"`
}

// SubmitSessionInput 游戏端上报的一次完整会话
type SubmitSessionInput struct {
	AccuracyPercentage int          `json:"accuracyPercentage" binding:"min=0,max=100"`
	WordsAttempted     int          `json:"wordsAttempted" binding:"min=0"`
	DurationSeconds    int          `json:"durationSeconds" binding:"min=0"`
	WordResults        []WordResult `json:"wordResults"`
}

type GameSessionService struct {
	SessionRepo     *repository.SessionRepository
	PerformanceRepo *repository.PerformanceRepository
	Completion      *CompletionService
}

func NewGameSessionService(sessionRepo *repository.SessionRepository, performanceRepo *repository.PerformanceRepository, completion *CompletionService) *GameSessionService {
	return &GameSessionService{
		SessionRepo:     sessionRepo,
		PerformanceRepo: performanceRepo,
		Completion:      completion,
	}
}

// SubmitSession 落库会话与逐词证据，然后触发一次完成判定
// 证据写入失败不阻断提交，判定引擎读到多少算多少
func (s *GameSessionService) SubmitSession(ctx context.Context, key model.CompletionKey, input *SubmitSessionInput) (*model.GameSession, model.CompletionDecision, error) {
	now := time.Now()
	session := &model.GameSession{
		AssignmentID:       key.AssignmentID,
		StudentID:          key.StudentID,
		ActivityID:         key.ActivityID,
		AccuracyPercentage: input.AccuracyPercentage,
		WordsAttempted:     input.WordsAttempted,
		DurationSeconds:    input.DurationSeconds,
		EndedAt:            &now,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, model.CompletionDecision{}, err
	}

	for _, wr := range input.WordResults {
		if err := s.PerformanceRepo.RecordEncounter(key.StudentID, wr.VocabularyID, wr.Correct); err != nil {
			zap.L().Error("record word encounter failed",
				zap.Uint("student_id", key.StudentID),
				zap.String("vocabulary_id", wr.VocabularyID),
				zap.Error(err))
		}
		if err := s.PerformanceRepo.RecordExposure(key.AssignmentID, key.StudentID, wr.VocabularyID); err != nil {
			zap.L().Error("record word exposure failed",
				zap.String("assignment_id", key.AssignmentID),
				zap.String("vocabulary_id", wr.VocabularyID),
				zap.Error(err))
		}
	}

	decision := s.Completion.EvaluateAndPersist(ctx, key)
	return session, decision, nil
}
