package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"language_gems_backend/internal/model"
	"language_gems_backend/internal/repository"
	"language_gems_backend/internal/util"
	"math"
	"sort"
	"strconv"
	"time"
)

const (
	// 词汇难度排行的两档门槛
	highConfidenceAttempts  = 5  // 达到该答题量的词进入高置信榜
	emergingFailurePercent  = 50 // 低答题量的词失败率达到该值才上榜
	interventionFailureRate = 50 // 学生失败率达到该值标记 high_failure
	staleProgressDays       = 7  // 中途停滞的判定窗口
)

// AnalyticsService 教师端作业分析
// 所有聚合都基于练习证据、会话与完成记录的离线计算，不触发判定引擎
type AnalyticsService struct {
	AssignmentRepo  *repository.AssignmentRepository
	SessionRepo     *repository.SessionRepository
	PerformanceRepo *repository.PerformanceRepository
	VocabRepo       *repository.VocabularyRepository
	UserRepo        *repository.UserRepository
	CompletionRepo  *repository.CompletionStore
	Storage         StorageProvider
}

func NewAnalyticsService(
	assignmentRepo *repository.AssignmentRepository,
	sessionRepo *repository.SessionRepository,
	performanceRepo *repository.PerformanceRepository,
	vocabRepo *repository.VocabularyRepository,
	userRepo *repository.UserRepository,
	completionRepo *repository.CompletionStore,
	storage StorageProvider,
) *AnalyticsService {
	return &AnalyticsService{
		AssignmentRepo:  assignmentRepo,
		SessionRepo:     sessionRepo,
		PerformanceRepo: performanceRepo,
		VocabRepo:       vocabRepo,
		UserRepo:        userRepo,
		CompletionRepo:  completionRepo,
		Storage:         storage,
	}
}

// GetAssignmentOverview 作业总览：完成率、平均用时、班级成功分
func (s *AnalyticsService) GetAssignmentOverview(ctx context.Context, assignmentID string) (*model.AssignmentOverview, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, util.ErrAssignmentNotFound
	}

	roster, err := s.buildRoster(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.SessionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	overview := computeOverview(assignment, roster, sessions)
	return &overview, nil
}

// GetWordDifficultyRanking 词汇难度排行
// 两档合并：高答题量的词按失败率排序在前，答题量不足但失败率
// 已经很高的词作为新兴难词附在后面
func (s *AnalyticsService) GetWordDifficultyRanking(ctx context.Context, assignmentID string) ([]model.WordDifficulty, error) {
	vocabIDs, err := s.CompletionRepo.GetAssignmentTargetWords(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(vocabIDs) == 0 {
		return []model.WordDifficulty{}, nil
	}

	studentIDs, err := s.assignmentStudentIDs(assignmentID)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return []model.WordDifficulty{}, nil
	}

	perfs, err := s.PerformanceRepo.GetByVocabulary(vocabIDs, studentIDs)
	if err != nil {
		return nil, err
	}

	items, err := s.VocabRepo.FindItemsByIDs(vocabIDs)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]model.VocabularyItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}

	return rankWordDifficulty(perfs, itemsByID), nil
}

// GetStudentRoster 学生花名册，带干预标记
func (s *AnalyticsService) GetStudentRoster(ctx context.Context, assignmentID string) ([]model.StudentRosterEntry, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		return nil, util.ErrAssignmentNotFound
	}
	return s.buildRoster(ctx, assignmentID)
}

// ExportRosterCSV 导出花名册 CSV 到配置的存储后端，返回对象路径
func (s *AnalyticsService) ExportRosterCSV(ctx context.Context, assignmentID string) (string, error) {
	roster, err := s.GetStudentRoster(ctx, assignmentID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"student_id", "student_name", "status", "completed_via",
		"time_spent_minutes", "average_accuracy", "failure_rate", "total_sessions", "intervention_flag"})
	for _, entry := range roster {
		w.Write([]string{
			strconv.FormatUint(uint64(entry.StudentID), 10),
			entry.StudentName,
			string(entry.Status),
			entry.CompletedVia,
			strconv.Itoa(entry.TimeSpentMinutes),
			strconv.Itoa(entry.AverageAccuracy),
			strconv.Itoa(entry.FailureRate),
			strconv.Itoa(entry.TotalSessions),
			entry.InterventionFlag,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("exports/assignment_%s_roster_%d.csv", assignmentID, time.Now().Unix())
	return s.Storage.Save(ctx, objectName, &buf, int64(buf.Len()), "text/csv")
}

func (s *AnalyticsService) assignmentStudentIDs(assignmentID string) ([]uint, error) {
	sessions, err := s.SessionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	completions, err := s.CompletionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var ids []uint
	for _, sess := range sessions {
		if !seen[sess.StudentID] {
			seen[sess.StudentID] = true
			ids = append(ids, sess.StudentID)
		}
	}
	for _, c := range completions {
		if !seen[c.StudentID] {
			seen[c.StudentID] = true
			ids = append(ids, c.StudentID)
		}
	}
	return ids, nil
}

func (s *AnalyticsService) buildRoster(ctx context.Context, assignmentID string) ([]model.StudentRosterEntry, error) {
	studentIDs, err := s.assignmentStudentIDs(assignmentID)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) == 0 {
		return []model.StudentRosterEntry{}, nil
	}

	users, err := s.UserRepo.FindByIDs(studentIDs)
	if err != nil {
		return nil, err
	}
	sessions, err := s.SessionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	completions, err := s.CompletionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	vocabIDs, err := s.CompletionRepo.GetAssignmentTargetWords(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	var perfs []model.WordPerformance
	if len(vocabIDs) > 0 {
		perfs, err = s.PerformanceRepo.GetByVocabulary(vocabIDs, studentIDs)
		if err != nil {
			return nil, err
		}
	}

	return assembleRoster(users, sessions, completions, perfs), nil
}

// --- 以下为纯计算，便于单测 ---

func computeOverview(assignment *model.Assignment, roster []model.StudentRosterEntry, sessions []model.GameSession) model.AssignmentOverview {
	overview := model.AssignmentOverview{
		AssignmentID:    assignment.ID,
		AssignmentTitle: assignment.Title,
		TotalStudents:   len(roster),
	}

	needingHelp := 0
	totalMinutes := 0
	for _, entry := range roster {
		switch entry.Status {
		case model.StatusCompleted:
			overview.CompletedStudents++
		case model.StatusInProgress:
			overview.InProgressStudents++
		default:
			overview.NotStartedStudents++
		}
		if entry.InterventionFlag != "" {
			needingHelp++
		}
		totalMinutes += entry.TimeSpentMinutes
	}
	overview.StudentsNeedingHelp = needingHelp

	if len(roster) > 0 {
		overview.CompletionRate = roundPercent(float64(overview.CompletedStudents) / float64(len(roster)))
		overview.AverageTimeMinutes = totalMinutes / len(roster)
	}

	accuracySum := 0
	for _, sess := range sessions {
		accuracySum += util.ClampPercent(sess.AccuracyPercentage)
	}
	if len(sessions) > 0 {
		overview.AverageAccuracy = float64(accuracySum) / float64(len(sessions))
	}

	// 班级成功分：完成率与平均正确率的加权合成
	overview.ClassSuccessScore = util.ClampPercent(int(math.Round(
		float64(overview.CompletionRate)*0.6 + overview.AverageAccuracy*0.4)))

	return overview
}

type wordStats struct {
	attempts int
	failures int
}

func rankWordDifficulty(perfs []model.WordPerformance, itemsByID map[string]model.VocabularyItem) []model.WordDifficulty {
	statsByWord := make(map[string]*wordStats)
	for _, p := range perfs {
		st, ok := statsByWord[p.VocabularyID]
		if !ok {
			st = &wordStats{}
			statsByWord[p.VocabularyID] = st
		}
		total := p.TotalEncounters
		correct := p.CorrectEncounters
		if correct > total {
			correct = total
		}
		st.attempts += total
		st.failures += total - correct
	}

	var highConfidence, emerging []model.WordDifficulty
	for id, st := range statsByWord {
		if st.attempts == 0 {
			continue
		}
		rate := roundPercent(float64(st.failures) / float64(st.attempts))
		entry := model.WordDifficulty{
			VocabularyID:  id,
			Word:          itemsByID[id].Word,
			Translation:   itemsByID[id].Translation,
			TotalAttempts: st.attempts,
			FailureCount:  st.failures,
			FailureRate:   rate,
		}
		entry.InsightLevel, entry.Insight = difficultyInsight(rate, st.attempts)

		if st.attempts >= highConfidenceAttempts {
			highConfidence = append(highConfidence, entry)
		} else if rate >= emergingFailurePercent {
			emerging = append(emerging, entry)
		}
	}

	byDifficulty := func(entries []model.WordDifficulty) func(i, j int) bool {
		return func(i, j int) bool {
			if entries[i].FailureRate != entries[j].FailureRate {
				return entries[i].FailureRate > entries[j].FailureRate
			}
			if entries[i].TotalAttempts != entries[j].TotalAttempts {
				return entries[i].TotalAttempts > entries[j].TotalAttempts
			}
			return entries[i].VocabularyID < entries[j].VocabularyID
		}
	}
	sort.Slice(highConfidence, byDifficulty(highConfidence))
	sort.Slice(emerging, byDifficulty(emerging))

	ranked := append(highConfidence, emerging...)
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func difficultyInsight(failureRate, attempts int) (string, string) {
	switch {
	case failureRate >= 70:
		return "problem", "Most students are failing this word, reteach it before the next session"
	case failureRate >= 40:
		return "review", "A significant share of attempts fail, schedule a review"
	case failureRate >= 20:
		return "monitor", "Some students struggle with this word, keep an eye on it"
	default:
		if attempts < highConfidenceAttempts {
			return "monitor", "Not enough attempts yet to judge this word"
		}
		return "success", "Students handle this word well"
	}
}

func assembleRoster(users []model.User, sessions []model.GameSession, completions []model.ActivityCompletion, perfs []model.WordPerformance) []model.StudentRosterEntry {
	usersByID := make(map[uint]model.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	completionByStudent := make(map[uint]model.ActivityCompletion, len(completions))
	for _, c := range completions {
		completionByStudent[c.StudentID] = c
	}

	type studentAgg struct {
		seconds     int
		attempts    int
		failures    int
		lastEndedAt time.Time
	}
	aggByStudent := make(map[uint]*studentAgg)
	agg := func(id uint) *studentAgg {
		a, ok := aggByStudent[id]
		if !ok {
			a = &studentAgg{}
			aggByStudent[id] = a
		}
		return a
	}
	for _, sess := range sessions {
		a := agg(sess.StudentID)
		a.seconds += sess.DurationSeconds
		if sess.EndedAt != nil && sess.EndedAt.After(a.lastEndedAt) {
			a.lastEndedAt = *sess.EndedAt
		}
	}
	for _, p := range perfs {
		a := agg(p.StudentID)
		total := p.TotalEncounters
		correct := p.CorrectEncounters
		if correct > total {
			correct = total
		}
		a.attempts += total
		a.failures += total - correct
	}

	studentIDs := make([]uint, 0, len(aggByStudent))
	for id := range aggByStudent {
		studentIDs = append(studentIDs, id)
	}
	for id := range completionByStudent {
		if _, ok := aggByStudent[id]; !ok {
			studentIDs = append(studentIDs, id)
		}
	}
	sort.Slice(studentIDs, func(i, j int) bool { return studentIDs[i] < studentIDs[j] })

	totalMinutes := 0
	activeStudents := 0
	for _, a := range aggByStudent {
		if a.seconds > 0 {
			totalMinutes += a.seconds / 60
			activeStudents++
		}
	}
	avgMinutes := 0
	if activeStudents > 0 {
		avgMinutes = totalMinutes / activeStudents
	}

	roster := make([]model.StudentRosterEntry, 0, len(studentIDs))
	for _, id := range studentIDs {
		entry := model.StudentRosterEntry{
			StudentID: id,
			Status:    model.StatusNotStarted,
		}
		if u, ok := usersByID[id]; ok {
			entry.StudentName = u.Name
		}

		if c, ok := completionByStudent[id]; ok {
			entry.Status = c.Status
			entry.CompletedVia = c.CompletedVia
			entry.AverageAccuracy = c.AverageAccuracy
			entry.TotalSessions = c.TotalSessions
		}

		var lastEndedAt time.Time
		if a, ok := aggByStudent[id]; ok {
			entry.TimeSpentMinutes = a.seconds / 60
			if a.attempts > 0 {
				entry.FailureRate = roundPercent(float64(a.failures) / float64(a.attempts))
			}
			lastEndedAt = a.lastEndedAt
		}

		entry.InterventionFlag = interventionFlag(entry, avgMinutes, lastEndedAt)
		roster = append(roster, entry)
	}
	return roster
}

// interventionFlag 干预标记，优先级从高到低：
// high_failure > stopped_midway > unusually_long
func interventionFlag(entry model.StudentRosterEntry, classAvgMinutes int, lastEndedAt time.Time) string {
	if entry.FailureRate >= interventionFailureRate && entry.TimeSpentMinutes > 0 {
		return "high_failure"
	}
	if entry.Status == model.StatusInProgress && !lastEndedAt.IsZero() &&
		time.Since(lastEndedAt) > staleProgressDays*24*time.Hour {
		return "stopped_midway"
	}
	if classAvgMinutes > 0 && entry.TimeSpentMinutes > 2*classAvgMinutes {
		return "unusually_long"
	}
	return ""
}

func roundPercent(ratio float64) int {
	return util.ClampPercent(int(math.Round(ratio * 100)))
}
