package repository

import (
	"language_gems_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

// RecordEncounter 累加一次练习记录，不存在则新建行
func (r *PerformanceRepository) RecordEncounter(studentID uint, vocabularyID string, correct bool) error {
	correctDelta := 0
	if correct {
		correctDelta = 1
	}

	perf := model.WordPerformance{
		StudentID:         studentID,
		VocabularyID:      vocabularyID,
		TotalEncounters:   1,
		CorrectEncounters: correctDelta,
		LastEncounterAt:   time.Now(),
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "vocabulary_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_encounters":   gorm.Expr("total_encounters + 1"),
			"correct_encounters": gorm.Expr("correct_encounters + ?", correctDelta),
			"last_encounter_at":  time.Now(),
		}),
	}).Create(&perf).Error
}

// RecordExposure 记录曝光事实，重复曝光不产生新行
func (r *PerformanceRepository) RecordExposure(assignmentID string, studentID uint, vocabularyID string) error {
	exposure := model.WordExposure{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		VocabularyID: vocabularyID,
		ExposedAt:    time.Now(),
	}

	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}, {Name: "vocabulary_id"}},
		DoNothing: true,
	}).Create(&exposure).Error
}

// GetByVocabulary 某批词在全班范围内的练习记录，分析端使用
func (r *PerformanceRepository) GetByVocabulary(vocabularyIDs []string, studentIDs []uint) ([]model.WordPerformance, error) {
	var perfs []model.WordPerformance
	err := r.DB.Where("vocabulary_id IN ? AND student_id IN ?", vocabularyIDs, studentIDs).
		Find(&perfs).Error
	return perfs, err
}
