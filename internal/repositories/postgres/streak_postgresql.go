package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

type StreakPostgreSQL struct {
	db *gorm.DB
}

func NewStreakPostgreSQL(db *gorm.DB) repositories.StreakRepository {
	return &StreakPostgreSQL{db: db}
}

func (s *StreakPostgreSQL) Log(ctx context.Context, studentID uint, day time.Time, minutes, tests int) (*models.StreakEntry, error) {
	entry := models.StreakEntry{
		StudentID:      studentID,
		Date:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		MinutesStudied: minutes,
		TestsTaken:     tests,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"minutes_studied": gorm.Expr("streak_data.minutes_studied + EXCLUDED.minutes_studied"),
			"tests_taken":     gorm.Expr("streak_data.tests_taken + EXCLUDED.tests_taken"),
		}),
	}).Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to log streak entry: %w", err)
	}

	var stored models.StreakEntry
	if err := s.db.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, entry.Date).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *StreakPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]models.StreakEntry, error) {
	var entries []models.StreakEntry
	if err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
