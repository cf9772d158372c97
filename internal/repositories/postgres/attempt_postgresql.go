package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Submit(ctx context.Context, attempt *models.StudentAttempt, results []repositories.TopicResult) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return fmt.Errorf("failed to create attempt: %w", err)
		}

		for _, r := range results {
			var tp models.TopicPerformance
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("student_id = ? AND topic = ?", attempt.StudentID, r.Topic).
				First(&tp).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to load topic performance %q: %w", r.Topic, err)
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				tp = models.TopicPerformance{StudentID: attempt.StudentID, Topic: r.Topic}
			}
			if r.Subject != "" {
				tp.Subject = r.Subject
			}

			tp.Record(r.Correct, r.Total)
			if err := tx.Save(&tp).Error; err != nil {
				return fmt.Errorf("failed to save topic performance %q: %w", r.Topic, err)
			}
		}
		return nil
	})
}

func (a *AttemptPostgreSQL) ListRecentByStudent(ctx context.Context, studentID uint, limit int) ([]models.StudentAttempt, error) {
	var attempts []models.StudentAttempt
	query := a.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("MockTest").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) SummarizeByStudent(ctx context.Context, studentID uint) (repositories.AttemptSummary, error) {
	var summary repositories.AttemptSummary
	err := a.db.WithContext(ctx).Model(&models.StudentAttempt{}).
		Select("COUNT(*) AS tests, COALESCE(SUM(score), 0) AS correct, COALESCE(SUM(total), 0) AS questions").
		Where("student_id = ?", studentID).
		Scan(&summary).Error
	return summary, err
}
