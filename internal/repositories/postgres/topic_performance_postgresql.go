package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

type TopicPerformancePostgreSQL struct {
	db *gorm.DB
}

func NewTopicPerformancePostgreSQL(db *gorm.DB) repositories.TopicPerformanceRepository {
	return &TopicPerformancePostgreSQL{db: db}
}

func (t *TopicPerformancePostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]models.TopicPerformance, error) {
	var perf []models.TopicPerformance
	if err := t.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("weakness_score DESC, topic ASC").
		Find(&perf).Error; err != nil {
		return nil, err
	}
	return perf, nil
}
