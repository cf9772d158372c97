package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

type MockTestPostgreSQL struct {
	db *gorm.DB
}

func NewMockTestPostgreSQL(db *gorm.DB) repositories.MockTestRepository {
	return &MockTestPostgreSQL{db: db}
}

func (m *MockTestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	var test models.MockTest
	if err := m.db.WithContext(ctx).Preload("Subject").First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &test, nil
}

func (m *MockTestPostgreSQL) GetQuestions(ctx context.Context, testID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := m.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("order_num ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
