package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
)

type RevisionPlanPostgreSQL struct {
	db *gorm.DB
}

func NewRevisionPlanPostgreSQL(db *gorm.DB) repositories.RevisionPlanRepository {
	return &RevisionPlanPostgreSQL{db: db}
}

func (r *RevisionPlanPostgreSQL) ReplaceActive(ctx context.Context, plan *models.RevisionPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RevisionPlan{}).
			Where("student_id = ? AND is_active = ?", plan.StudentID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate previous plan: %w", err)
		}

		plan.IsActive = true
		if err := tx.Create(plan).Error; err != nil {
			return fmt.Errorf("failed to create revision plan: %w", err)
		}
		return nil
	})
}

func (r *RevisionPlanPostgreSQL) GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error) {
	var plan models.RevisionPlan
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND is_active = ?", studentID, true).
		Order("generated_at DESC").
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}
