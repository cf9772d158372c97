package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/adaptlearn/learning-service/internal/examcoach"
)

// PlanData is the stored body of a revision plan.
type PlanData struct {
	Days      []examcoach.DayPlan             `json:"days"`
	Resources map[string][]examcoach.Resource `json:"resources,omitempty"`
}

type RevisionPlan struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID uint   `json:"student_id" gorm:"not null;index"`
	ExamID    string `json:"exam_id" gorm:"size:50"`
	StartDate string `json:"start_date" gorm:"size:10"`

	PlanData           datatypes.JSONType[PlanData] `json:"plan" gorm:"type:jsonb;not null"`
	TotalTopicsCovered int                          `json:"total_topics_covered"`
	IsActive           bool                         `json:"is_active" gorm:"default:true;index"`

	GeneratedAt time.Time `json:"generated_at" gorm:"autoCreateTime"`
}

func (RevisionPlan) TableName() string {
	return "revision_plans"
}
