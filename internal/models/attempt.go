package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

type StudentAttempt struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;index"`
	TestID    uint `json:"test_id" gorm:"not null;index"`

	// Answers maps question id to the selected option index.
	Answers          datatypes.JSONType[map[string]int] `json:"answers" gorm:"type:jsonb;not null"`
	Score            int                                `json:"score" gorm:"not null"`
	Total            int                                `json:"total" gorm:"not null"`
	TimeTakenSeconds *int                               `json:"time_taken_seconds"`
	Completed        bool                               `json:"completed" gorm:"default:true"`

	MockTest *MockTest `json:"mock_test,omitempty" gorm:"foreignKey:TestID"`

	CreatedAt time.Time `json:"created_at"`
}

func (StudentAttempt) TableName() string {
	return "student_attempts"
}

// Percentage is the score as a percentage of total, two decimals.
func (a StudentAttempt) Percentage() float64 {
	if a.Total == 0 {
		return 0
	}
	return math.Round(float64(a.Score)/float64(a.Total)*10000) / 100
}

// TopicPerformance is a student's running tally for one topic (chapter).
type TopicPerformance struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	StudentID      uint    `json:"student_id" gorm:"not null;uniqueIndex:idx_topic_perf_student_topic"`
	Topic          string  `json:"topic" gorm:"not null;size:200;uniqueIndex:idx_topic_perf_student_topic"`
	Subject        string  `json:"subject" gorm:"size:100"`
	Correct        int     `json:"correct" gorm:"default:0"`
	TotalAttempted int     `json:"total_attempted" gorm:"default:0"`
	WeaknessScore  float64 `json:"weakness_score" gorm:"default:0"` // 0 strong, 1 very weak

	LastUpdated time.Time `json:"last_updated" gorm:"autoUpdateTime"`
}

func (TopicPerformance) TableName() string {
	return "topic_performance"
}

// Accuracy is the percentage of correct answers, two decimals.
func (tp TopicPerformance) Accuracy() float64 {
	if tp.TotalAttempted == 0 {
		return 0
	}
	return math.Round(float64(tp.Correct)/float64(tp.TotalAttempted)*10000) / 100
}

// Record adds a test's results and recomputes the weakness score.
func (tp *TopicPerformance) Record(correct, total int) {
	tp.Correct += correct
	tp.TotalAttempted += total
	if tp.TotalAttempted > 0 {
		tp.WeaknessScore = math.Round((1-float64(tp.Correct)/float64(tp.TotalAttempted))*10000) / 10000
	}
}
