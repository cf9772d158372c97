package repositories

import (
	"context"
	"time"

	"github.com/adaptlearn/learning-service/internal/models"
)

// Lookups by id return (nil, nil) when the row does not exist.

// TopicResult is one topic's tally from a single submitted test.
type TopicResult struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
}

// AttemptSummary totals every attempt a student has made.
type AttemptSummary struct {
	Tests     int64 `json:"tests"`
	Correct   int64 `json:"correct"`
	Questions int64 `json:"questions"`
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
}

type MockTestRepository interface {
	// GetByID loads a test with its subject.
	GetByID(ctx context.Context, id uint) (*models.MockTest, error)
	// GetQuestions returns a test's questions in display order.
	GetQuestions(ctx context.Context, testID uint) ([]models.Question, error)
}

type AttemptRepository interface {
	// Submit stores the attempt and folds results into the student's topic
	// performance in one transaction.
	Submit(ctx context.Context, attempt *models.StudentAttempt, results []TopicResult) error
	ListRecentByStudent(ctx context.Context, studentID uint, limit int) ([]models.StudentAttempt, error)
	SummarizeByStudent(ctx context.Context, studentID uint) (AttemptSummary, error)
}

type TopicPerformanceRepository interface {
	// ListByStudent returns every topic for the student, weakest first.
	ListByStudent(ctx context.Context, studentID uint) ([]models.TopicPerformance, error)
}

type RevisionPlanRepository interface {
	// ReplaceActive deactivates the student's current plan and stores plan
	// as the new active one.
	ReplaceActive(ctx context.Context, plan *models.RevisionPlan) error
	GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error)
}

type StreakRepository interface {
	// Log adds minutes and tests to the student's entry for day, creating it
	// when needed, and returns the stored entry.
	Log(ctx context.Context, studentID uint, day time.Time, minutes, tests int) (*models.StreakEntry, error)
	// ListByStudent returns all entries, most recent first.
	ListByStudent(ctx context.Context, studentID uint) ([]models.StreakEntry, error)
}

// Repository groups every repository the services depend on.
type Repository interface {
	Student() StudentRepository
	MockTest() MockTestRepository
	Attempt() AttemptRepository
	TopicPerformance() TopicPerformanceRepository
	RevisionPlan() RevisionPlanRepository
	Streak() StreakRepository
}
