package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/adaptlearn/learning-service/internal/examcoach"
	"github.com/adaptlearn/learning-service/internal/models"
	"github.com/adaptlearn/learning-service/internal/repositories"
	"github.com/adaptlearn/learning-service/internal/validator"
)

// MockStudentRepository is a mock implementation of StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	args := m.Called(ctx, id)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

func (m *MockStudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	args := m.Called(ctx, email)
	student, _ := args.Get(0).(*models.Student)
	return student, args.Error(1)
}

// MockMockTestRepository is a mock implementation of MockTestRepository
type MockMockTestRepository struct {
	mock.Mock
}

func (m *MockMockTestRepository) GetByID(ctx context.Context, id uint) (*models.MockTest, error) {
	args := m.Called(ctx, id)
	test, _ := args.Get(0).(*models.MockTest)
	return test, args.Error(1)
}

func (m *MockMockTestRepository) GetQuestions(ctx context.Context, testID uint) ([]models.Question, error) {
	args := m.Called(ctx, testID)
	questions, _ := args.Get(0).([]models.Question)
	return questions, args.Error(1)
}

// MockAttemptRepository is a mock implementation of AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Submit(ctx context.Context, attempt *models.StudentAttempt, results []repositories.TopicResult) error {
	args := m.Called(ctx, attempt, results)
	return args.Error(0)
}

func (m *MockAttemptRepository) ListRecentByStudent(ctx context.Context, studentID uint, limit int) ([]models.StudentAttempt, error) {
	args := m.Called(ctx, studentID, limit)
	attempts, _ := args.Get(0).([]models.StudentAttempt)
	return attempts, args.Error(1)
}

func (m *MockAttemptRepository) SummarizeByStudent(ctx context.Context, studentID uint) (repositories.AttemptSummary, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(repositories.AttemptSummary), args.Error(1)
}

// MockTopicPerformanceRepository is a mock implementation of TopicPerformanceRepository
type MockTopicPerformanceRepository struct {
	mock.Mock
}

func (m *MockTopicPerformanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.TopicPerformance, error) {
	args := m.Called(ctx, studentID)
	topics, _ := args.Get(0).([]models.TopicPerformance)
	return topics, args.Error(1)
}

// MockRevisionPlanRepository is a mock implementation of RevisionPlanRepository
type MockRevisionPlanRepository struct {
	mock.Mock
}

func (m *MockRevisionPlanRepository) ReplaceActive(ctx context.Context, plan *models.RevisionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockRevisionPlanRepository) GetActive(ctx context.Context, studentID uint) (*models.RevisionPlan, error) {
	args := m.Called(ctx, studentID)
	plan, _ := args.Get(0).(*models.RevisionPlan)
	return plan, args.Error(1)
}

// MockStreakRepository is a mock implementation of StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) Log(ctx context.Context, studentID uint, day time.Time, minutes, tests int) (*models.StreakEntry, error) {
	args := m.Called(ctx, studentID, day, minutes, tests)
	entry, _ := args.Get(0).(*models.StreakEntry)
	return entry, args.Error(1)
}

func (m *MockStreakRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.StreakEntry, error) {
	args := m.Called(ctx, studentID)
	entries, _ := args.Get(0).([]models.StreakEntry)
	return entries, args.Error(1)
}

// mockRepository bundles the repository mocks behind repositories.Repository.
type mockRepository struct {
	student  *MockStudentRepository
	mockTest *MockMockTestRepository
	attempt  *MockAttemptRepository
	topics   *MockTopicPerformanceRepository
	plans    *MockRevisionPlanRepository
	streak   *MockStreakRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		student:  &MockStudentRepository{},
		mockTest: &MockMockTestRepository{},
		attempt:  &MockAttemptRepository{},
		topics:   &MockTopicPerformanceRepository{},
		plans:    &MockRevisionPlanRepository{},
		streak:   &MockStreakRepository{},
	}
}

func (r *mockRepository) Student() repositories.StudentRepository   { return r.student }
func (r *mockRepository) MockTest() repositories.MockTestRepository { return r.mockTest }
func (r *mockRepository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *mockRepository) TopicPerformance() repositories.TopicPerformanceRepository {
	return r.topics
}
func (r *mockRepository) RevisionPlan() repositories.RevisionPlanRepository { return r.plans }
func (r *mockRepository) Streak() repositories.StreakRepository             { return r.streak }

func (r *mockRepository) AssertExpectations(t mock.TestingT) {
	r.student.AssertExpectations(t)
	r.mockTest.AssertExpectations(t)
	r.attempt.AssertExpectations(t)
	r.topics.AssertExpectations(t)
	r.plans.AssertExpectations(t)
	r.streak.AssertExpectations(t)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testValidator() *validator.Validator {
	return validator.New(examcoach.DefaultCatalog())
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}
